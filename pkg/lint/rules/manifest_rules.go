package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/manifest"
)

// versionPattern accepts dotted numeric versions such as 17.0.1.0.0.
var versionPattern = regexp.MustCompile(`^\d+(\.\d+)*$`)

func manifestRules() []*Rule {
	return []*Rule{
		{
			ID:          MissingManifestKey,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityWarning,
			Description: "Manifest lacks a required key",
			Check:       checkMissingManifestKey,
		},
		{
			ID:          InvalidManifestVersion,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityWarning,
			Description: "Manifest version is not a dotted numeric version",
			Check:       checkInvalidManifestVersion,
		},
		{
			ID:          DisallowedAuthor,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityWarning,
			Description: "Manifest author still holds the template placeholder",
			Check:       checkDisallowedAuthor,
		},
		{
			ID:          MissingLicense,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityWarning,
			Description: "Manifest declares no license",
			Check:       checkMissingLicense,
		},
		{
			ID:          InvalidLicense,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityWarning,
			Description: "Manifest license is not an accepted license",
			Check:       checkInvalidLicense,
		},
		{
			ID:          MissingDepends,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityInfo,
			Description: "Manifest declares no module dependencies",
			Check:       checkMissingDepends,
		},
		{
			ID:          MissingDeclaredFile,
			Kind:        document.KindManifest,
			Severity:    finding.SeverityError,
			Description: "Manifest data or demo entry names a file that does not exist",
			Check:       checkMissingDeclaredFile,
		},
	}
}

func checkMissingManifestKey(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	for _, key := range p.Options.RequiredManifestKeys {
		if table.Has(key) {
			continue
		}
		p.ReportWithSuggestion(table.Dict.Span,
			fmt.Sprintf("Missing required manifest key '%s'", key),
			finding.SuggestMissingKey(key, ""))
	}
	return nil
}

func checkInvalidManifestVersion(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	entry, ok := table.Get(manifest.KeyVersion)
	if !ok {
		return nil
	}
	version, ok := manifest.StringLiteral(entry.Value)
	if ok && versionPattern.MatchString(version) {
		return nil
	}
	p.Reportf(entry.Value.Span, "Version %s is not a dotted numeric version", entry.Value.Text())
	return nil
}

func checkDisallowedAuthor(p *Pass) error {
	placeholder := p.Options.AuthorPlaceholder
	if placeholder == "" {
		return nil
	}
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	entry, ok := table.Get(manifest.KeyAuthor)
	if !ok || !strings.Contains(entry.Text(), placeholder) {
		return nil
	}
	p.Reportf(entry.Value.Span, "Author contains the placeholder '%s'", placeholder)
	return nil
}

func checkMissingLicense(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	if table.Has(manifest.KeyLicense) {
		return nil
	}
	p.ReportWithSuggestion(table.Dict.Span,
		fmt.Sprintf("Missing manifest key '%s'", manifest.KeyLicense),
		finding.SuggestMissingKey(manifest.KeyLicense, "'LGPL-3'"))
	return nil
}

func checkInvalidLicense(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	entry, ok := table.Get(manifest.KeyLicense)
	if !ok {
		return nil
	}
	license := entry.Text()
	if slices.Contains(p.Options.Licenses, license) {
		return nil
	}
	p.ReportWithSuggestion(entry.Value.Span,
		fmt.Sprintf("License '%s' is not allowed", license),
		finding.SuggestValue(license, p.Options.Licenses))
	return nil
}

func checkMissingDepends(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	if table.Has(manifest.KeyDepends) {
		return nil
	}
	p.ReportWithSuggestion(table.Dict.Span,
		"Manifest declares no 'depends'",
		finding.SuggestMissingKey(manifest.KeyDepends, "['base']"))
	return nil
}

func checkMissingDeclaredFile(p *Pass) error {
	table, err := p.ManifestTable()
	if err != nil {
		return err
	}
	root := moduleRoot(p.Doc.Path)

	for _, key := range []string{manifest.KeyData, manifest.KeyDemo} {
		entry, ok := table.Get(key)
		if !ok {
			continue
		}
		if _, isList := entry.StringList(); !isList {
			continue
		}
		for _, el := range entry.Value.Children {
			declared, ok := manifest.StringLiteral(el)
			if !ok {
				continue
			}
			rel := manifest.NormalizePath(declared)
			_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
			if errors.Is(err, fs.ErrNotExist) {
				p.Reportf(el.Span, "File '%s' declared in '%s' does not exist", rel, key)
				continue
			}
			if err != nil {
				return fmt.Errorf("check declared file %s: %w", rel, err)
			}
		}
	}
	return nil
}
