package rules

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/manifest"
	"mercator-hq/modlint/pkg/lint/resolve"
)

// accessTableName is the access table path as shown in messages.
var accessTableName = filepath.ToSlash(resolve.AccessTablePath)

// requiredAttributes lists the attributes each data element must carry.
var requiredAttributes = []struct {
	tag   string
	attrs []string
}{
	{tag: "record", attrs: []string{"model", "id"}},
	{tag: "field", attrs: []string{"name"}},
	{tag: "menuitem", attrs: []string{"id"}},
}

func dataRules() []*Rule {
	return []*Rule{
		{
			ID:          InvalidRootElement,
			Kind:        document.KindDataDocument,
			Severity:    finding.SeverityError,
			Description: "Data document root element is not <odoo> or <openerp>",
			Check:       checkInvalidRootElement,
		},
		{
			ID:          XMLProlog,
			Kind:        document.KindDataDocument,
			Severity:    finding.SeverityWarning,
			Description: "XML declaration is missing or not UTF-8",
			Check:       checkXMLProlog,
		},
		{
			ID:          DuplicateID,
			Kind:        document.KindDataDocument,
			Severity:    finding.SeverityError,
			Description: "The same id is declared more than once in a data document",
			Check:       checkDuplicateID,
		},
		{
			ID:          MissingRequiredAttribute,
			Kind:        document.KindDataDocument,
			Severity:    finding.SeverityError,
			Description: "Data element lacks an attribute it requires",
			Check:       checkMissingRequiredAttribute,
		},
		{
			ID:          UndeclaredDataFile,
			Kind:        document.KindDataDocument,
			Severity:    finding.SeverityWarning,
			Description: "Data document is not listed in the manifest",
			Check:       checkUndeclaredDataFile,
		},
	}
}

func checkInvalidRootElement(p *Pass) error {
	root, ok := rootElement(p.Doc)
	if !ok {
		p.Report(p.Doc.Source.FirstLine(), "Data document has no root element")
		return nil
	}
	if slices.Contains(p.Options.RootTags, root.Tag) {
		return nil
	}
	p.ReportWithSuggestion(root.Head,
		fmt.Sprintf("Root element <%s> is not allowed", root.Tag),
		fmt.Sprintf("Use one of: %s", strings.Join(p.Options.RootTags, ", ")))
	return nil
}

func checkXMLProlog(p *Pass) error {
	var prolog *ast.Node
	for _, c := range p.Doc.Root.Children {
		if c.Kind == ast.KindProcInst && strings.EqualFold(c.Tag, "xml") {
			prolog = c
			break
		}
	}
	if prolog == nil {
		p.ReportWithSuggestion(p.Doc.Source.FirstLine(), "Missing XML declaration",
			`Start the file with <?xml version="1.0" encoding="utf-8"?>`)
		return nil
	}

	enc, ok := prolog.Attr("encoding")
	if !ok || isUTF8(enc.Value) {
		return nil
	}
	p.Reportf(prolog.Span, "XML declaration uses encoding '%s'; expected UTF-8", enc.Value)
	return nil
}

func checkDuplicateID(p *Pass) error {
	seen := make(map[string][]ast.Attr)
	var order []string
	for _, el := range ast.CollectElements(p.Doc.Root) {
		id, ok := el.Attr("id")
		if !ok {
			continue
		}
		if _, dup := seen[id.Value]; !dup {
			order = append(order, id.Value)
		}
		seen[id.Value] = append(seen[id.Value], id)
	}

	for _, value := range order {
		occurrences := seen[value]
		if len(occurrences) < 2 {
			continue
		}
		for _, occ := range occurrences {
			p.Reportf(occ.Span, "Duplicate id '%s' (declared %d times)", value, len(occurrences))
		}
	}
	return nil
}

func checkMissingRequiredAttribute(p *Pass) error {
	for _, el := range ast.CollectElements(p.Doc.Root) {
		for _, req := range requiredAttributes {
			if el.Tag != req.tag {
				continue
			}
			for _, attr := range req.attrs {
				if _, ok := el.Attr(attr); ok {
					continue
				}
				p.Reportf(el.Head, "<%s> is missing the '%s' attribute", el.Tag, attr)
			}
		}
	}
	return nil
}

func checkUndeclaredDataFile(p *Pass) error {
	m, err := p.Resolver.NearestManifest(p.Context, p.Doc.Path)
	if errors.Is(err, resolve.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	rel, err := relativePath(m.Root, p.Doc.Path)
	if err != nil {
		return err
	}
	if strings.HasPrefix(rel, "static/") {
		return nil
	}
	if slices.Contains(m.Table.Files(manifest.KeyData, manifest.KeyDemo), rel) {
		return nil
	}

	span := p.Doc.Source.FirstLine()
	if root, ok := rootElement(p.Doc); ok {
		span = root.Head
	}
	p.ReportWithSuggestion(span,
		fmt.Sprintf("'%s' is not declared in the manifest 'data' or 'demo' lists", rel),
		fmt.Sprintf("Add '%s' to 'data' in %s", rel, filepath.Base(m.Path)))
	return nil
}

// rootElement returns the top-level element of a data document.
func rootElement(doc *document.Document) (*ast.Node, bool) {
	elems := doc.Root.Elements()
	if len(elems) == 0 {
		return nil, false
	}
	return elems[0], true
}

func isUTF8(enc string) bool {
	return strings.EqualFold(enc, "utf-8") || strings.EqualFold(enc, "utf8")
}

// moduleRoot returns the module directory of a manifest path.
func moduleRoot(descriptor string) string {
	return filepath.Dir(descriptor)
}

// relativePath returns path relative to root in manifest form.
func relativePath(root, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", path, err)
	}
	return manifest.NormalizePath(filepath.ToSlash(rel)), nil
}
