package rules

import (
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
)

// Rule identifiers. They are stable: configuration, baselines and output
// refer to rules by these names.
const (
	MissingPackageImport     = "missing-package-import"
	UnknownPackageImport     = "unknown-package-import"
	MissingModelIdentity     = "missing-model-identity"
	InvalidModelName         = "invalid-model-name"
	UnusedImport             = "unused-import"
	MissingAccessRow         = "missing-access-row"
	MissingManifestKey       = "missing-manifest-key"
	InvalidManifestVersion   = "invalid-manifest-version"
	DisallowedAuthor         = "disallowed-author"
	MissingLicense           = "missing-license"
	InvalidLicense           = "invalid-license"
	MissingDepends           = "missing-depends"
	MissingDeclaredFile      = "missing-declared-file"
	InvalidRootElement       = "invalid-root-element"
	XMLProlog                = "xml-prolog"
	DuplicateID              = "duplicate-id"
	MissingRequiredAttribute = "missing-required-attribute"
	UndeclaredDataFile       = "undeclared-data-file"
)

// CheckFunc inspects the pass's document and reports findings through it.
// A returned error is a fault of the rule itself, not a finding.
type CheckFunc func(p *Pass) error

// Rule is one convention check for a single document kind.
type Rule struct {
	ID          string
	Kind        document.Kind
	Severity    finding.Severity // default severity
	Description string
	Check       CheckFunc
}
