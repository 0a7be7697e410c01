package rules

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/manifest"
	"mercator-hq/modlint/pkg/lint/resolve"
)

// Pass is the state of running one rule on one document.
type Pass struct {
	Context  context.Context
	Doc      *document.Document
	Resolver *resolve.Resolver
	Options  *Options
	Logger   *slog.Logger

	rule     *Rule
	severity finding.Severity
	findings []finding.Finding
}

// NewPass prepares rule to run on doc. severity overrides the rule default
// when non-empty.
func NewPass(ctx context.Context, rule *Rule, doc *document.Document, resolver *resolve.Resolver, opts *Options, severity finding.Severity, logger *slog.Logger) *Pass {
	if severity == "" {
		severity = rule.Severity
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pass{
		Context:  ctx,
		Doc:      doc,
		Resolver: resolver,
		Options:  opts,
		Logger:   logger,
		rule:     rule,
		severity: severity,
	}
}

// Rule returns the rule being run.
func (p *Pass) Rule() *Rule {
	return p.rule
}

// Report records a finding at span.
func (p *Pass) Report(span ast.Span, message string) {
	p.ReportWithSuggestion(span, message, "")
}

// Reportf records a finding with a formatted message.
func (p *Pass) Reportf(span ast.Span, format string, args ...any) {
	p.Report(span, fmt.Sprintf(format, args...))
}

// ReportWithSuggestion records a finding carrying a fix hint.
func (p *Pass) ReportWithSuggestion(span ast.Span, message, suggestion string) {
	p.findings = append(p.findings, finding.Finding{
		Rule:       p.rule.ID,
		Severity:   p.severity,
		Message:    message,
		Path:       p.Doc.Path,
		Span:       span,
		Suggestion: suggestion,
	})
}

// Findings returns what the rule reported, in report order.
func (p *Pass) Findings() []finding.Finding {
	return p.findings
}

// ManifestTable builds the key table of the pass's manifest document.
func (p *Pass) ManifestTable() (*manifest.Table, error) {
	table, ok := manifest.FromDocument(p.Doc)
	if !ok {
		return nil, document.ErrNoManifestDict
	}
	return table, nil
}
