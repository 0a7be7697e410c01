package finding

import (
	"fmt"
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
)

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity converts a configuration string into a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "information":
		return SeverityInfo, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// Rank orders severities from most to least serious (error = 0).
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Finding is one reported rule violation. It is an immutable value once
// created by a rule.
type Finding struct {
	Rule       string   `json:"rule"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Path       string   `json:"path"`
	Span       ast.Span `json:"span"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// String formats the finding as "path:line:col: severity: message [rule]".
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		f.Path, f.Span.Start.Line, f.Span.Start.Column, f.Severity, f.Message, f.Rule)
}

// List accumulates findings in report order.
type List struct {
	Findings []Finding
}

// NewList creates a new empty list.
func NewList() *List {
	return &List{
		Findings: make([]Finding, 0),
	}
}

// Add appends a finding to the list.
func (l *List) Add(f Finding) {
	l.Findings = append(l.Findings, f)
}

// Extend appends every finding of fs in order.
func (l *List) Extend(fs []Finding) {
	l.Findings = append(l.Findings, fs...)
}

// Len returns the number of findings.
func (l *List) Len() int {
	return len(l.Findings)
}

// Count returns the number of findings with the given severity.
func (l *List) Count(sev Severity) int {
	n := 0
	for _, f := range l.Findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

