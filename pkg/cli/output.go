package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mercator-hq/modlint/pkg/lint/finding"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is one line per finding (default).
	FormatText OutputFormat = "text"
	// FormatJSON is a JSON report.
	FormatJSON OutputFormat = "json"
	// FormatCSV is one CSV row per finding.
	FormatCSV OutputFormat = "csv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unknown output format %q (want text, json or csv)", s))
	}
}

// FileError is a file that could not be linted.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary counts the findings of a report.
type Summary struct {
	Files    int `json:"files"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Skipped  int `json:"skipped"`
}

// Report is the result of a lint command.
type Report struct {
	Findings   []finding.Finding `json:"findings"`
	FileErrors []FileError       `json:"file_errors,omitempty"`
	Summary    Summary           `json:"summary"`
}

// NewReport builds a report and its summary.
func NewReport(files int, findings []finding.Finding, fileErrors []FileError) *Report {
	if findings == nil {
		findings = []finding.Finding{}
	}
	r := &Report{
		Findings:   findings,
		FileErrors: fileErrors,
		Summary:    Summary{Files: files, Skipped: len(fileErrors)},
	}
	for _, f := range findings {
		switch f.Severity {
		case finding.SeverityError:
			r.Summary.Errors++
		case finding.SeverityWarning:
			r.Summary.Warnings++
		case finding.SeverityInfo:
			r.Summary.Infos++
		}
	}
	return r
}

// Formatter writes a report.
type Formatter interface {
	FormatTo(w io.Writer, report *Report) error
}

// TextFormatter writes compiler-style lines.
type TextFormatter struct {
	// Quiet omits suggestions, context and the summary line.
	Quiet bool

	// Context, when set, returns a source excerpt printed under each
	// finding. An empty excerpt prints nothing.
	Context func(finding.Finding) string
}

// FormatTo writes report to w in text format.
func (f *TextFormatter) FormatTo(w io.Writer, report *Report) error {
	for _, fd := range report.Findings {
		if _, err := fmt.Fprintln(w, fd.String()); err != nil {
			return err
		}
		if f.Quiet {
			continue
		}
		if f.Context != nil {
			if excerpt := f.Context(fd); excerpt != "" {
				if _, err := io.WriteString(w, excerpt); err != nil {
					return err
				}
			}
		}
		if fd.Suggestion != "" {
			if _, err := fmt.Fprintf(w, "    suggestion: %s\n", fd.Suggestion); err != nil {
				return err
			}
		}
	}
	for _, fe := range report.FileErrors {
		if _, err := fmt.Fprintf(w, "%s: not linted: %s\n", fe.Path, fe.Error); err != nil {
			return err
		}
	}
	if f.Quiet {
		return nil
	}

	s := report.Summary
	_, err := fmt.Fprintf(w, "%d %s checked: %d %s, %d %s, %d info\n",
		s.Files, plural(s.Files, "file", "files"),
		s.Errors, plural(s.Errors, "error", "errors"),
		s.Warnings, plural(s.Warnings, "warning", "warnings"),
		s.Infos)
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes report to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, report *Report) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(report)
}

// CSVHeaders are the columns written by CSVFormatter.
var CSVHeaders = []string{"path", "line", "column", "end_line", "end_column", "severity", "rule", "message", "suggestion"}

// CSVFormatter formats findings as CSV rows.
type CSVFormatter struct {
	// NoHeader omits the header row.
	NoHeader bool
}

// FormatTo writes report to w in CSV format. File errors are not written.
func (f *CSVFormatter) FormatTo(w io.Writer, report *Report) error {
	csvWriter := csv.NewWriter(w)

	if !f.NoHeader {
		if err := csvWriter.Write(CSVHeaders); err != nil {
			return err
		}
	}

	for _, fd := range report.Findings {
		row := []string{
			fd.Path,
			strconv.Itoa(fd.Span.Start.Line),
			strconv.Itoa(fd.Span.Start.Column),
			strconv.Itoa(fd.Span.End.Line),
			strconv.Itoa(fd.Span.End.Column),
			string(fd.Severity),
			fd.Rule,
			fd.Message,
			fd.Suggestion,
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
