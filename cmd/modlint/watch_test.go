package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/session"
)

func TestPrintEntry(t *testing.T) {
	root := filepath.FromSlash("/work")
	path := filepath.Join(root, "m", "__manifest__.py")

	tests := []struct {
		name  string
		entry session.Entry
		want  string
	}{
		{
			name:  "clean",
			entry: session.Entry{Path: path},
			want:  filepath.FromSlash("m/__manifest__.py") + ": ok\n",
		},
		{
			name:  "parse failure",
			entry: session.Entry{Path: path, Err: errors.New("no dictionary")},
			want:  filepath.FromSlash("m/__manifest__.py") + ": not linted: no dictionary\n",
		},
		{
			name: "findings",
			entry: session.Entry{Path: path, Findings: []finding.Finding{{
				Rule:     "missing-license",
				Severity: finding.SeverityWarning,
				Message:  "Missing manifest key 'license'",
				Path:     path,
				Span:     ast.Span{Start: ast.Position{Line: 1, Column: 1}},
			}}},
			want: filepath.FromSlash("m/__manifest__.py") + ":1:1: warning: Missing manifest key 'license' [missing-license]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printEntry(&buf, root)(tt.entry)
			if buf.String() != tt.want {
				t.Errorf("printEntry() wrote %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestRunWatchRejectsMissingPath(t *testing.T) {
	cfgFile = ""
	watchMetricsAddr = ""
	watchDebounce = 0

	cmd, _ := newTestCommand()
	err := runWatch(cmd, []string{filepath.Join(t.TempDir(), "missing")})
	if err == nil || !strings.Contains(err.Error(), "watch") {
		t.Errorf("runWatch() error = %v, want watch failure", err)
	}
}
