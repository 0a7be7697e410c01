package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/cli"
)

const cleanManifest = `{
    'name': 'Sale Extras',
    'version': '17.0.1.0.0',
    'license': 'LGPL-3',
    'depends': ['sale'],
    'data': [],
}
`

// writeFiles creates files under dir, keyed by slash-separated relative path.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// testConfig writes a config file keeping the baseline database inside dir
// and points the --config flag at it.
func testConfig(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "modlint.yaml")
	content := "baseline:\n  path: " + filepath.ToSlash(filepath.Join(dir, "baseline.db")) + "\n" +
		"telemetry:\n  logging:\n    level: error\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile = path
	t.Cleanup(func() { cfgFile = "" })
}

func resetLintFlags() {
	lintFormat = "text"
	lintStrict = false
	lintFailOn = "error"
	lintChanged = false
	lintSince = ""
	lintUseBaseline = false
	lintProgress = false
	lintQuiet = false
	lintContext = false
}

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	return cmd, out
}

func TestRunLintCleanModule(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	testConfig(t, dir)
	writeFiles(t, dir, map[string]string{
		"sale_extras/__manifest__.py": cleanManifest,
	})

	cmd, out := newTestCommand()
	if err := runLint(cmd, []string{filepath.Join(dir, "sale_extras")}); err != nil {
		t.Fatalf("runLint() error = %v", err)
	}
	if !strings.Contains(out.String(), "1 file checked: 0 errors, 0 warnings, 0 info") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestRunLintThreshold(t *testing.T) {
	// A manifest without a license yields exactly one warning.
	manifest := `{'name': 'X', 'version': '1.0', 'depends': ['base']}`

	tests := []struct {
		name     string
		strict   bool
		failOn   string
		wantFail bool
	}{
		{name: "default threshold", failOn: "error", wantFail: false},
		{name: "strict", strict: true, failOn: "error", wantFail: true},
		{name: "fail on info", failOn: "info", wantFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLintFlags()
			lintStrict = tt.strict
			lintFailOn = tt.failOn

			dir := t.TempDir()
			testConfig(t, dir)
			writeFiles(t, dir, map[string]string{"x/__manifest__.py": manifest})

			cmd, out := newTestCommand()
			err := runLint(cmd, []string{dir})

			var findingsErr *cli.FindingsError
			if tt.wantFail {
				if !errors.As(err, &findingsErr) {
					t.Fatalf("runLint() error = %v, want FindingsError", err)
				}
				if findingsErr.Count != 1 {
					t.Errorf("Count = %d, want 1", findingsErr.Count)
				}
			} else if err != nil {
				t.Fatalf("runLint() error = %v", err)
			}
			if !strings.Contains(out.String(), "[missing-license]") {
				t.Errorf("output missing the license finding:\n%s", out.String())
			}
		})
	}
}

func TestRunLintContext(t *testing.T) {
	resetLintFlags()
	lintContext = true

	dir := t.TempDir()
	testConfig(t, dir)
	writeFiles(t, dir, map[string]string{
		"x/__manifest__.py": "{\n    'name': 'X',\n    'version': '1.0',\n    'license': 'MIT',\n    'depends': ['base'],\n}\n",
	})

	cmd, out := newTestCommand()
	if err := runLint(cmd, []string{dir}); err != nil {
		t.Fatalf("runLint() error = %v", err)
	}
	if !strings.Contains(out.String(), "-> 4 |     'license': 'MIT',") {
		t.Errorf("source excerpt missing:\n%s", out.String())
	}
}

func TestRunLintJSON(t *testing.T) {
	resetLintFlags()
	lintFormat = "json"

	dir := t.TempDir()
	testConfig(t, dir)
	writeFiles(t, dir, map[string]string{
		"m/__manifest__.py": `{'name': 'M', 'version': '1.0', 'license': 'LGPL-3', 'depends': ['base'], 'data': ['views/v.xml']}`,
		"m/views/v.xml": `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="dup" model="ir.ui.view"/>
    <record id="dup" model="ir.ui.view"/>
</odoo>
`,
	})

	cmd, out := newTestCommand()
	err := runLint(cmd, []string{dir})

	var findingsErr *cli.FindingsError
	if !errors.As(err, &findingsErr) {
		t.Fatalf("runLint() error = %v, want FindingsError", err)
	}
	if findingsErr.Count != 2 {
		t.Errorf("Count = %d, want 2", findingsErr.Count)
	}

	var report cli.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if report.Summary.Files != 2 {
		t.Errorf("Summary.Files = %d, want 2", report.Summary.Files)
	}
	if report.Summary.Errors != 2 {
		t.Errorf("Summary.Errors = %d, want 2", report.Summary.Errors)
	}
	for _, f := range report.Findings {
		if f.Rule != "duplicate-id" {
			t.Errorf("unexpected finding %s", f)
		}
	}
}

// initRepo creates a repository in a new directory and commits files.
func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	writeFiles(t, dir, files)

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	for name := range files {
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
	}
	_, err = worktree.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return dir
}

func TestRunLintChangedAcrossRepositories(t *testing.T) {
	resetLintFlags()
	lintFormat = "json"
	lintChanged = true
	defer resetLintFlags()

	testConfig(t, t.TempDir())

	manifest := `{'name': 'M', 'version': '1.0', 'license': 'LGPL-3', 'depends': ['base'], 'data': ['views/v.xml']}`
	view := `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="dup" model="ir.ui.view"/>
    <record id="dup" model="ir.ui.view"/>
</odoo>
`
	var repos []string
	for i := 0; i < 2; i++ {
		dir := initRepo(t, map[string]string{"m/__manifest__.py": manifest})
		writeFiles(t, dir, map[string]string{"m/views/v.xml": view})
		repos = append(repos, dir)
	}

	cmd, out := newTestCommand()
	err := runLint(cmd, repos)

	var findingsErr *cli.FindingsError
	if !errors.As(err, &findingsErr) {
		t.Fatalf("runLint() error = %v, want FindingsError", err)
	}
	if findingsErr.Count != 4 {
		t.Errorf("Count = %d, want 4", findingsErr.Count)
	}

	var report cli.Report
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if report.Summary.Files != 2 {
		t.Errorf("Summary.Files = %d, want 2 (one changed view per repository)", report.Summary.Files)
	}
}

func TestRunLintChangedNothingChanged(t *testing.T) {
	resetLintFlags()
	lintChanged = true
	defer resetLintFlags()

	testConfig(t, t.TempDir())
	dir := initRepo(t, map[string]string{
		"m/__manifest__.py": `{'name': 'M'}`,
	})

	cmd, out := newTestCommand()
	if err := runLint(cmd, []string{dir}); err != nil {
		t.Fatalf("runLint() error = %v, want nil for a clean worktree", err)
	}
	if strings.Contains(out.String(), "missing-") {
		t.Errorf("committed file was linted:\n%s", out.String())
	}
}

func TestChangedFilesNotRepository(t *testing.T) {
	resetLintFlags()
	lintChanged = true
	defer resetLintFlags()

	if _, err := changedFiles([]string{t.TempDir()}); err == nil {
		t.Error("changedFiles() outside a repository error = nil")
	}
}

func TestRunLintParseFailureIsReported(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	testConfig(t, dir)
	writeFiles(t, dir, map[string]string{
		"m/__manifest__.py": cleanManifest,
		"m/broken.xml":      "<odoo><record></odoo>",
	})

	cmd, out := newTestCommand()
	if err := runLint(cmd, []string{dir}); err != nil {
		t.Fatalf("runLint() error = %v", err)
	}
	if !strings.Contains(out.String(), "broken.xml: not linted:") {
		t.Errorf("expected parse failure line:\n%s", out.String())
	}
}

func TestRunLintInvalidFlags(t *testing.T) {
	tests := []struct {
		name   string
		format string
		failOn string
	}{
		{name: "unknown format", format: "xml", failOn: "error"},
		{name: "unknown severity", format: "text", failOn: "fatal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLintFlags()
			lintFormat = tt.format
			lintFailOn = tt.failOn

			cmd, _ := newTestCommand()
			err := runLint(cmd, []string{t.TempDir()})

			var cfgErr *cli.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("runLint() error = %v, want ConfigError", err)
			}
		})
	}
}

func TestRunLintBaseline(t *testing.T) {
	resetLintFlags()
	dir := t.TempDir()
	testConfig(t, dir)
	writeFiles(t, dir, map[string]string{
		"x/__manifest__.py": `{'name': 'X', 'version': '1.0', 'depends': ['base']}`,
	})

	cmd, out := newTestCommand()
	if err := runBaselineSave(cmd, []string{dir}); err != nil {
		t.Fatalf("runBaselineSave() error = %v", err)
	}
	if !strings.Contains(out.String(), "with 1 finding from 1 file") {
		t.Errorf("unexpected save output: %s", out.String())
	}

	lintUseBaseline = true
	lintFailOn = "info"
	cmd, out = newTestCommand()
	if err := runLint(cmd, []string{dir}); err != nil {
		t.Fatalf("runLint() with baseline error = %v", err)
	}
	if strings.Contains(out.String(), "missing-license") {
		t.Errorf("baselined finding reported:\n%s", out.String())
	}

	// A new finding is still reported.
	writeFiles(t, dir, map[string]string{
		"x/__manifest__.py": `{'name': 'X', 'version': '1.0'}`,
	})
	cmd, out = newTestCommand()
	err := runLint(cmd, []string{dir})
	var findingsErr *cli.FindingsError
	if !errors.As(err, &findingsErr) || findingsErr.Count != 1 {
		t.Fatalf("runLint() error = %v, want one new finding", err)
	}
	if !strings.Contains(out.String(), "[missing-depends]") {
		t.Errorf("new finding not reported:\n%s", out.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: cli.ExitOK},
		{name: "findings", err: &cli.FindingsError{Count: 3}, want: cli.ExitFindings},
		{name: "config error", err: cli.NewConfigError("format", "bad"), want: cli.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	root := filepath.FromSlash("/work/addons")
	tests := []struct {
		path string
		want string
	}{
		{path: filepath.FromSlash("/work/addons/m/__manifest__.py"), want: filepath.FromSlash("m/__manifest__.py")},
		{path: filepath.FromSlash("/work/other/x.py"), want: filepath.FromSlash("/work/other/x.py")},
	}
	for _, tt := range tests {
		if got := displayPath(root, tt.path); got != tt.want {
			t.Errorf("displayPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
