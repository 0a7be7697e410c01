package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/baseline"
	"mercator-hq/modlint/pkg/cli"
	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/engine"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/runner"
	"mercator-hq/modlint/pkg/vcs"
)

var (
	lintFormat      string
	lintStrict      bool
	lintFailOn      string
	lintChanged     bool
	lintSince       string
	lintUseBaseline bool
	lintProgress    bool
	lintQuiet       bool
	lintContext     bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [PATH...]",
	Short: "Lint module files and directories",
	Long: `Lint the given files and module directories (default: the current
directory) and report every convention violation found.

Exit codes:
  0  no findings at or above the failure threshold
  1  findings at or above the threshold
  2  the run itself failed (bad configuration, unreadable path)

Examples:
  modlint lint
  modlint lint addons/sale_extras --format json
  modlint lint --strict --changed
  modlint lint --since origin/main --baseline`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "output format (text, json, csv)")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "treat warnings as failures (same as --fail-on warning)")
	lintCmd.Flags().StringVar(&lintFailOn, "fail-on", "error", "lowest severity that fails the run (error, warning, info)")
	lintCmd.Flags().BoolVar(&lintChanged, "changed", false, "only lint files changed in the git worktree of each path")
	lintCmd.Flags().StringVar(&lintSince, "since", "", "only lint files changed since the given git revision, resolved in each path's repository")
	lintCmd.Flags().BoolVar(&lintUseBaseline, "baseline", false, "hide findings recorded in the saved baseline")
	lintCmd.Flags().BoolVar(&lintProgress, "progress", false, "show a progress bar on stderr")
	lintCmd.Flags().BoolVarP(&lintQuiet, "quiet", "q", false, "omit suggestions and the summary line")
	lintCmd.Flags().BoolVar(&lintContext, "context", false, "print the source lines around each finding (text format)")
}

func runLint(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(lintFormat)
	if err != nil {
		return err
	}
	threshold, err := failThreshold()
	if err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := a.newEngine()
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	rcfg := runner.Config{
		Workers: a.cfg.Lint.Workers,
		Exclude: a.cfg.Lint.Exclude,
	}
	if lintChanged || lintSince != "" {
		only, err := changedFiles(paths)
		if err != nil {
			return cli.NewCommandError("lint", err)
		}
		rcfg.Only = only
	}

	var progress cli.ProgressReporter
	if lintProgress {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr())
		rcfg.OnResult = func(engine.Result) { progress.Increment() }
	}

	ctx := commandContext(cmd)
	r := runner.New(eng, rcfg, a.logger)

	files, err := r.Discover(paths)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if progress != nil {
		progress.Start(int64(len(files)))
	}

	results, err := r.LintFiles(ctx, files)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	root := workingDir()
	var findings []finding.Finding
	var fileErrors []cli.FileError
	for _, res := range results {
		if res.Err != nil {
			fileErrors = append(fileErrors, cli.FileError{Path: displayPath(root, res.Path), Error: res.Err.Error()})
			continue
		}
		findings = append(findings, res.Findings...)
	}

	if lintUseBaseline {
		findings, err = filterBaseline(ctx, a, root, findings)
		if err != nil {
			return cli.NewCommandError("lint", err)
		}
	}

	for i := range findings {
		findings[i].Path = displayPath(root, findings[i].Path)
	}

	report := cli.NewReport(len(files), findings, fileErrors)
	var formatter cli.Formatter = cli.NewFormatter(format)
	if tf, ok := formatter.(*cli.TextFormatter); ok {
		tf.Quiet = lintQuiet
		if lintContext {
			tf.Context = sourceContext(root)
		}
	}
	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if n := countAtLeast(findings, threshold); n > 0 {
		return &cli.FindingsError{Count: n}
	}
	return nil
}

// failThreshold resolves --fail-on and --strict.
func failThreshold() (finding.Severity, error) {
	sev, err := finding.ParseSeverity(lintFailOn)
	if err != nil {
		return "", cli.NewConfigError("fail-on", err.Error())
	}
	if lintStrict && sev == finding.SeverityError {
		sev = finding.SeverityWarning
	}
	return sev, nil
}

func countAtLeast(findings []finding.Finding, threshold finding.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity.Rank() <= threshold.Rank() {
			n++
		}
	}
	return n
}

// changedFiles lists the files --changed or --since select. Each path is
// resolved against the repository enclosing it, and a repository shared by
// several paths is read once.
func changedFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	only := make([]string, 0)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		repo, err := vcs.Open(abs)
		if err != nil {
			return nil, err
		}
		if seen[repo.Root()] {
			continue
		}
		seen[repo.Root()] = true

		var files []string
		if lintSince != "" {
			files, err = repo.ChangedSince(lintSince)
		} else {
			files, err = repo.ChangedFiles()
		}
		if err != nil {
			return nil, err
		}
		only = append(only, files...)
	}
	return only, nil
}

// sourceContext returns an excerpt renderer that reads each file once.
// Relative finding paths are resolved against root.
func sourceContext(root string) func(finding.Finding) string {
	sources := make(map[string]*ast.Source)
	return func(f finding.Finding) string {
		path := f.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		src, ok := sources[path]
		if !ok {
			if data, err := os.ReadFile(path); err == nil {
				src = ast.NewSource(data)
			}
			sources[path] = src
		}
		return finding.ExtractContext(src, f.Span, 1)
	}
}

func filterBaseline(ctx context.Context, a *app, root string, findings []finding.Finding) ([]finding.Finding, error) {
	store, err := baseline.Open(&a.cfg.Baseline, a.logger)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	set, err := store.Load(ctx)
	if errors.Is(err, baseline.ErrNoBaseline) {
		a.logger.Warn("no baseline saved, reporting every finding", "path", a.cfg.Baseline.Path)
		return findings, nil
	}
	if err != nil {
		return nil, err
	}
	return set.Filter(findings, root), nil
}
