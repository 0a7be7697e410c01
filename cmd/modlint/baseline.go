package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/baseline"
	"mercator-hq/modlint/pkg/cli"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/runner"
	"mercator-hq/modlint/pkg/vcs"
)

var baselineShowJSON bool

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage the accepted-findings baseline",
	Long: `A baseline records the findings present at one point in time. Running
"modlint lint --baseline" afterwards reports only findings that are not in it.

The baseline database lives at baseline.path (default .modlint/baseline.db).`,
}

var baselineSaveCmd = &cobra.Command{
	Use:   "save [PATH...]",
	Short: "Lint and record every current finding as accepted",
	RunE:  runBaselineSave,
}

var baselineShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved baselines",
	Args:  cobra.NoArgs,
	RunE:  runBaselineShow,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.AddCommand(baselineSaveCmd)
	baselineCmd.AddCommand(baselineShowCmd)

	baselineShowCmd.Flags().BoolVar(&baselineShowJSON, "json", false, "print snapshots as JSON")
}

func runBaselineSave(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := a.newEngine()
	if err != nil {
		return cli.NewCommandError("baseline save", err)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ctx := commandContext(cmd)
	r := runner.New(eng, runner.Config{Workers: a.cfg.Lint.Workers, Exclude: a.cfg.Lint.Exclude}, a.logger)
	results, err := r.Run(ctx, paths)
	if err != nil {
		return cli.NewCommandError("baseline save", err)
	}

	var findings []finding.Finding
	for _, res := range results {
		findings = append(findings, res.Findings...)
	}

	root := workingDir()
	commit := ""
	if repo, err := vcs.Open(root); err == nil {
		if head, err := repo.HeadCommit(); err == nil {
			commit = head.SHA
		}
	}

	store, err := baseline.Open(&a.cfg.Baseline, a.logger)
	if err != nil {
		return cli.NewCommandError("baseline save", err)
	}
	defer store.Close()

	snap, err := store.Save(ctx, root, commit, findings)
	if err != nil {
		return cli.NewCommandError("baseline save", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved baseline %s with %d %s from %d %s\n",
		snap.ID, snap.FindingCount, pluralize(snap.FindingCount, "finding"), len(results), pluralize(len(results), "file"))
	return nil
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	store, err := baseline.Open(&a.cfg.Baseline, a.logger)
	if err != nil {
		return cli.NewCommandError("baseline show", err)
	}
	defer store.Close()

	snaps, err := store.List(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("baseline show", err)
	}

	out := cmd.OutOrStdout()
	if baselineShowJSON {
		if snaps == nil {
			snaps = []*baseline.Snapshot{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(out, baseline.ErrNoBaseline.Error())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOMMIT\tFINDINGS")
	for _, s := range snaps {
		commit := s.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), commit, s.FindingCount)
	}
	return tw.Flush()
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
