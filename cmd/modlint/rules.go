package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/cli"
)

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the registered rules",
	Long: `List every rule in evaluation order with the document kind it applies to,
its effective severity after configuration overrides, and whether it is
enabled.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVarP(&rulesFormat, "format", "f", "text", "output format (text, json)")
}

// ruleInfo is one row of the rules listing.
type ruleInfo struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(rulesFormat)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return cli.NewConfigError("format", "rules supports text and json output")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := a.newEngine()
	if err != nil {
		return cli.NewCommandError("rules", err)
	}

	infos := []ruleInfo{}
	for _, r := range eng.Registry().All() {
		infos = append(infos, ruleInfo{
			ID:          r.ID,
			Kind:        r.Kind.String(),
			Severity:    string(eng.Severity(r)),
			Enabled:     eng.Enabled(r.ID),
			Description: r.Description,
		})
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tKIND\tSEVERITY\tENABLED\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.ID, info.Kind, info.Severity, yesNo(info.Enabled), info.Description)
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
