package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/cli"
)

var (
	// Global flags
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "modlint",
	Short: "modlint - convention checker for business-application modules",
	Long: `modlint statically checks module source trees (manifest, Python models,
XML data documents and the access table) and reports convention violations
with their exact position.

Configuration is read from .modlint.yaml in the working directory, or the
file given with --config. MODLINT_* environment variables override it.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return cli.ExitOK
	}

	var findings *cli.FindingsError
	if errors.As(err, &findings) {
		return cli.ExitFindings
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return cli.ExitFailure
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default .modlint.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override log format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
}
