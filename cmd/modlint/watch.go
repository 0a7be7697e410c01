package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/cli"
	"mercator-hq/modlint/pkg/lint/runner"
	"mercator-hq/modlint/pkg/lint/session"
	"mercator-hq/modlint/pkg/server"
	"mercator-hq/modlint/pkg/telemetry/health"
	"mercator-hq/modlint/pkg/watcher"
)

var (
	watchMetricsAddr string
	watchDebounce    time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [PATH]",
	Short: "Lint continuously as files change",
	Long: `Watch a module tree and re-lint each document shortly after it changes.

Bursts of changes to one file are coalesced: a pass runs once the file has
been quiet for the debounce delay, and its findings replace the previous
ones for that file. Findings are printed as each pass completes.

With --metrics-addr, Prometheus metrics and the /healthz, /readyz and
/version endpoints are served on that address.

Examples:
  modlint watch addons/
  modlint watch --debounce 1s --metrics-addr 127.0.0.1:9464`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "serve metrics and health endpoints on this address")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a changed file is linted (default from config, 500ms)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if watchDebounce > 0 {
		a.cfg.Lint.Debounce = watchDebounce
	}
	if watchMetricsAddr != "" {
		a.cfg.Telemetry.Metrics.Address = watchMetricsAddr
		a.cfg.Telemetry.Metrics.Enabled = true
	}

	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	eng, err := a.newEngine()
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	sess := session.New(eng, a.cfg.Lint.Debounce, a.logger, a.metrics, a.tracer)
	defer sess.Stop()
	sess.OnResult(printEntry(cmd.OutOrStdout(), workingDir()))

	r := runner.New(eng, runner.Config{Workers: a.cfg.Lint.Workers, Exclude: a.cfg.Lint.Exclude}, a.logger)
	fw, err := watcher.New(watcher.Config{
		Path:    path,
		Exclude: a.cfg.Lint.Exclude,
		Rescan:  a.cfg.Watch.Rescan,
	}, sess, r, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer fw.Stop()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if a.cfg.Telemetry.Metrics.Enabled && a.cfg.Telemetry.Metrics.Address != "" {
		checker := health.New(0)
		checker.RegisterCheck("watcher", func(context.Context) error {
			if !fw.Running() {
				return errors.New("file watcher is not running")
			}
			return nil
		})

		srv := server.NewServer(&a.cfg.Telemetry.Metrics, a.metrics, checker, Version, a.logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				a.logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", displayPath(workingDir(), path))
	if err := fw.Watch(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// printEntry returns a listener writing each completed pass to w.
func printEntry(w io.Writer, root string) session.Listener {
	var mu sync.Mutex
	return func(e session.Entry) {
		mu.Lock()
		defer mu.Unlock()

		path := displayPath(root, e.Path)
		if e.Err != nil {
			fmt.Fprintf(w, "%s: not linted: %v\n", path, e.Err)
			return
		}
		if len(e.Findings) == 0 {
			fmt.Fprintf(w, "%s: ok\n", path)
			return
		}
		for _, f := range e.Findings {
			f.Path = path
			fmt.Fprintln(w, f.String())
		}
	}
}
