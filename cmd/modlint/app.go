package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/modlint/pkg/config"
	"mercator-hq/modlint/pkg/lint/engine"
	"mercator-hq/modlint/pkg/lint/rules"
	"mercator-hq/modlint/pkg/telemetry/logging"
	"mercator-hq/modlint/pkg/telemetry/metrics"
	"mercator-hq/modlint/pkg/telemetry/tracing"
)

// app holds the components shared by the subcommands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// setup loads configuration and builds the telemetry stack.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Telemetry.Logging.Format = logFormat
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	if tracer.Enabled() {
		logger.Debug("tracing enabled", "endpoint", cfg.Telemetry.Tracing.Endpoint, "sampler", cfg.Telemetry.Tracing.Sampler)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry()),
		tracer:  tracer,
	}, nil
}

// newEngine builds the lint engine from the rule configuration.
func (a *app) newEngine() (*engine.Engine, error) {
	ec, err := engine.FromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	return engine.New(rules.Default(), ec, a.logger, a.metrics, a.tracer)
}

// close flushes pending spans.
func (a *app) close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Warn("failed to flush traces", "error", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// workingDir returns the absolute working directory. Reported paths and
// baseline fingerprints are relative to it.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// displayPath shortens path to be relative to root when it lies below it.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
