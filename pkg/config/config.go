package config

import "time"

// Config is the root configuration structure for modlint.
type Config struct {
	// Rules tunes which rules run and the policies they enforce.
	Rules RulesConfig `yaml:"rules"`

	// Lint contains settings shared by batch and watch passes.
	Lint LintConfig `yaml:"lint"`

	// Watch contains watch mode settings.
	Watch WatchConfig `yaml:"watch"`

	// Baseline contains the accepted-findings store settings.
	Baseline BaselineConfig `yaml:"baseline"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig selects rules and their policies.
type RulesConfig struct {
	// Disabled lists rule IDs that never run.
	Disabled []string `yaml:"disabled"`

	// Severity overrides the default severity of a rule.
	// Keys are rule IDs, values "error", "warning" or "info".
	Severity map[string]string `yaml:"severity"`

	// AuthorPlaceholder is the template author text that must be replaced.
	// Default: "My Company"
	AuthorPlaceholder string `yaml:"author_placeholder"`

	// Licenses is the license allow-list.
	// Default: LGPL-3, AGPL-3, OEEL-1, OPL-1, "Other OSI approved licence"
	Licenses []string `yaml:"licenses"`

	// RequiredManifestKeys are the keys every manifest must declare.
	// Default: [name, version]
	RequiredManifestKeys []string `yaml:"required_manifest_keys"`
}

// LintConfig contains settings shared by every lint pass.
type LintConfig struct {
	// Workers is the size of the batch worker pool.
	// Default: number of CPUs
	Workers int `yaml:"workers"`

	// MaxFileSize is the largest file, in bytes, that is parsed.
	// Default: 5242880 (5MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// Debounce is the quiet period after a change before a document is linted.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`

	// Exclude lists directory names skipped while discovering files.
	// Default: [.git, node_modules, __pycache__]
	Exclude []string `yaml:"exclude"`
}

// WatchConfig contains watch mode settings.
type WatchConfig struct {
	// Rescan is a cron expression for periodic full rescans, in addition to
	// change notifications. Empty disables rescans.
	// Example: "*/10 * * * *"
	Rescan string `yaml:"rescan"`
}

// BaselineConfig contains the accepted-findings store settings.
type BaselineConfig struct {
	// Path is the SQLite database holding baselines.
	// Default: ".modlint/baseline.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "warn"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Address is where watch mode serves metrics, e.g. "127.0.0.1:9464".
	// Empty disables the endpoint.
	Address string `yaml:"address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "modlint"
	Namespace string `yaml:"namespace"`

	// PassDurationBuckets defines histogram buckets for pass duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1]
	PassDurationBuckets []float64 `yaml:"pass_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP/gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "modlint"
	ServiceName string `yaml:"service_name"`
}
