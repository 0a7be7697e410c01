package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultAuthorPlaceholder = "My Company"

	// Lint defaults
	DefaultMaxFileSize = int64(5 * 1024 * 1024) // 5MB
	DefaultDebounce    = 500 * time.Millisecond

	// Baseline defaults
	DefaultBaselinePath        = ".modlint/baseline.db"
	DefaultBaselineBusyTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel           = "warn"
	DefaultLogFormat          = "text"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "modlint"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "modlint"
)

// Default list values. ApplyDefaults copies them, so callers may modify the
// configuration freely.
var (
	DefaultLicenses             = []string{"LGPL-3", "AGPL-3", "OEEL-1", "OPL-1", "Other OSI approved licence"}
	DefaultRequiredManifestKeys = []string{"name", "version"}
	DefaultExclude              = []string{".git", "node_modules", "__pycache__"}
	DefaultPassDurationBuckets  = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
)

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every unset field of cfg with its default value.
func ApplyDefaults(cfg *Config) {
	// Rules defaults
	if cfg.Rules.AuthorPlaceholder == "" {
		cfg.Rules.AuthorPlaceholder = DefaultAuthorPlaceholder
	}
	if len(cfg.Rules.Licenses) == 0 {
		cfg.Rules.Licenses = append([]string(nil), DefaultLicenses...)
	}
	if len(cfg.Rules.RequiredManifestKeys) == 0 {
		cfg.Rules.RequiredManifestKeys = append([]string(nil), DefaultRequiredManifestKeys...)
	}
	if cfg.Rules.Severity == nil {
		cfg.Rules.Severity = make(map[string]string)
	}

	// Lint defaults
	if cfg.Lint.Workers == 0 {
		cfg.Lint.Workers = runtime.NumCPU()
	}
	if cfg.Lint.MaxFileSize == 0 {
		cfg.Lint.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Lint.Debounce == 0 {
		cfg.Lint.Debounce = DefaultDebounce
	}
	if cfg.Lint.Exclude == nil {
		cfg.Lint.Exclude = append([]string(nil), DefaultExclude...)
	}

	// Baseline defaults
	if cfg.Baseline.Path == "" {
		cfg.Baseline.Path = DefaultBaselinePath
	}
	if cfg.Baseline.BusyTimeout == 0 {
		cfg.Baseline.BusyTimeout = DefaultBaselineBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.PassDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.PassDurationBuckets = append([]float64(nil), DefaultPassDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
}
