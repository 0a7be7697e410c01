package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file looked up in the working
// directory when no path is given.
const DefaultFileName = ".modlint.yaml"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named MODLINT_SECTION_FIELD (for example
// MODLINT_LINT_WORKERS). Environment variables take precedence over the file.
//
// An empty path loads DefaultFileName when it exists and defaults otherwise.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	switch {
	case path != "":
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		loaded, err := LoadConfig(DefaultFileName)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist):
			cfg = Default()
		default:
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Rules overrides
	if val := os.Getenv("MODLINT_RULES_DISABLED"); val != "" {
		cfg.Rules.Disabled = splitList(val)
	}
	if val := os.Getenv("MODLINT_RULES_AUTHOR_PLACEHOLDER"); val != "" {
		cfg.Rules.AuthorPlaceholder = val
	}
	if val := os.Getenv("MODLINT_RULES_LICENSES"); val != "" {
		cfg.Rules.Licenses = splitList(val)
	}
	if val := os.Getenv("MODLINT_RULES_REQUIRED_MANIFEST_KEYS"); val != "" {
		cfg.Rules.RequiredManifestKeys = splitList(val)
	}

	// Lint overrides
	if val := os.Getenv("MODLINT_LINT_WORKERS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Lint.Workers = i
		}
	}
	if val := os.Getenv("MODLINT_LINT_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Lint.MaxFileSize = i
		}
	}
	if val := os.Getenv("MODLINT_LINT_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Lint.Debounce = d
		}
	}

	// Watch overrides
	if val := os.Getenv("MODLINT_WATCH_RESCAN"); val != "" {
		cfg.Watch.Rescan = val
	}

	// Baseline overrides
	if val := os.Getenv("MODLINT_BASELINE_PATH"); val != "" {
		cfg.Baseline.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("MODLINT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MODLINT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MODLINT_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("MODLINT_TELEMETRY_METRICS_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.Address = val
	}
	if val := os.Getenv("MODLINT_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("MODLINT_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("MODLINT_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// splitList parses a comma-separated environment value.
func splitList(val string) []string {
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
