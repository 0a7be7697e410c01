package engine

import (
	"fmt"

	"mercator-hq/modlint/pkg/config"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/rules"
)

// EngineConfig selects rules and tunes their policies.
type EngineConfig struct {
	// Disabled lists rule IDs that never run.
	Disabled []string

	// Severity overrides the default severity of individual rules.
	Severity map[string]finding.Severity

	// Rules carries the rule policy options.
	// Default: rules.DefaultOptions().
	Rules *rules.Options

	// MaxFileSize is the largest document parsed, in bytes.
	// Default: document.DefaultMaxFileSize.
	MaxFileSize int64
}

// DefaultEngineConfig returns a configuration running every rule with its
// default severity.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Severity: make(map[string]finding.Severity),
		Rules:    rules.DefaultOptions(),
	}
}

// FromConfig converts the application configuration.
func FromConfig(cfg *config.Config) (*EngineConfig, error) {
	ec := &EngineConfig{
		Disabled: append([]string(nil), cfg.Rules.Disabled...),
		Severity: make(map[string]finding.Severity, len(cfg.Rules.Severity)),
		Rules: &rules.Options{
			RequiredManifestKeys: append([]string(nil), cfg.Rules.RequiredManifestKeys...),
			Licenses:             append([]string(nil), cfg.Rules.Licenses...),
			AuthorPlaceholder:    cfg.Rules.AuthorPlaceholder,
			RootTags:             append([]string(nil), rules.DefaultRootTags...),
		},
		MaxFileSize: cfg.Lint.MaxFileSize,
	}
	for id, s := range cfg.Rules.Severity {
		sev, err := finding.ParseSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("rules.severity.%s: %w", id, err)
		}
		ec.Severity[id] = sev
	}
	return ec, nil
}

// Validate checks that every rule the configuration names is registered.
func (c *EngineConfig) Validate(registry *rules.Registry) error {
	for _, id := range c.Disabled {
		if _, ok := registry.Get(id); !ok {
			return fmt.Errorf("disabled rule %q is not registered", id)
		}
	}
	for id := range c.Severity {
		if _, ok := registry.Get(id); !ok {
			return fmt.Errorf("severity override for unknown rule %q", id)
		}
	}
	return nil
}
