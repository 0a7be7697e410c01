// Package config loads modlint configuration.
//
// Configuration comes from a YAML file (".modlint.yaml" in the working
// directory unless a path is given), is completed with defaults and may be
// overridden by environment variables named MODLINT_SECTION_FIELD:
//
//   - MODLINT_LINT_WORKERS overrides lint.workers
//   - MODLINT_RULES_DISABLED overrides rules.disabled (comma-separated)
//   - MODLINT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Values are applied in this order, later overriding earlier:
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// The loaded *Config is passed explicitly to the components that need it.
//
// # Example Configuration
//
//	rules:
//	  disabled: [missing-depends]
//	  severity:
//	    unused-import: info
//	  licenses: [LGPL-3, AGPL-3]
//	lint:
//	  workers: 4
//	  debounce: 300ms
//	watch:
//	  rescan: "@every 10m"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
