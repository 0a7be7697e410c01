// modlint checks business-application modules for structural convention
// violations.
//
// A module is a directory holding a __manifest__.py descriptor, Python model
// files, XML data documents and a security/ir.model.access.csv access table.
// modlint parses each file, runs the rules registered for its kind and
// reports positioned findings.
//
// Usage:
//
//	# Lint the modules under the current directory
//	modlint lint
//
//	# Lint two modules, JSON output, warnings fail the run
//	modlint lint --format json --strict addons/sale_extras addons/stock_extras
//
//	# Only files changed in the git worktree
//	modlint lint --changed
//
//	# Keep linting as files change, serving metrics on :9464
//	modlint watch --metrics-addr 127.0.0.1:9464 addons/
//
//	# Accept the current findings, then report only new ones
//	modlint baseline save addons/
//	modlint lint --baseline addons/
package main

import "os"

func main() {
	os.Exit(Execute())
}
