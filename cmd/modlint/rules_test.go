package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunRulesText(t *testing.T) {
	rulesFormat = "text"
	cfgFile = ""

	cmd, out := newTestCommand()
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !strings.HasPrefix(lines[0], "RULE") {
		t.Errorf("missing header: %q", lines[0])
	}
	// Registration order: source rules come first.
	if !strings.HasPrefix(lines[1], "missing-package-import") {
		t.Errorf("first rule = %q, want missing-package-import", lines[1])
	}
	if !strings.Contains(out.String(), "duplicate-id") {
		t.Error("data rules missing from listing")
	}
}

func TestRunRulesJSONReflectsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "modlint.yaml")
	config := `rules:
  disabled: [unused-import]
  severity:
    missing-license: error
telemetry:
  logging:
    level: error
`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile = path
	defer func() { cfgFile = "" }()
	rulesFormat = "json"
	defer func() { rulesFormat = "text" }()

	cmd, out := newTestCommand()
	if err := runRules(cmd, nil); err != nil {
		t.Fatalf("runRules() error = %v", err)
	}

	var infos []ruleInfo
	if err := json.Unmarshal(out.Bytes(), &infos); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	byID := make(map[string]ruleInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}

	if info := byID["unused-import"]; info.Enabled {
		t.Error("unused-import should be disabled")
	}
	if info := byID["missing-license"]; info.Severity != "error" || info.Kind != "manifest" {
		t.Errorf("missing-license = %+v, want manifest rule with error severity", info)
	}
	if info := byID["duplicate-id"]; !info.Enabled || info.Kind != "data" {
		t.Errorf("duplicate-id = %+v", info)
	}
}

func TestRunRulesRejectsCSV(t *testing.T) {
	rulesFormat = "csv"
	defer func() { rulesFormat = "text" }()

	cmd, _ := newTestCommand()
	if err := runRules(cmd, nil); err == nil {
		t.Error("runRules() with csv format should return error")
	}
}
