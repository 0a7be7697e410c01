package baseline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mercator-hq/modlint/pkg/config"
	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/telemetry/logging"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(&config.BaselineConfig{Path: filepath.Join(t.TempDir(), "nested", "baseline.db")}, logging.Discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func at(rule, path, message string, line int) finding.Finding {
	return finding.Finding{
		Rule:     rule,
		Severity: finding.SeverityWarning,
		Message:  message,
		Path:     path,
		Span: ast.Span{
			Start: ast.Position{Line: line, Column: 1},
			End:   ast.Position{Line: line, Column: 5},
		},
	}
}

func TestFingerprint(t *testing.T) {
	root := "/src/addons"
	a := at("unused-import", "/src/addons/m/models/sale.py", "'json' imported but unused", 3)
	moved := a
	moved.Span.Start.Line = 40

	if Fingerprint(a, root) != Fingerprint(moved, root) {
		t.Error("fingerprint depends on line")
	}

	other := a
	other.Message = "'os' imported but unused"
	if Fingerprint(a, root) == Fingerprint(other, root) {
		t.Error("fingerprint ignores message")
	}

	relocated := a
	relocated.Path = "/elsewhere/addons/m/models/sale.py"
	if Fingerprint(a, root) != Fingerprint(relocated, "/elsewhere/addons") {
		t.Error("fingerprint depends on the root location")
	}
}

func TestStore_SaveLoadFilter(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	root := "/src/addons"

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNoBaseline) {
		t.Fatalf("Latest() on empty store error = %v, want ErrNoBaseline", err)
	}

	accepted := []finding.Finding{
		at("unused-import", "/src/addons/m/models/sale.py", "'json' imported but unused", 3),
		at("duplicate-id", "/src/addons/m/views/v.xml", "Duplicate id 'a' (declared 2 times)", 3),
		at("duplicate-id", "/src/addons/m/views/v.xml", "Duplicate id 'a' (declared 2 times)", 5),
	}
	snap, err := s.Save(ctx, root, "abc123", accepted)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if snap.ID == "" || snap.FindingCount != 3 {
		t.Errorf("Save() snapshot = %+v", snap)
	}

	latest, err := s.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != snap.ID || latest.Commit != "abc123" {
		t.Errorf("Latest() = %+v, want %+v", latest, snap)
	}

	entries, err := s.Entries(ctx, snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].Path != "m/models/sale.py" {
		t.Errorf("Entries() = %+v", entries)
	}

	set, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	current := []finding.Finding{
		at("unused-import", "/src/addons/m/models/sale.py", "'json' imported but unused", 9),
		at("duplicate-id", "/src/addons/m/views/v.xml", "Duplicate id 'a' (declared 2 times)", 3),
		at("duplicate-id", "/src/addons/m/views/v.xml", "Duplicate id 'a' (declared 2 times)", 5),
		at("duplicate-id", "/src/addons/m/views/v.xml", "Duplicate id 'a' (declared 2 times)", 8),
		at("missing-license", "/src/addons/m/__manifest__.py", "Missing manifest key 'license'", 1),
	}
	fresh := set.Filter(current, root)
	if len(fresh) != 2 {
		t.Fatalf("Filter() = %v, want 2 findings", fresh)
	}
	if fresh[0].Rule != "duplicate-id" || fresh[1].Rule != "missing-license" {
		t.Errorf("Filter() rules = %s, %s", fresh[0].Rule, fresh[1].Rule)
	}
}

func TestStore_List(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "/r", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(ctx, "/r", "", []finding.Finding{at("x", "/r/a.py", "m", 1)})
	if err != nil {
		t.Fatal(err)
	}

	snaps, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(snaps) != 2 || snaps[0].ID != second.ID || snaps[1].ID != first.ID {
		t.Errorf("List() = %+v, want newest first", snaps)
	}
	if snaps[1].Commit != "" {
		t.Errorf("Commit = %q, want empty", snaps[1].Commit)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(&config.BaselineConfig{}, nil); err == nil {
		t.Error("Open() with empty path error = nil")
	}
}
