package rules

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/resolve"
)

const testManifest = `{
    'name': 'Sale Extras',
    'version': '17.0.1.0.0',
    'license': 'LGPL-3',
    'author': 'Acme',
    'depends': ['sale'],
    'data': ['views/sale_views.xml', 'security/ir.model.access.csv'],
    'demo': ['demo/demo.xml'],
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// run parses path and executes one rule on it.
func run(t *testing.T, id, path string) []finding.Finding {
	t.Helper()

	rule, ok := Default().Get(id)
	if !ok {
		t.Fatalf("rule %q not registered", id)
	}

	parser := document.NewParser()
	ctx := context.Background()
	doc, err := parser.ParseFile(ctx, path)
	if err != nil {
		t.Fatalf("ParseFile(%s) error = %v", path, err)
	}
	if doc.Kind != rule.Kind {
		t.Fatalf("document kind = %v, rule %s wants %v", doc.Kind, id, rule.Kind)
	}

	pass := NewPass(ctx, rule, doc, resolve.NewResolver(parser), DefaultOptions(), "", nil)
	if err := rule.Check(pass); err != nil {
		t.Fatalf("%s check error = %v", id, err)
	}
	return pass.Findings()
}

func TestDefault_Registry(t *testing.T) {
	r := Default()

	counts := map[document.Kind]int{}
	for _, rule := range r.All() {
		counts[rule.Kind]++
		if rule.Description == "" {
			t.Errorf("rule %s has no description", rule.ID)
		}
	}

	want := map[document.Kind]int{
		document.KindSourceUnit:   6,
		document.KindManifest:     7,
		document.KindDataDocument: 5,
	}
	for kind, n := range want {
		if counts[kind] != n {
			t.Errorf("rules for %v = %d, want %d", kind, counts[kind], n)
		}
	}

	manifest := r.ForKind(document.KindManifest)
	if manifest[0].ID != MissingManifestKey || manifest[len(manifest)-1].ID != MissingDeclaredFile {
		t.Errorf("manifest rule order = %s..%s", manifest[0].ID, manifest[len(manifest)-1].ID)
	}

	if err := r.Register(&Rule{ID: DuplicateID, Check: checkDuplicateID}); err == nil {
		t.Error("Register(duplicate) error = nil, want error")
	}
	if err := r.Register(&Rule{ID: "no-check"}); err == nil {
		t.Error("Register(no check) error = nil, want error")
	}
}

func TestMissingPackageImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "__init__.py"), "from . import a, b\n")
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(dir, name+".py"), "X = 1\n")
	}

	for _, name := range []string{"a", "b", "c"} {
		got := run(t, MissingPackageImport, filepath.Join(dir, name+".py"))
		wantFire := name == "c"
		if (len(got) == 1) != wantFire || len(got) > 1 {
			t.Errorf("%s.py: findings = %v, want fire=%v", name, got, wantFire)
			continue
		}
		if wantFire {
			if !strings.Contains(got[0].Message, "'c'") {
				t.Errorf("message = %q, want it to name 'c'", got[0].Message)
			}
			if got[0].Severity != finding.SeverityWarning {
				t.Errorf("severity = %s, want warning", got[0].Severity)
			}
		}
	}
}

func TestMissingPackageImport_NoInitializer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.py"), "X = 1\n")

	if got := run(t, MissingPackageImport, filepath.Join(dir, "a.py")); len(got) != 0 {
		t.Errorf("findings = %v, want none", got)
	}
}

func TestUnknownPackageImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "__init__.py"), "from . import models, wizard, ghost\n")
	writeFile(t, filepath.Join(dir, "models.py"), "")
	writeFile(t, filepath.Join(dir, "wizard", "__init__.py"), "")

	got := run(t, UnknownPackageImport, filepath.Join(dir, "__init__.py"))
	if len(got) != 1 || !strings.Contains(got[0].Message, "'ghost'") {
		t.Errorf("findings = %v, want one about 'ghost'", got)
	}
}

func TestMissingModelIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models.py")
	writeFile(t, path, `from odoo import models, fields


class Good(models.Model):
    _name = "sale.extra"


class Extends(models.TransientModel):
    _inherit = "sale.order"


class Broken(models.Model):
    note = fields.Char()


class Helper(object):
    pass
`)

	got := run(t, MissingModelIdentity, path)
	if len(got) != 1 {
		t.Fatalf("findings = %v, want 1", got)
	}
	if !strings.Contains(got[0].Message, "'Broken'") {
		t.Errorf("message = %q", got[0].Message)
	}
	if got[0].Severity != finding.SeverityError {
		t.Errorf("severity = %s, want error", got[0].Severity)
	}
	if got[0].Span.Start.Line != 12 || got[0].Span.Start.Column != 7 {
		t.Errorf("span = %s, want start 12:7", got[0].Span)
	}
}

func TestInvalidModelName(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"sale.order", 0},
		{"x_custom.line_2", 0},
		{"Sale.Order", 1},
		{"sale order", 1},
		{"sale..order", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "m.py")
			writeFile(t, path, "from odoo import models\n\n\nclass M(models.Model):\n    _name = \""+tt.name+"\"\n")
			if got := run(t, InvalidModelName, path); len(got) != tt.want {
				t.Errorf("findings = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestUnusedImport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.py")
	writeFile(t, path, `from __future__ import annotations
import os.path
import json as js
import re
from odoo import fields, models
from collections import *
from .helpers import exported

__all__ = ["exported"]


def load(name):
    return os.path.join(name, fields.Char(string=re))


class M(models.Model):
    _name = "m.m"
`)

	got := run(t, UnusedImport, path)
	var names []string
	for _, f := range got {
		names = append(names, f.Message)
	}
	want := []string{"'json' imported but unused"}
	if len(got) != len(want) {
		t.Fatalf("findings = %v, want %v", names, want)
	}
	for i := range want {
		if got[i].Message != want[i] {
			t.Errorf("finding[%d] = %q, want %q", i, got[i].Message, want[i])
		}
	}
	// anchored at the "json as js" clause on line 3
	if got[0].Span.Start.Line != 3 || got[0].Span.Start.Column != 8 {
		t.Errorf("span = %s, want start 3:8", got[0].Span)
	}
}

func TestUnusedImport_AttributeIsNotReference(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.py")
	writeFile(t, path, "import logging\nfrom odoo import fields\n\nlogger = logging.fields\n")

	got := run(t, UnusedImport, path)
	if len(got) != 1 || got[0].Message != "'fields' imported but unused" {
		t.Errorf("findings = %v, want only 'fields'", got)
	}
}

func TestUnusedImport_SkipsInitializer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "__init__.py")
	writeFile(t, path, "from . import models\n")

	if got := run(t, UnusedImport, path); len(got) != 0 {
		t.Errorf("findings = %v, want none", got)
	}
}

func TestMissingAccessRow(t *testing.T) {
	model := "from odoo import models\n\n\nclass AB(models.Model):\n    _name = \"a.b\"\n"

	t.Run("no matching row", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "__manifest__.py"), testManifest)
		writeFile(t, filepath.Join(dir, "security", "ir.model.access.csv"),
			"id,name,model_id:id,group_id:id,perm_read,perm_write,perm_create,perm_unlink\n"+
				"access_c_d,c.d,model_c_d,base.group_user,1,0,0,0\n")
		path := filepath.Join(dir, "models", "ab.py")
		writeFile(t, path, model)

		got := run(t, MissingAccessRow, path)
		if len(got) != 1 {
			t.Fatalf("findings = %v, want 1", got)
		}
		if got[0].Severity != finding.SeverityWarning {
			t.Errorf("severity = %s, want warning", got[0].Severity)
		}
		if !strings.Contains(got[0].Message, "model_a_b") {
			t.Errorf("message = %q, want it to name model_a_b", got[0].Message)
		}
	})

	t.Run("matching row", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "__manifest__.py"), testManifest)
		writeFile(t, filepath.Join(dir, "security", "ir.model.access.csv"),
			"id,name,model_id:id,group_id:id,perm_read,perm_write,perm_create,perm_unlink\n"+
				"access_a_b,a.b,model_a_b,base.group_user,1,1,1,1\n")
		path := filepath.Join(dir, "models", "ab.py")
		writeFile(t, path, model)

		if got := run(t, MissingAccessRow, path); len(got) != 0 {
			t.Errorf("findings = %v, want none", got)
		}
	})

	t.Run("no access table", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "__manifest__.py"), testManifest)
		path := filepath.Join(dir, "models", "ab.py")
		writeFile(t, path, model)

		got := run(t, MissingAccessRow, path)
		if len(got) != 1 {
			t.Fatalf("findings = %v, want 1", got)
		}
		if got[0].Severity != finding.SeverityWarning {
			t.Errorf("severity = %s, want warning", got[0].Severity)
		}
		if !strings.Contains(got[0].Message, "not found") || strings.Contains(got[0].Message, "expected a row") {
			t.Errorf("message = %q, want the missing-table message", got[0].Message)
		}
	})

	t.Run("no manifest", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ab.py")
		writeFile(t, path, model)

		if got := run(t, MissingAccessRow, path); len(got) != 0 {
			t.Errorf("findings = %v, want none", got)
		}
	})
}

func TestLicenseRules(t *testing.T) {
	tests := []struct {
		name        string
		manifest    string
		wantMissing int
		wantInvalid int
		wantQuoted  string
	}{
		{
			name:        "absent",
			manifest:    "{'name': 'X', 'version': '1.0'}\n",
			wantMissing: 1,
		},
		{
			name:        "not allowed",
			manifest:    "{'name': 'X', 'version': '1.0', 'license': 'MIT'}\n",
			wantInvalid: 1,
			wantQuoted:  "'MIT'",
		},
		{
			name:     "allowed",
			manifest: "{'name': 'X', 'version': '1.0', 'license': 'LGPL-3'}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "__manifest__.py")
			writeFile(t, path, tt.manifest)

			missing := run(t, MissingLicense, path)
			invalid := run(t, InvalidLicense, path)
			keys := run(t, MissingManifestKey, path)

			if len(missing) != tt.wantMissing {
				t.Errorf("missing-license = %v, want %d", missing, tt.wantMissing)
			}
			if len(invalid) != tt.wantInvalid {
				t.Errorf("invalid-license = %v, want %d", invalid, tt.wantInvalid)
			}
			if len(keys) != 0 {
				t.Errorf("missing-manifest-key = %v, want none", keys)
			}
			for _, f := range append(missing, invalid...) {
				if f.Severity != finding.SeverityWarning {
					t.Errorf("severity = %s, want warning", f.Severity)
				}
			}
			if tt.wantQuoted != "" && !strings.Contains(invalid[0].Message, tt.wantQuoted) {
				t.Errorf("message = %q, want it to contain %s", invalid[0].Message, tt.wantQuoted)
			}
		})
	}
}

func TestMissingManifestKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "__manifest__.py")
	writeFile(t, path, "# comment\n{\n    'license': 'LGPL-3',\n}\n")

	got := run(t, MissingManifestKey, path)
	if len(got) != 2 {
		t.Fatalf("findings = %v, want 2", got)
	}
	for i, key := range []string{"name", "version"} {
		if !strings.Contains(got[i].Message, "'"+key+"'") {
			t.Errorf("finding[%d] = %q, want key %s", i, got[i].Message, key)
		}
		if got[i].Span.Start.Line != 2 || got[i].Span.End.Line != 4 {
			t.Errorf("finding[%d] span = %s, want the dictionary 2:1-4:2", i, got[i].Span)
		}
	}
}

func TestManifestValueRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		manifest string
		want     int
	}{
		{"version ok", InvalidManifestVersion, "{'version': '17.0.1.0.0'}", 0},
		{"version text", InvalidManifestVersion, "{'version': 'beta'}", 1},
		{"version number", InvalidManifestVersion, "{'version': 1.0}", 1},
		{"author placeholder", DisallowedAuthor, "{'author': 'My Company, Acme'}", 1},
		{"author real", DisallowedAuthor, "{'author': 'Acme'}", 0},
		{"author absent", DisallowedAuthor, "{'name': 'X'}", 0},
		{"depends absent", MissingDepends, "{'name': 'X'}", 1},
		{"depends present", MissingDepends, "{'depends': []}", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "__manifest__.py")
			writeFile(t, path, tt.manifest+"\n")
			if got := run(t, tt.rule, path); len(got) != tt.want {
				t.Errorf("%s findings = %v, want %d", tt.rule, got, tt.want)
			}
		})
	}
}

func TestMissingDeclaredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "__manifest__.py")
	writeFile(t, path, testManifest)
	writeFile(t, filepath.Join(dir, "views", "sale_views.xml"), "<odoo/>")
	writeFile(t, filepath.Join(dir, "security", "ir.model.access.csv"), "")

	got := run(t, MissingDeclaredFile, path)
	if len(got) != 1 || !strings.Contains(got[0].Message, "'demo/demo.xml'") {
		t.Errorf("findings = %v, want one for demo/demo.xml", got)
	}
}

func TestInvalidRootElement(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"odoo", `<?xml version="1.0"?><odoo/>`, 0},
		{"openerp", `<?xml version="1.0"?><openerp><data/></openerp>`, 0},
		{"other", `<?xml version="1.0"?><templates/>`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "view.xml")
			writeFile(t, path, tt.doc)
			got := run(t, InvalidRootElement, path)
			if len(got) != tt.want {
				t.Errorf("findings = %v, want %d", got, tt.want)
			}
			for _, f := range got {
				if f.Severity != finding.SeverityError {
					t.Errorf("severity = %s, want error", f.Severity)
				}
			}
		})
	}
}

func TestXMLProlog(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    int
		message string
	}{
		{"utf-8", `<?xml version="1.0" encoding="utf-8"?><odoo/>`, 0, ""},
		{"UTF8", `<?xml version="1.0" encoding="UTF8"?><odoo/>`, 0, ""},
		{"no encoding", `<?xml version="1.0"?><odoo/>`, 0, ""},
		{"latin", `<?xml version="1.0" encoding="ISO-8859-1"?><odoo/>`, 1, "ISO-8859-1"},
		{"absent", `<odoo/>`, 1, "Missing XML declaration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.xml")
			writeFile(t, path, tt.doc)
			got := run(t, XMLProlog, path)
			if len(got) != tt.want {
				t.Fatalf("findings = %v, want %d", got, tt.want)
			}
			if tt.want > 0 && !strings.Contains(got[0].Message, tt.message) {
				t.Errorf("message = %q, want %q", got[0].Message, tt.message)
			}
		})
	}
}

func TestDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xml")
	writeFile(t, path, `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="x" model="res.partner"/>
    <record id="y" model="res.partner"/>
    <menuitem id="x"/>
</odoo>
`)

	got := run(t, DuplicateID, path)
	if len(got) != 2 {
		t.Fatalf("findings = %v, want 2", got)
	}
	for _, f := range got {
		if f.Severity != finding.SeverityError {
			t.Errorf("severity = %s, want error", f.Severity)
		}
		if f.Message != got[0].Message || !strings.Contains(f.Message, "'x'") {
			t.Errorf("message = %q, want identical messages naming 'x'", f.Message)
		}
	}
	if got[0].Span.Start.Line != 3 || got[1].Span.Start.Line != 5 {
		t.Errorf("lines = %d, %d, want 3, 5", got[0].Span.Start.Line, got[1].Span.Start.Line)
	}
}

func TestMissingRequiredAttribute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xml")
	writeFile(t, path, `<?xml version="1.0" encoding="utf-8"?>
<odoo>
    <record id="r1">
        <field>value</field>
        <field name="ok">value</field>
    </record>
    <menuitem name="Top"/>
</odoo>
`)

	got := run(t, MissingRequiredAttribute, path)
	want := []string{
		"<record> is missing the 'model' attribute",
		"<field> is missing the 'name' attribute",
		"<menuitem> is missing the 'id' attribute",
	}
	if len(got) != len(want) {
		t.Fatalf("findings = %v, want %d", got, len(want))
	}
	for i := range want {
		if got[i].Message != want[i] {
			t.Errorf("finding[%d] = %q, want %q", i, got[i].Message, want[i])
		}
	}
}

func TestUndeclaredDataFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "__manifest__.py"), testManifest)
	doc := `<?xml version="1.0" encoding="utf-8"?><odoo/>`
	writeFile(t, filepath.Join(dir, "views", "sale_views.xml"), doc)
	writeFile(t, filepath.Join(dir, "views", "orphan.xml"), doc)
	writeFile(t, filepath.Join(dir, "demo", "demo.xml"), doc)
	writeFile(t, filepath.Join(dir, "static", "src", "xml", "widget.xml"), doc)

	tests := []struct {
		rel  string
		want int
	}{
		{"views/sale_views.xml", 0},
		{"demo/demo.xml", 0},
		{"views/orphan.xml", 1},
		{"static/src/xml/widget.xml", 0},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got := run(t, UndeclaredDataFile, filepath.Join(dir, filepath.FromSlash(tt.rel)))
			if len(got) != tt.want {
				t.Fatalf("findings = %v, want %d", got, tt.want)
			}
			if tt.want > 0 && !strings.Contains(got[0].Message, "'"+tt.rel+"'") {
				t.Errorf("message = %q", got[0].Message)
			}
		})
	}

	t.Run("no manifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "loose.xml")
		writeFile(t, path, doc)
		if got := run(t, UndeclaredDataFile, path); len(got) != 0 {
			t.Errorf("findings = %v, want none", got)
		}
	})
}

func TestNewPass_SeverityOverride(t *testing.T) {
	rule, _ := Default().Get(MissingDepends)
	doc := &document.Document{Path: "__manifest__.py", Kind: document.KindManifest}

	pass := NewPass(context.Background(), rule, doc, nil, nil, finding.SeverityError, nil)
	pass.Report(ast.Span{}, "x")

	if got := pass.Findings()[0].Severity; got != finding.SeverityError {
		t.Errorf("severity = %s, want error", got)
	}
}
