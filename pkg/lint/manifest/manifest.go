package manifest

import (
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/document"
)

// Recognised manifest keys.
const (
	KeyName    = "name"
	KeyVersion = "version"
	KeyLicense = "license"
	KeyAuthor  = "author"
	KeyData    = "data"
	KeyDemo    = "demo"
	KeyDepends = "depends"
)

// Entry is one key of the manifest dictionary.
type Entry struct {
	Key     string
	KeySpan ast.Span
	Value   *ast.Node
}

// Text returns the literal string value of the entry, or the raw source
// text when the value is not a plain string literal.
func (e Entry) Text() string {
	if s, ok := StringLiteral(e.Value); ok {
		return s
	}
	return e.Value.Text()
}

// StringList returns the string literals of a list or tuple value. Non-string
// elements are skipped. The boolean is false when the value is not a sequence.
func (e Entry) StringList() ([]string, bool) {
	if e.Value == nil || (e.Value.Kind != "list" && e.Value.Kind != "tuple") {
		return nil, false
	}
	var out []string
	for _, el := range e.Value.Children {
		if s, ok := StringLiteral(el); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Table maps manifest keys to their entries. It is built from one manifest
// document and discarded with it.
type Table struct {
	Path    string
	Dict    *ast.Node
	entries map[string]Entry
}

// FromDocument builds the key table from a parsed manifest. Keys that are not
// string literals are ignored; a repeated key keeps its last value, as the
// Python evaluation of the literal would.
func FromDocument(doc *document.Document) (*Table, bool) {
	dict, ok := document.ManifestDict(doc)
	if !ok {
		return nil, false
	}

	t := &Table{
		Path:    doc.Path,
		Dict:    dict,
		entries: make(map[string]Entry),
	}

	for _, pair := range dict.Children {
		if pair.Kind != "pair" {
			continue
		}
		keyNode, ok := pair.ChildByField("key")
		if !ok {
			continue
		}
		key, ok := StringLiteral(keyNode)
		if !ok {
			continue
		}
		value, ok := pair.ChildByField("value")
		if !ok {
			continue
		}
		t.entries[key] = Entry{Key: key, KeySpan: keyNode.Span, Value: value}
	}

	return t, true
}

// Get returns the entry for key.
func (t *Table) Get(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Has reports whether key is declared.
func (t *Table) Has(key string) bool {
	_, ok := t.entries[key]
	return ok
}

// Files returns the entries of the string lists under the given keys,
// normalised to slash-separated paths without a leading "./".
func (t *Table) Files(keys ...string) []string {
	var out []string
	for _, key := range keys {
		e, ok := t.entries[key]
		if !ok {
			continue
		}
		items, _ := e.StringList()
		for _, item := range items {
			out = append(out, NormalizePath(item))
		}
	}
	return out
}

// NormalizePath converts a declared or discovered file path into the form
// used for comparisons.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
