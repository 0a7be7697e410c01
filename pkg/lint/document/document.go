package document

import (
	"path/filepath"
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
)

// Document is one parsed source file. It is produced once per lint pass and
// discarded when the pass completes.
type Document struct {
	Path   string
	Kind   Kind
	Source *ast.Source
	Root   *ast.Node

	// SyntaxErrors is true when the Python parser had to recover from
	// malformed input. The tree is still usable.
	SyntaxErrors bool
}

// Dir returns the directory containing the document.
func (d *Document) Dir() string {
	return filepath.Dir(d.Path)
}

// BaseName returns the file name without its extension.
func (d *Document) BaseName() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsInitializer reports whether the document is a package initializer.
func (d *Document) IsInitializer() bool {
	return filepath.Base(d.Path) == InitFile
}

// ManifestDict returns the top-level dictionary literal of a manifest
// document.
func ManifestDict(doc *Document) (*ast.Node, bool) {
	if doc == nil || doc.Root == nil {
		return nil, false
	}
	for _, stmt := range doc.Root.Children {
		if stmt.Kind != "expression_statement" {
			continue
		}
		if dict, ok := stmt.ChildByKind("dictionary"); ok {
			return dict, true
		}
	}
	return nil, false
}
