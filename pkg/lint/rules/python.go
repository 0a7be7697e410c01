package rules

import (
	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/manifest"
)

// modelBases are the base-class spellings that mark a class as a model.
var modelBases = map[string]bool{
	"models.Model":          true,
	"models.TransientModel": true,
	"models.AbstractModel":  true,
	"Model":                 true,
	"TransientModel":        true,
	"AbstractModel":         true,
}

// importKinds are the statement kinds that bind names.
var importKinds = []string{"import_statement", "import_from_statement", "future_import_statement"}

// classBases returns the source text of each positional base class.
func classBases(class *ast.Node) []string {
	args, ok := class.ChildByField("superclasses")
	if !ok {
		return nil
	}
	var out []string
	for _, arg := range args.Children {
		if arg.Kind == "keyword_argument" || arg.Kind == "comment" {
			continue
		}
		out = append(out, arg.Text())
	}
	return out
}

// isModelClass reports whether class derives from a recognised model base.
func isModelClass(class *ast.Node) bool {
	for _, base := range classBases(class) {
		if modelBases[base] {
			return true
		}
	}
	return false
}

// classAttribute returns the first plain assignment to name directly in the
// class body, with its right-hand side.
func classAttribute(class *ast.Node, name string) (left, right *ast.Node, ok bool) {
	body, found := class.ChildByField("body")
	if !found {
		return nil, nil, false
	}
	for _, stmt := range body.Children {
		if stmt.Kind != "expression_statement" {
			continue
		}
		assign, found := stmt.ChildByKind("assignment")
		if !found {
			continue
		}
		l, found := assign.ChildByField("left")
		if !found || l.Kind != "identifier" || l.Text() != name {
			continue
		}
		r, found := assign.ChildByField("right")
		if !found {
			continue
		}
		return l, r, true
	}
	return nil, nil, false
}

// modelName returns the literal _name of a class.
func modelName(class *ast.Node) (string, *ast.Node, bool) {
	_, right, ok := classAttribute(class, "_name")
	if !ok {
		return "", nil, false
	}
	name, ok := manifest.StringLiteral(right)
	if !ok {
		return "", nil, false
	}
	return name, right, true
}

// importBinding is one name bound by an import clause.
type importBinding struct {
	Name   string    // name bound in the module namespace
	Clause *ast.Node // dotted_name or aliased_import node
}

// importBindings returns every name bound by an import in the module, in
// source order. Future and wildcard imports bind nothing.
func importBindings(root *ast.Node) []importBinding {
	var out []importBinding
	for _, stmt := range ast.Collect(root, "import_statement", "import_from_statement") {
		for _, clause := range stmt.ChildrenByField("name") {
			name, ok := boundName(stmt.Kind, clause)
			if !ok {
				continue
			}
			out = append(out, importBinding{Name: name, Clause: clause})
		}
	}
	return out
}

// boundName returns the namespace name a clause binds. "import a.b" binds
// "a"; "from x import a" binds "a"; any "as" alias wins.
func boundName(stmtKind string, clause *ast.Node) (string, bool) {
	switch clause.Kind {
	case "aliased_import":
		alias, ok := clause.ChildByField("alias")
		if !ok {
			return "", false
		}
		return alias.Text(), true
	case "dotted_name":
		if stmtKind == "import_statement" {
			if first, ok := clause.ChildByKind("identifier"); ok {
				return first.Text(), true
			}
		}
		return clause.Text(), true
	}
	return "", false
}

// importedName returns the module or symbol name a clause imports, ignoring
// any alias.
func importedName(clause *ast.Node) string {
	if clause.Kind == "aliased_import" {
		if name, ok := clause.ChildByField("name"); ok {
			return name.Text()
		}
	}
	return clause.Text()
}

// relativePackageImports returns the clauses of every "from . import ..."
// statement in the module.
func relativePackageImports(root *ast.Node) []*ast.Node {
	var out []*ast.Node
	for _, stmt := range ast.Collect(root, "import_from_statement") {
		module, ok := stmt.ChildByField("module_name")
		if !ok || module.Kind != "relative_import" || module.Text() != "." {
			continue
		}
		out = append(out, stmt.ChildrenByField("name")...)
	}
	return out
}

// referencedNames returns the identifiers used outside import statements.
// Attribute names after a dot and keyword-argument names are not references.
// Strings listed in a module-level __all__ count as references.
func referencedNames(root *ast.Node) map[string]bool {
	refs := make(map[string]bool)
	for _, id := range ast.Collect(root, "identifier") {
		if id.Inside(importKinds...) {
			continue
		}
		if id.Parent != nil {
			if id.Parent.Kind == "attribute" && id.Field == "attribute" {
				continue
			}
			if id.Parent.Kind == "keyword_argument" && id.Field == "name" {
				continue
			}
		}
		refs[id.Text()] = true
	}

	for _, name := range exportedNames(root) {
		refs[name] = true
	}
	return refs
}

// exportedNames returns the string entries of a module-level __all__.
func exportedNames(root *ast.Node) []string {
	var out []string
	for _, stmt := range root.Children {
		if stmt.Kind != "expression_statement" {
			continue
		}
		assign, ok := stmt.ChildByKind("assignment")
		if !ok {
			continue
		}
		left, ok := assign.ChildByField("left")
		if !ok || left.Text() != "__all__" {
			continue
		}
		right, ok := assign.ChildByField("right")
		if !ok {
			continue
		}
		for _, el := range right.Children {
			if s, ok := manifest.StringLiteral(el); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
