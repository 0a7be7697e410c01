package rules

import (
	"errors"
	"fmt"
	"regexp"

	"mercator-hq/modlint/pkg/lint/ast"
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/finding"
	"mercator-hq/modlint/pkg/lint/resolve"
)

// modelNamePattern accepts lower-case dotted identifiers such as sale.order.
var modelNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)*$`)

func sourceRules() []*Rule {
	return []*Rule{
		{
			ID:          MissingPackageImport,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityWarning,
			Description: "Python file is not imported by its package __init__.py",
			Check:       checkMissingPackageImport,
		},
		{
			ID:          UnknownPackageImport,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityWarning,
			Description: "__init__.py imports a module that does not exist in the package",
			Check:       checkUnknownPackageImport,
		},
		{
			ID:          MissingModelIdentity,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityError,
			Description: "Model class defines neither _name nor _inherit",
			Check:       checkMissingModelIdentity,
		},
		{
			ID:          InvalidModelName,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityWarning,
			Description: "Model _name is not a lower-case dotted identifier",
			Check:       checkInvalidModelName,
		},
		{
			ID:          UnusedImport,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityWarning,
			Description: "Imported name is never used",
			Check:       checkUnusedImport,
		},
		{
			ID:          MissingAccessRow,
			Kind:        document.KindSourceUnit,
			Severity:    finding.SeverityWarning,
			Description: "Model has no row in security/ir.model.access.csv",
			Check:       checkMissingAccessRow,
		},
	}
}

func checkMissingPackageImport(p *Pass) error {
	if p.Doc.IsInitializer() {
		return nil
	}

	initializer, err := p.Resolver.PackageInitializer(p.Context, p.Doc.Dir())
	if errors.Is(err, resolve.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	name := p.Doc.BaseName()
	for _, clause := range relativePackageImports(initializer.Root) {
		if importedName(clause) == name {
			return nil
		}
	}

	p.ReportWithSuggestion(p.Doc.Source.FirstLine(),
		fmt.Sprintf("'%s' is not imported in __init__.py", name),
		fmt.Sprintf("Add 'from . import %s' to __init__.py", name))
	return nil
}

func checkUnknownPackageImport(p *Pass) error {
	if !p.Doc.IsInitializer() {
		return nil
	}

	dir := p.Doc.Dir()
	known := make(map[string]bool)
	for _, name := range p.Resolver.SiblingSourceFiles(dir) {
		known[name] = true
	}

	for _, clause := range relativePackageImports(p.Doc.Root) {
		name := importedName(clause)
		if known[name] || p.Resolver.IsPackage(dir, name) {
			continue
		}
		p.Reportf(clause.Span, "'%s' is neither a module nor a package in this directory", name)
	}
	return nil
}

func checkMissingModelIdentity(p *Pass) error {
	for _, class := range ast.Collect(p.Doc.Root, "class_definition") {
		if !isModelClass(class) {
			continue
		}
		_, _, hasName := classAttribute(class, "_name")
		_, _, hasInherit := classAttribute(class, "_inherit")
		if hasName || hasInherit {
			continue
		}

		span := class.Head
		if name, ok := class.ChildByField("name"); ok {
			span = name.Span
		}
		p.ReportWithSuggestion(span,
			fmt.Sprintf("Model class '%s' defines neither '_name' nor '_inherit'", className(class)),
			"Set '_name' for a new model or '_inherit' to extend an existing one")
	}
	return nil
}

func checkInvalidModelName(p *Pass) error {
	for _, class := range ast.Collect(p.Doc.Root, "class_definition") {
		name, node, ok := modelName(class)
		if !ok || modelNamePattern.MatchString(name) {
			continue
		}
		p.Reportf(node.Span, "Model name '%s' should be lower-case words separated by dots", name)
	}
	return nil
}

func checkUnusedImport(p *Pass) error {
	if p.Doc.IsInitializer() {
		return nil
	}

	refs := referencedNames(p.Doc.Root)
	for _, b := range importBindings(p.Doc.Root) {
		if refs[b.Name] {
			continue
		}
		p.Reportf(b.Clause.Span, "'%s' imported but unused", importedName(b.Clause))
	}
	return nil
}

func checkMissingAccessRow(p *Pass) error {
	type model struct {
		name string
		node *ast.Node
	}
	var models []model
	for _, class := range ast.Collect(p.Doc.Root, "class_definition") {
		if name, node, ok := modelName(class); ok {
			models = append(models, model{name: name, node: node})
		}
	}
	if len(models) == 0 {
		return nil
	}

	descriptor, err := resolve.FindManifest(p.Doc.Path)
	if errors.Is(err, resolve.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	table, err := p.Resolver.AccessTable(moduleRoot(descriptor))
	if errors.Is(err, resolve.ErrNotFound) {
		for _, m := range models {
			p.ReportWithSuggestion(m.node.Span,
				fmt.Sprintf("Model '%s' has no access rules: %s not found", m.name, accessTableName),
				fmt.Sprintf("Create %s and add a row for '%s'", accessTableName, resolve.ModelRowKey(m.name)))
		}
		return nil
	}
	if err != nil {
		return err
	}

	for _, m := range models {
		key := resolve.ModelRowKey(m.name)
		if table.HasModel(key) || table.HasRow(key) {
			continue
		}
		p.Reportf(m.node.Span,
			"No access rule for model '%s' (expected a row containing '%s' in %s)",
			m.name, key, accessTableName)
	}
	return nil
}

// className returns the declared name of a class.
func className(class *ast.Node) string {
	if name, ok := class.ChildByField("name"); ok {
		return name.Text()
	}
	return ""
}
