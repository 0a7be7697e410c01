// Package document parses module files into lintable Documents.
//
// Three kinds of document are recognised from the file name:
//
//	__manifest__.py, __openerp__.py  KindManifest
//	*.py                             KindSourceUnit
//	*.xml                            KindDataDocument
//
// Python sources and manifests are parsed with tree-sitter; data documents
// are streamed through encoding/xml. Both end up as an ast.Node tree over a
// shared ast.Source so rules see a single node API.
//
// The Parser is an explicit value. Construct it once and hand it to the
// engine and the resolver:
//
//	p := document.NewParser().WithMaxFileSize(cfg.Lint.MaxFileSize)
//	doc, err := p.ParseFile(ctx, "my_module/models/sale.py")
//
// A *ParseError means the whole document is unusable. Python input with
// syntax errors is not a parse failure: tree-sitter recovers and the
// document is flagged with SyntaxErrors.
package document
