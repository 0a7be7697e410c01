package document

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"

	"mercator-hq/modlint/pkg/lint/ast"
)

// parsePython parses Python text with tree-sitter and converts the result into
// an ast tree holding named nodes only.
func (p *Parser) parsePython(ctx context.Context, path string, kind Kind, text []byte) (*Document, error) {
	// tree-sitter parsers are not safe for concurrent use; one per call
	sp := sitter.NewParser()
	defer sp.Close()
	sp.SetLanguage(p.language)

	tree, err := sp.ParseCtx(ctx, nil, text)
	if err != nil {
		return nil, &ParseError{Path: path, Kind: kind, Err: err}
	}
	if tree == nil {
		return nil, &ParseError{Path: path, Kind: kind, Err: errors.New("parser returned no tree")}
	}
	defer tree.Close()

	tsRoot := tree.RootNode()
	src := ast.NewSource(text)
	root := ast.NewNode(tsRoot.Type(), src, int(tsRoot.StartByte()), int(tsRoot.EndByte()))

	cursor := sitter.NewTreeCursor(tsRoot)
	defer cursor.Close()
	convertChildren(cursor, root, src)

	return &Document{
		Path:         path,
		Kind:         kind,
		Source:       src,
		Root:         root,
		SyntaxErrors: tsRoot.HasError(),
	}, nil
}

// convertChildren copies the named children under the cursor's current node
// into parent, keeping field labels, then restores the cursor.
func convertChildren(cursor *sitter.TreeCursor, parent *ast.Node, src *ast.Source) {
	if !cursor.GoToFirstChild() {
		return
	}
	for {
		n := cursor.CurrentNode()
		if n.IsNamed() {
			child := ast.NewNode(n.Type(), src, int(n.StartByte()), int(n.EndByte()))
			parent.Append(cursor.CurrentFieldName(), child)
			convertChildren(cursor, child, src)
		}
		if !cursor.GoToNextSibling() {
			break
		}
	}
	cursor.GoToParent()
}
