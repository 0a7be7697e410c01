package manifest

import (
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
)

// StringLiteral returns the value of a Python string literal node. Escape
// sequences are left as written; f-strings, byte strings and implicit
// concatenations are not literals for this purpose.
func StringLiteral(n *ast.Node) (string, bool) {
	if n == nil || n.Kind != "string" {
		return "", false
	}
	if _, ok := n.ChildByKind("interpolation"); ok {
		return "", false
	}

	text := n.Text()
	i := 0
	for i < len(text) && strings.ContainsRune("rRuUbBfF", rune(text[i])) {
		if text[i] == 'b' || text[i] == 'B' || text[i] == 'f' || text[i] == 'F' {
			return "", false
		}
		i++
	}
	text = text[i:]

	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(text) >= 2*len(q) && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			return text[len(q) : len(text)-len(q)], true
		}
	}
	return "", false
}
