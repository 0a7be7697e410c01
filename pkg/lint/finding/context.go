package finding

import (
	"fmt"
	"strings"

	"mercator-hq/modlint/pkg/lint/ast"
)

// ExtractContext renders the lines around a finding with a caret under its
// start column. It returns "" when the span is outside the source.
func ExtractContext(src *ast.Source, span ast.Span, contextLines int) string {
	if src == nil || !span.Start.IsValid() || span.Start.Line > src.LineCount() {
		return ""
	}

	errorLine := span.Start.Line
	startLine := errorLine - contextLines
	endLine := errorLine + contextLines

	if startLine < 1 {
		startLine = 1
	}
	if endLine > src.LineCount() {
		endLine = src.LineCount()
	}

	var sb strings.Builder
	maxLineNumWidth := len(fmt.Sprintf("%d", endLine))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		fmt.Fprintf(&sb, "%s %*d | %s\n", prefix, maxLineNumWidth, i, src.Line(i))

		if i == errorLine {
			width := 1
			if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
				width = span.End.Column - span.Start.Column
			}
			fmt.Fprintf(&sb, "   %s | %s%s\n",
				strings.Repeat(" ", maxLineNumWidth),
				strings.Repeat(" ", span.Start.Column-1),
				strings.Repeat("^", width))
		}
	}

	return sb.String()
}
