package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"

	"mercator-hq/modlint/pkg/lint/ast"
)

// pseudoAttrPattern matches name="value" pairs inside a processing instruction.
var pseudoAttrPattern = regexp.MustCompile(`([A-Za-z_][\w.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// parseMarkup streams XML tokens into an ast tree. Element spans cover the
// whole element from '<' of the start tag to the end of the closing tag.
func parseMarkup(path string, data []byte) (*Document, error) {
	src := ast.NewSource(data)
	root := ast.NewNode(ast.KindDocument, src, 0, len(data))

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	// the bytes are only inspected, never transcoded
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	stack := []*ast.Node{root}
	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			perr := &ParseError{Path: path, Kind: KindDataDocument, Err: err}
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				perr.Position = ast.Position{Line: syntaxErr.Line, Column: 1}
			}
			return nil, perr
		}
		end := int(dec.InputOffset())
		parent := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			el := ast.NewNode(ast.KindElement, src, start, end)
			el.Tag = t.Name.Local
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, ast.Attr{
					Name:  a.Name.Local,
					Value: a.Value,
					Span:  attrSpan(src, start, end, a.Name.Local),
				})
			}
			parent.Append("", el)
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) > 1 {
				el := stack[len(stack)-1]
				el.End = end
				el.Span = src.SpanOf(el.Start, end)
				stack = stack[:len(stack)-1]
			}

		case xml.ProcInst:
			pi := ast.NewNode(ast.KindProcInst, src, start, end)
			pi.Tag = t.Target
			for _, m := range pseudoAttrPattern.FindAllSubmatch(t.Inst, -1) {
				value := string(m[2])
				if len(m[3]) > 0 {
					value = string(m[3])
				}
				pi.Attrs = append(pi.Attrs, ast.Attr{
					Name:  string(m[1]),
					Value: value,
					Span:  pi.Span,
				})
			}
			parent.Append("", pi)
		}
	}

	return &Document{
		Path:   path,
		Kind:   KindDataDocument,
		Source: src,
		Root:   root,
	}, nil
}

// attrSpan locates the quoted value of attribute name inside the start tag
// spanning [tagStart, tagEnd). It falls back to the tag span.
func attrSpan(src *ast.Source, tagStart, tagEnd int, name string) ast.Span {
	tag := src.Bytes()[tagStart:tagEnd]
	needle := []byte(name)

	for i := 0; i+len(needle) <= len(tag); i++ {
		if !bytes.HasPrefix(tag[i:], needle) || (i > 0 && !isSpace(tag[i-1])) {
			continue
		}
		j := i + len(needle)
		for j < len(tag) && isSpace(tag[j]) {
			j++
		}
		if j >= len(tag) || tag[j] != '=' {
			continue
		}
		j++
		for j < len(tag) && isSpace(tag[j]) {
			j++
		}
		if j >= len(tag) || (tag[j] != '"' && tag[j] != '\'') {
			continue
		}
		quote := tag[j]
		closing := bytes.IndexByte(tag[j+1:], quote)
		if closing < 0 {
			break
		}
		return src.SpanOf(tagStart+j, tagStart+j+closing+2)
	}

	return src.SpanOf(tagStart, tagEnd)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
