package ast

// Markup node kinds. Python nodes use the grammar's own symbol names.
const (
	KindDocument = "document"
	KindElement  = "element"
	KindProcInst = "procinst"
)

// Node is one named node of a parsed document. Python sources produce nodes
// whose Kind is the grammar symbol (class_definition, import_from_statement,
// identifier, ...); markup documents produce document, element and procinst
// nodes that carry a Tag and Attrs.
//
// A tree is built once by a parser and must not be modified afterwards.
type Node struct {
	Kind  string // grammar symbol or markup kind
	Field string // field label under the parent, "" when unlabeled
	Tag   string // element name or processing instruction target (markup only)
	Attrs []Attr // element attributes in source order (markup only)

	Start int  // start byte offset
	End   int  // end byte offset
	Span  Span // source range of the node
	Head  Span // start tag of a markup element; equals Span elsewhere

	Parent   *Node
	Children []*Node

	src *Source
}

// Attr is a single markup attribute with the span of its value.
type Attr struct {
	Name  string
	Value string
	Span  Span
}

// NewNode creates a node covering [start, end) of src.
func NewNode(kind string, src *Source, start, end int) *Node {
	n := &Node{
		Kind:  kind,
		Start: start,
		End:   end,
		Span:  src.SpanOf(start, end),
		src:   src,
	}
	n.Head = n.Span
	return n
}

// Append attaches child under the given field label and returns it.
func (n *Node) Append(field string, child *Node) *Node {
	child.Field = field
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// Text returns the source text of the node.
func (n *Node) Text() string {
	if n == nil || n.src == nil {
		return ""
	}
	return n.src.Slice(n.Start, n.End)
}

// Source returns the source the node was parsed from.
func (n *Node) Source() *Source {
	return n.src
}

// ChildByField returns the first child labeled with field.
// The boolean is false when no such child exists.
func (n *Node) ChildByField(field string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c, true
		}
	}
	return nil, false
}

// ChildrenByField returns every child labeled with field, in source order.
func (n *Node) ChildrenByField(field string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// ChildByKind returns the first direct child of the given kind.
func (n *Node) ChildByKind(kind string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c, true
		}
	}
	return nil, false
}

// Attr returns the named attribute of a markup element.
func (n *Node) Attr(name string) (Attr, bool) {
	if n == nil {
		return Attr{}, false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// Elements returns the direct element children of a markup node.
func (n *Node) Elements() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == KindElement {
			out = append(out, c)
		}
	}
	return out
}

// Inside reports whether any ancestor of n has one of the given kinds.
func (n *Node) Inside(kinds ...string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		for _, k := range kinds {
			if p.Kind == k {
				return true
			}
		}
	}
	return false
}
