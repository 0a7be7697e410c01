package ast

// Collect returns every node under root (root included) whose Kind is one of
// kinds, in pre-order: a parent before its children, siblings left to right.
// The result is empty, never nil, when nothing matches.
func Collect(root *Node, kinds ...string) []*Node {
	out := make([]*Node, 0)
	if root == nil || len(kinds) == 0 {
		return out
	}

	want := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		want[k] = struct{}{}
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := want[n.Kind]; ok {
			out = append(out, n)
		}

		// push in reverse so the leftmost child is visited first
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

// CollectElements returns every markup element under root with one of the
// given tags, in the same order as Collect. With no tags every element matches.
func CollectElements(root *Node, tags ...string) []*Node {
	elems := Collect(root, KindElement)
	if len(tags) == 0 {
		return elems
	}
	out := make([]*Node, 0, len(elems))
	for _, e := range elems {
		for _, t := range tags {
			if e.Tag == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Walk visits nodes in pre-order and stops descending into a node's children
// when fn returns false.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}
