// Package ast provides the syntax tree shared by every lint rule.
//
// Python sources and markup documents are both converted into the same
// Node type so that rules query them through one small API: field-labeled
// child lookup for grammar nodes, attribute lookup for markup elements, and
// Collect, the pre-order node collector.
//
// # Positions
//
// Positions are 1-based. A Span has an inclusive Start and an exclusive End,
// which is the range contract editors expect when rendering diagnostics.
//
// # Basic Usage
//
//	classes := ast.Collect(doc.Root, "class_definition")
//	for _, class := range classes {
//	    name, ok := class.ChildByField("name")
//	    if !ok {
//	        continue
//	    }
//	    fmt.Println(name.Text(), name.Span)
//	}
//
// Lookups never hand back a nil node with a true result; callers test the
// boolean instead of guarding against nil dereferences.
package ast
