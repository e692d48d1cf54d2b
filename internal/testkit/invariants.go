package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cncmacro/internal/ast"
	"cncmacro/internal/source"
)

// CheckSpanInvariants runs the structural invariants on a parsed tree:
// 1) the root span is within file content bounds and points at the file
// 2) every child span is contained in its parent span
// 3) every child's Parent link points back at the node that owns it
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("root node not found")
	}

	// 1) root span sanity
	if root.Span.File != sf.ID {
		return fmt.Errorf("root span points to different file id: got=%d want=%d", root.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Span.End > lenContent {
		return fmt.Errorf("root span end beyond content: %d > %d", root.Span.End, lenContent)
	}

	// 2) и 3)
	var first error
	tree.Accept(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if first != nil {
			return false
		}
		if n.Span.End < n.Span.Start {
			first = fmt.Errorf("%s #%d: inverted span %v", n.Kind, id, n.Span)
			return false
		}
		for _, c := range n.Children {
			child := tree.Get(c)
			if child == nil {
				first = fmt.Errorf("%s #%d: dangling child %d", n.Kind, id, c)
				return false
			}
			if child.Parent != id {
				first = fmt.Errorf("%s #%d: child %s #%d has parent %d", n.Kind, id, child.Kind, c, child.Parent)
				return false
			}
			if child.Span.Start < n.Span.Start || child.Span.End > n.Span.End {
				first = fmt.Errorf("%s #%d %v does not enclose child %s #%d %v", n.Kind, id, n.Span, child.Kind, c, child.Span)
				return false
			}
		}
		return true
	})
	return first
}
