package ast

import (
	"slices"

	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// TextProvider materializes text for a span. *source.FileSet satisfies it.
type TextProvider interface {
	Text(sp source.Span) string
}

// Tree owns every node of one parsed file.
type Tree struct {
	Nodes *Arena[Node]
	Root  NodeID
	File  source.FileID
	Kind  source.FileKind
	Path  string

	text TextProvider
}

// NewTree creates a tree whose File root covers the whole file.
func NewTree(file *source.File, text TextProvider) *Tree {
	t := &Tree{
		Nodes: NewArena[Node](1 << 8),
		File:  file.ID,
		Kind:  file.Kind,
		Path:  file.Path,
		text:  text,
	}
	t.Root = t.New(KindFile, file.Span(), &FileData{Kind: file.Kind})
	return t
}

func (t *Tree) New(kind Kind, sp source.Span, payload Payload) NodeID {
	return NodeID(t.Nodes.Allocate(Node{
		Kind:    kind,
		Span:    sp,
		Prog:    sp,
		Payload: payload,
	}))
}

// NewRef allocates a reference node tagged with ref.
func (t *Tree) NewRef(kind Kind, sp source.Span, ref RefType, payload Payload) NodeID {
	id := t.New(kind, sp, payload)
	t.Get(id).Ref = ref
	return id
}

func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

func (t *Tree) RootNode() *Node {
	return t.Get(t.Root)
}

func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Get(id); n != nil {
		return n.Children
	}
	return nil
}

// AddChild appends child and grows the ancestors' spans to cover it.
func (t *Tree) AddChild(parent, child NodeID) {
	p, c := t.Get(parent), t.Get(child)
	if p == nil || c == nil {
		return
	}
	p.Children = append(p.Children, child)
	c.Parent = parent
	t.Extend(parent, c.Span)
}

// AdoptChild moves child under parent and removes it from its old parent.
func (t *Tree) AdoptChild(parent, child NodeID) {
	c := t.Get(child)
	if c == nil {
		return
	}
	if old := t.Get(c.Parent); old != nil {
		if i := slices.Index(old.Children, child); i >= 0 {
			old.Children = slices.Delete(old.Children, i, i+1)
		}
	}
	c.Parent = NoNodeID
	t.AddChild(parent, child)
}

// Extend grows the span of a node and its ancestors. Spans never shrink.
func (t *Tree) Extend(id NodeID, sp source.Span) {
	for n := t.Get(id); n != nil; n = t.Get(n.Parent) {
		if n.Span.File != sp.File {
			return
		}
		grown := n.Span.Cover(sp)
		if grown == n.Span {
			return
		}
		if n.Prog == n.Span {
			n.Prog = grown
		}
		n.Span = grown
	}
}

// Accept walks the subtree in pre-order. Returning false from visit skips the subtree.
func (t *Tree) Accept(id NodeID, visit func(id NodeID, n *Node) bool) {
	n := t.Get(id)
	if n == nil || !visit(id, n) {
		return
	}
	for _, c := range n.Children {
		t.Accept(c, visit)
	}
}

// FindParent returns the nearest ancestor of the given kind.
func (t *Tree) FindParent(id NodeID, kind Kind) NodeID {
	return t.FindAnyParent(id, kind)
}

func (t *Tree) FindAnyParent(id NodeID, kinds ...Kind) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNodeID
	}
	for p := n.Parent; p.IsValid(); p = t.Get(p).Parent {
		if slices.Contains(kinds, t.Get(p).Kind) {
			return p
		}
	}
	return NoNodeID
}

// NodeAtOffset returns the narrowest node containing off.
// On equal length the later-starting (or deeper) node wins.
func (t *Tree) NodeAtOffset(off uint32) NodeID {
	best := NoNodeID
	var bestSpan source.Span
	t.Accept(t.Root, func(id NodeID, n *Node) bool {
		if !n.Span.ContainsOffset(off) {
			return false
		}
		if !best.IsValid() ||
			n.Span.Len() < bestSpan.Len() ||
			(n.Span.Len() == bestSpan.Len() && n.Span.Start >= bestSpan.Start) {
			best, bestSpan = id, n.Span
		}
		return true
	})
	return best
}

// NodePath is the chain from the root to the node at off.
func (t *Tree) NodePath(off uint32) []NodeID {
	leaf := t.NodeAtOffset(off)
	var path []NodeID
	for id := leaf; id.IsValid(); id = t.Get(id).Parent {
		path = append(path, id)
	}
	slices.Reverse(path)
	return path
}

func (t *Tree) Text(id NodeID) string {
	n := t.Get(id)
	if n == nil || t.text == nil {
		return ""
	}
	return t.text.Text(n.Span)
}

// ProgText returns substituted text: for a resolved symbol, the definition value.
func (t *Tree) ProgText(id NodeID) string {
	n := t.Get(id)
	if n == nil || t.text == nil {
		return ""
	}
	return t.text.Text(n.Prog)
}

// SpanText materializes an arbitrary span through the tree's provider.
func (t *Tree) SpanText(sp source.Span) string {
	if t.text == nil {
		return ""
	}
	return t.text.Text(sp)
}

func (t *Tree) AddMarker(id NodeID, d diag.Diagnostic) {
	if n := t.Get(id); n != nil {
		n.Markers = append(n.Markers, d)
	}
}

// Markers collects the markers of all nodes in pre-order.
func (t *Tree) Markers() []diag.Diagnostic {
	var out []diag.Diagnostic
	t.Accept(t.Root, func(_ NodeID, n *Node) bool {
		out = append(out, n.Markers...)
		return true
	})
	return out
}

// Kinds lists node kinds in pre-order.
func (t *Tree) Kinds() []Kind {
	var out []Kind
	t.Accept(t.Root, func(_ NodeID, n *Node) bool {
		out = append(out, n.Kind)
		return true
	})
	return out
}
