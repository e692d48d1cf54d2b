package ast

import (
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

// Node is the envelope shared by all variants. Children are ordered; the parent is an index.
type Node struct {
	Kind     Kind
	Span     source.Span // symbolic text, as written
	Prog     source.Span // substituted text; for references the definition value
	Parent   NodeID
	Children []NodeID
	Payload  Payload

	// Ref and Def are set on reference nodes; the resolver fills Def.
	Ref RefType
	Def *Definition

	Markers []diag.Diagnostic
}

// IsReference reports whether the node can be bound to a definition.
func (n *Node) IsReference() bool { return n.Ref != RefNone }

// DefType tags the definition a node is bound to.
func (n *Node) DefType() RefType {
	if n.Def == nil {
		return RefNone
	}
	return n.Def.Ref
}

func (n *Node) ValueType() ValueType {
	if n.Def == nil {
		return ValueOther
	}
	return n.Def.ValueType
}

// Data returns the node payload as T.
//
//	ifd, ok := ast.Data[*ast.IfData](tree, id)
func Data[P Payload](t *Tree, id NodeID) (P, bool) {
	var zero P
	n := t.Get(id)
	if n == nil || n.Payload == nil {
		return zero, false
	}
	p, ok := n.Payload.(P)
	return p, ok
}
