package ast

// NodeID is the 1-based index of a node in the tree arena.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
