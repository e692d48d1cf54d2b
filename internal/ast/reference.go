package ast

import (
	"strings"

	"cncmacro/internal/source"
)

// RefType is the set of things a token may turn out to be.
type RefType uint16

const (
	RefLabel RefType = 1 << iota
	RefSymbol
	RefVariable
	RefProgram
	RefSequence
	RefCode
	RefAddress
	RefJumpLabel

	RefNone RefType = 0
)

var refNames = []struct {
	bit  RefType
	name string
}{
	{RefLabel, "label"},
	{RefSymbol, "symbol"},
	{RefVariable, "variable"},
	{RefProgram, "program"},
	{RefSequence, "sequence"},
	{RefCode, "code"},
	{RefAddress, "address"},
	{RefJumpLabel, "jumpLabel"},
}

func (r RefType) Has(bits RefType) bool { return r&bits == bits }

// Intersects reports whether r and other share at least one tag.
func (r RefType) Intersects(other RefType) bool { return r&other != 0 }

func (r RefType) String() string {
	if r == RefNone {
		return "none"
	}
	var parts []string
	for _, n := range refNames {
		if r&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ValueType classifies a definition value.
type ValueType uint8

const (
	ValueOther    ValueType = iota
	ValueNumber             // numeric constant
	ValueVariable           // #100
	ValueCode               // G01, M30
	ValueAddress            // X
	ValueProgram            // O1000
)

func (v ValueType) String() string {
	switch v {
	case ValueNumber:
		return "number"
	case ValueVariable:
		return "variable"
	case ValueCode:
		return "code"
	case ValueAddress:
		return "address"
	case ValueProgram:
		return "program"
	default:
		return "other"
	}
}

// IsConstant reports whether the value cannot be assigned to.
func (v ValueType) IsConstant() bool { return v == ValueNumber }

// Definition is what a resolved reference points to. Spans may belong to another file.
type Definition struct {
	Name      string
	Value     string
	Ref       RefType
	ValueType ValueType
	File      source.FileID
	Node      NodeID
	NameSpan  source.Span
	ValueSpan source.Span
}
