package ast

import (
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

// Payload holds the fields of one node variant.
type Payload interface {
	payload()
}

type FileData struct {
	Kind source.FileKind
}

type IncludeData struct {
	Path     string
	PathSpan source.Span
	Quoted   bool
}

// ProgramData: O1000 or O MYPROG.
type ProgramData struct {
	Number NodeID
}

// DefinitionData: @NAME value / >NAME value.
type DefinitionData struct {
	Name  NodeID
	Value NodeID
}

type StatementData struct {
	BlockDelete NodeID
	Sequence    NodeID // Sequence или JumpLabel
}

type BlockDeleteData struct {
	Number NodeID // NoNodeID для голого "/"
}

type SequenceData struct {
	Number NodeID
}

type JumpLabelData struct {
	Label NodeID
}

type CodeData struct {
	Letter byte
	Number NodeID
}

type ParameterData struct {
	Address NodeID // Address или Symbol
	Value   NodeID // NoNodeID - параметр без значения
}

type AssignmentData struct {
	Target NodeID
	Value  NodeID
}

type IfData struct {
	Cond NodeID
	Then NodeID // Then, ThenTerm или Goto
	Else NodeID
}

type WhileData struct {
	Cond NodeID // NoNodeID для голого DOn
	Do   NodeID
	End  NodeID
}

type GotoData struct {
	Target NodeID
}

// FfuncData is a builtin call. MatchedSignature is -1 when no signature matched.
type FfuncData struct {
	Name             string
	Args             []NodeID
	Delimiter        token.Kind
	MatchedSignature int
}

// ConditionalData is one link of a right-associative chain.
//
//	left cond right [logic next]
type ConditionalData struct {
	Left    NodeID
	CondOp  NodeID
	Right   NodeID
	LogicOp NodeID
	Next    NodeID
}

type BinaryData struct {
	Op    token.Kind
	Left  NodeID
	Right NodeID
}

type UnaryData struct {
	Op      token.Kind
	Operand NodeID
}

type OperatorData struct {
	Op token.Kind
}

// VariableData: #100, #SYM, #[expr].
type VariableData struct {
	Index NodeID
}

func (*FileData) payload()        {}
func (*IncludeData) payload()     {}
func (*ProgramData) payload()     {}
func (*DefinitionData) payload()  {}
func (*StatementData) payload()   {}
func (*BlockDeleteData) payload() {}
func (*SequenceData) payload()    {}
func (*JumpLabelData) payload()   {}
func (*CodeData) payload()        {}
func (*ParameterData) payload()   {}
func (*AssignmentData) payload()  {}
func (*IfData) payload()          {}
func (*WhileData) payload()       {}
func (*GotoData) payload()        {}
func (*FfuncData) payload()       {}
func (*ConditionalData) payload() {}
func (*BinaryData) payload()      {}
func (*UnaryData) payload()       {}
func (*OperatorData) payload()    {}
func (*VariableData) payload()    {}
