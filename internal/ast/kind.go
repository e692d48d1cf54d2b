package ast

// Kind tags the node variant. Variant fields live in Node.Payload.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile
	KindInclude
	KindProgram
	KindSymbolDefinition
	KindLabelDefinition
	KindStatement
	KindBlockDelete
	KindSequence
	KindJumpLabel
	KindCode
	KindParameter
	KindAssignment
	KindIf
	KindThen     // block IF ... THEN / ENDIF
	KindThenTerm // single-line IF [..] THEN stmt
	KindElse
	KindWhile
	KindGoto
	KindFfunc
	KindConditional
	KindBinary
	KindUnary
	KindOperator
	KindSymbol
	KindLabel
	KindVariable
	KindAddress
	KindNumeric
	KindString
	KindText
)

var kindNames = [...]string{
	KindInvalid:          "Invalid",
	KindFile:             "File",
	KindInclude:          "Include",
	KindProgram:          "Program",
	KindSymbolDefinition: "SymbolDefinition",
	KindLabelDefinition:  "LabelDefinition",
	KindStatement:        "Statement",
	KindBlockDelete:      "BlockDelete",
	KindSequence:         "Sequence",
	KindJumpLabel:        "JumpLabel",
	KindCode:             "Code",
	KindParameter:        "Parameter",
	KindAssignment:       "Assignment",
	KindIf:               "If",
	KindThen:             "Then",
	KindThenTerm:         "ThenTerm",
	KindElse:             "Else",
	KindWhile:            "While",
	KindGoto:             "Goto",
	KindFfunc:            "Ffunc",
	KindConditional:      "Conditional",
	KindBinary:           "Binary",
	KindUnary:            "Unary",
	KindOperator:         "Operator",
	KindSymbol:           "Symbol",
	KindLabel:            "Label",
	KindVariable:         "Variable",
	KindAddress:          "Address",
	KindNumeric:          "Numeric",
	KindString:           "String",
	KindText:             "Text",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsDefinition reports whether nodes of this kind declare a name.
func (k Kind) IsDefinition() bool {
	return k == KindSymbolDefinition || k == KindLabelDefinition
}
