package symbols

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/source"
)

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	// SymbolFlagDuplicate marks a redeclaration; the first declaration stays authoritative.
	SymbolFlagDuplicate SymbolFlags = 1 << iota
	SymbolFlagAlias                 // value is another symbol
)

// SymbolDecl points at the declaring node. The node lives in Scope.Tree.
type SymbolDecl struct {
	File      source.FileID
	Node      ast.NodeID
	NameNode  ast.NodeID
	ValueNode ast.NodeID
	NameSpan  source.Span
	ValueSpan source.Span
}

// Symbol is a declared name (@NAME or >NAME).
type Symbol struct {
	Name      string
	Ref       ast.RefType
	ValueType ast.ValueType
	Value     string
	Decl      SymbolDecl
	Scope     ScopeID
	Flags     SymbolFlags
}

// Definition builds the back-link stored on resolved reference nodes.
func (s *Symbol) Definition() *ast.Definition {
	return &ast.Definition{
		Name:      s.Name,
		Value:     s.Value,
		Ref:       s.Ref,
		ValueType: s.ValueType,
		File:      s.Decl.File,
		Node:      s.Decl.Node,
		NameSpan:  s.Decl.NameSpan,
		ValueSpan: s.Decl.ValueSpan,
	}
}

// IsConstant reports whether assignments to the symbol are meaningless.
func (s *Symbol) IsConstant() bool { return s.ValueType.IsConstant() }

// valueTypeOf classifies the value node of a definition.
func valueTypeOf(tree *ast.Tree, id ast.NodeID) ast.ValueType {
	n := tree.Get(id)
	if n == nil {
		return ast.ValueOther
	}
	switch n.Kind {
	case ast.KindNumeric:
		return ast.ValueNumber
	case ast.KindVariable:
		return ast.ValueVariable
	case ast.KindAddress:
		return ast.ValueAddress
	case ast.KindCode:
		if code, ok := n.Payload.(*ast.CodeData); ok && code.Letter == 'O' {
			return ast.ValueProgram
		}
		return ast.ValueCode
	default:
		return ast.ValueOther
	}
}
