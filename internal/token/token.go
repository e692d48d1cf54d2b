package token

import (
	"cncmacro/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsKeyword reports whether the token is a statement keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwIf && t.Kind <= KwInclude
}

// IsConditionOp reports whether the token compares two operands in a condition.
func (t Token) IsConditionOp() bool {
	switch t.Kind {
	case KwEq, KwNe, KwLe, KwGe, KwLt, KwGt, EqEq, BangEq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}

// IsLogicOp reports whether the token chains conditions.
func (t Token) IsLogicOp() bool {
	return t.Kind == AndAnd || t.Kind == OrOr
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= Percent
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// EndsStatement reports whether the token closes the current statement.
func (t Token) EndsStatement() bool { return t.Kind == Newline || t.Kind == EOF }
