package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline terminates a statement.
	Newline

	// Ident is a symbol or label name (two or more letters, digits, '_').
	Ident
	// Address is a single address letter (G, M, X, N, O, ...).
	Address
	// Number is a numeric literal, optionally signed, optionally with a decimal point.
	Number
	// String is a double-quoted literal.
	String
	// Text is raw text inside a print function argument list.
	Text
	// Func is a built-in function name (SIN, ROUND, DPRNT, ...).
	Func

	KwIf      // IF
	KwThen    // THEN
	KwElse    // ELSE
	KwEndif   // ENDIF
	KwWhile   // WHILE
	KwDo      // DO
	KwEnd     // END
	KwGoto    // GOTO
	KwInclude // $INCLUDE

	KwEq  // EQ
	KwNe  // NE
	KwLe  // LE
	KwGe  // GE
	KwLt  // LT
	KwGt  // GT
	KwAnd // AND
	KwOr  // OR
	KwXor // XOR
	KwMod // MOD

	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Assign   // =
	EqEq     // ==
	BangEq   // != or <>
	Lt       // <
	LtEq     // <=
	Gt       // >
	GtEq     // >=
	AndAnd   // &&
	OrOr     // ||
	Comma    // ,
	LBracket // [
	RBracket // ]
	LParen   // (
	RParen   // )
	Hash     // #
	At       // @
	Percent  // %
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Newline:   "Newline",
	Ident:     "Ident",
	Address:   "Address",
	Number:    "Number",
	String:    "String",
	Text:      "Text",
	Func:      "Func",
	KwIf:      "KwIf",
	KwThen:    "KwThen",
	KwElse:    "KwElse",
	KwEndif:   "KwEndif",
	KwWhile:   "KwWhile",
	KwDo:      "KwDo",
	KwEnd:     "KwEnd",
	KwGoto:    "KwGoto",
	KwInclude: "KwInclude",
	KwEq:      "KwEq",
	KwNe:      "KwNe",
	KwLe:      "KwLe",
	KwGe:      "KwGe",
	KwLt:      "KwLt",
	KwGt:      "KwGt",
	KwAnd:     "KwAnd",
	KwOr:      "KwOr",
	KwXor:     "KwXor",
	KwMod:     "KwMod",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Assign:    "Assign",
	EqEq:      "EqEq",
	BangEq:    "BangEq",
	Lt:        "Lt",
	LtEq:      "LtEq",
	Gt:        "Gt",
	GtEq:      "GtEq",
	AndAnd:    "AndAnd",
	OrOr:      "OrOr",
	Comma:     "Comma",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	LParen:    "LParen",
	RParen:    "RParen",
	Hash:      "Hash",
	At:        "At",
	Percent:   "Percent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
