package token

import "strings"

var keywords = map[string]Kind{
	"IF":    KwIf,
	"THEN":  KwThen,
	"ELSE":  KwElse,
	"ENDIF": KwEndif,
	"WHILE": KwWhile,
	"DO":    KwDo,
	"END":   KwEnd,
	"GOTO":  KwGoto,
	"EQ":    KwEq,
	"NE":    KwNe,
	"LE":    KwLe,
	"GE":    KwGe,
	"LT":    KwLt,
	"GT":    KwGt,
	"AND":   KwAnd,
	"OR":    KwOr,
	"XOR":   KwXor,
	"MOD":   KwMod,
}

// функции, которые знает контроллер; сигнатуры лежат в internal/builtins
var functions = map[string]struct{}{
	"SIN": {}, "COS": {}, "TAN": {}, "ASIN": {}, "ACOS": {}, "ATAN": {}, "ATN": {},
	"SQRT": {}, "SQR": {}, "ABS": {}, "BIN": {}, "BCD": {},
	"ROUND": {}, "RND": {}, "FIX": {}, "FUP": {}, "LN": {}, "EXP": {}, "POW": {},
	"ADP": {}, "PRM": {},
	"BPRNT": {}, "DPRNT": {}, "POPEN": {}, "PCLOS": {}, "SETVN": {},
}

var printFunctions = map[string]struct{}{"BPRNT": {}, "DPRNT": {}}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Регистр не важен: "goto" и "GOTO" дают KwGoto.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[strings.ToUpper(word)]
	return k, ok
}

// IsFunction reports whether word names a built-in function.
func IsFunction(word string) bool {
	_, ok := functions[strings.ToUpper(word)]
	return ok
}

// IsPrintFunction reports whether word is a print command whose bracketed
// argument list is free text rather than an expression.
func IsPrintFunction(word string) bool {
	_, ok := printFunctions[strings.ToUpper(word)]
	return ok
}
