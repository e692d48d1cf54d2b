// Package builtins holds the signature table for the built-in macro functions.
package builtins

import (
	"strings"

	"cncmacro/internal/token"
)

type Parameter struct {
	Name       string
	IsOptional bool
}

// Signature - одна форма вызова. Delimiter: token.Comma для [a,b], token.Slash для [a]/[b].
type Signature struct {
	Parameters  []Parameter
	Delimiter   token.Kind
	Variadic    bool
	NoBrackets  bool
	Description string
}

// Label renders the signature the way it is written at a call site.
func (s Signature) Label(name string) string {
	if s.NoBrackets {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	for i, p := range s.Parameters {
		switch {
		case i == 0:
			b.WriteString("[")
		case s.Delimiter == token.Slash:
			b.WriteString("]/[")
		default:
			b.WriteString(",")
		}
		b.WriteString(p.Name)
	}
	if s.Variadic {
		b.WriteString(",...")
	}
	if len(s.Parameters) == 0 && !s.Variadic {
		b.WriteString("[")
	}
	b.WriteString("]")
	return b.String()
}

func (s Signature) required() int {
	n := 0
	for _, p := range s.Parameters {
		if !p.IsOptional {
			n++
		}
	}
	return n
}

func (s Signature) accepts(argc int, delim token.Kind, bracketed bool) bool {
	if s.NoBrackets {
		return !bracketed
	}
	if !bracketed {
		return false
	}
	if argc > 1 && delim != s.Delimiter {
		return false
	}
	if argc < s.required() {
		return false
	}
	return s.Variadic || argc <= len(s.Parameters)
}

// Lookup returns the signatures of a built-in function (case-insensitive).
func Lookup(name string) ([]Signature, bool) {
	sigs, ok := signatures[strings.ToUpper(name)]
	return sigs, ok
}

// IsBuiltin reports whether name is a known built-in function.
func IsBuiltin(name string) bool {
	_, ok := signatures[strings.ToUpper(name)]
	return ok
}

// Match returns the index of the first signature that accepts a call with argc arguments
// separated by delim, or -1. bracketed is false for bare calls like POPEN.
func Match(name string, argc int, delim token.Kind, bracketed bool) int {
	sigs, ok := Lookup(name)
	if !ok {
		return -1
	}
	for i, s := range sigs {
		if s.accepts(argc, delim, bracketed) {
			return i
		}
	}
	return -1
}

func one(arg, doc string) []Signature {
	return []Signature{{
		Parameters:  []Parameter{{Name: arg}},
		Delimiter:   token.Comma,
		Description: doc,
	}}
}

var signatures = map[string][]Signature{
	// тригонометрия, аргументы в градусах
	"SIN":  one("angle", "Sine of an angle in degrees"),
	"COS":  one("angle", "Cosine of an angle in degrees"),
	"TAN":  one("angle", "Tangent of an angle in degrees"),
	"ASIN": one("value", "Arc sine, result in degrees"),
	"ACOS": one("value", "Arc cosine, result in degrees"),
	"ATAN": {
		{
			Parameters:  []Parameter{{Name: "y"}, {Name: "x"}},
			Delimiter:   token.Slash,
			Description: "Arc tangent of y/x, result in degrees",
		},
		{
			Parameters:  []Parameter{{Name: "y"}, {Name: "x"}},
			Delimiter:   token.Comma,
			Description: "Arc tangent of y/x, result in degrees",
		},
		{
			Parameters:  []Parameter{{Name: "value"}},
			Delimiter:   token.Comma,
			Description: "Arc tangent, result in degrees",
		},
	},
	"ATN": {
		{
			Parameters:  []Parameter{{Name: "y"}, {Name: "x"}},
			Delimiter:   token.Slash,
			Description: "Arc tangent of y/x, result in degrees",
		},
		{
			Parameters:  []Parameter{{Name: "value"}},
			Delimiter:   token.Comma,
			Description: "Arc tangent, result in degrees",
		},
	},

	"SQRT":  one("value", "Square root"),
	"SQR":   one("value", "Square root"),
	"ABS":   one("value", "Absolute value"),
	"BIN":   one("value", "Conversion from BCD to binary"),
	"BCD":   one("value", "Conversion from binary to BCD"),
	"ROUND": one("value", "Rounding to the nearest integer"),
	"RND":   one("value", "Rounding to the nearest integer"),
	"FIX":   one("value", "Rounding down (truncation)"),
	"FUP":   one("value", "Rounding up"),
	"LN":    one("value", "Natural logarithm"),
	"EXP":   one("value", "Exponent with base e"),
	"ADP":   one("variable", "Add a decimal point to the variable value"),
	"POW": {{
		Parameters:  []Parameter{{Name: "base"}, {Name: "exponent"}},
		Delimiter:   token.Comma,
		Description: "Power",
	}},

	// чтение параметров
	"PRM": {
		{
			Parameters:  []Parameter{{Name: "number"}},
			Delimiter:   token.Comma,
			Description: "Read a system parameter",
		},
		{
			Parameters:  []Parameter{{Name: "number"}, {Name: "axis"}},
			Delimiter:   token.Comma,
			Description: "Read a system parameter of a bit or axis type",
		},
		{
			Parameters:  []Parameter{{Name: "number"}, {Name: "axis"}},
			Delimiter:   token.Slash,
			Description: "Read a system parameter of an axis type",
		},
	},
	"SETVN": {{
		Parameters:  []Parameter{{Name: "name"}},
		Delimiter:   token.Comma,
		Variadic:    true,
		Description: "Assign names to common variables",
	}},

	// внешний вывод
	"POPEN": {{NoBrackets: true, Description: "Open the external output device"}},
	"PCLOS": {{NoBrackets: true, Description: "Close the external output device"}},
	"DPRNT": {{
		Parameters:  []Parameter{{Name: "format", IsOptional: true}},
		Variadic:    true,
		Delimiter:   token.Comma,
		Description: "Output text and variable values with leading zeros suppressed",
	}},
	"BPRNT": {{
		Parameters:  []Parameter{{Name: "format", IsOptional: true}},
		Variadic:    true,
		Delimiter:   token.Comma,
		Description: "Output text and variable values in binary",
	}},
}

// HasSlashForm reports whether the function accepts the NAME[a]/[b] form.
func HasSlashForm(name string) bool {
	sigs, _ := Lookup(name)
	for _, s := range sigs {
		if s.Delimiter == token.Slash {
			return true
		}
	}
	return false
}
