package token

import "testing"

func TestLookupKeyword_CaseInsensitive(t *testing.T) {
	cases := map[string]Kind{
		"IF":    KwIf,
		"if":    KwIf,
		"Then":  KwThen,
		"endif": KwEndif,
		"GOTO":  KwGoto,
		"do":    KwDo,
		"END":   KwEnd,
		"eq":    KwEq,
		"MOD":   KwMod,
		"xor":   KwXor,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	for _, w := range []string{"ENDWHILE", "GOTO1", "SIN", "X", "MY_SYMBOL"} {
		if k, ok := LookupKeyword(w); ok {
			t.Errorf("LookupKeyword(%q) = %v, want miss", w, k)
		}
	}
}

func TestFunctions(t *testing.T) {
	for _, w := range []string{"sin", "ATAN", "Round", "DPRNT", "setvn"} {
		if !IsFunction(w) {
			t.Errorf("IsFunction(%q) = false", w)
		}
	}
	if IsFunction("SINE") {
		t.Error("SINE is not a function")
	}
	if !IsPrintFunction("bprnt") || IsPrintFunction("POPEN") {
		t.Error("print function table mismatch")
	}
}

func TestTokenPredicates(t *testing.T) {
	tok := func(k Kind) Token { return Token{Kind: k} }
	if !tok(KwGe).IsConditionOp() || !tok(LtEq).IsConditionOp() || tok(AndAnd).IsConditionOp() {
		t.Error("IsConditionOp mismatch")
	}
	if !tok(OrOr).IsLogicOp() || tok(KwOr).IsLogicOp() {
		t.Error("IsLogicOp: only && and || chain conditions")
	}
	if !tok(KwInclude).IsKeyword() || tok(KwEq).IsKeyword() {
		t.Error("IsKeyword mismatch")
	}
	if !tok(Percent).IsPunctOrOp() || tok(Func).IsPunctOrOp() {
		t.Error("IsPunctOrOp mismatch")
	}
	if Hash.String() != "Hash" || Kind(250).String() != "Kind(?)" {
		t.Error("Kind.String mismatch")
	}
}
