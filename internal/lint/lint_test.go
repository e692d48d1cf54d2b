package lint_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cncmacro/internal/diag"
	"cncmacro/internal/lint"
	"cncmacro/internal/symbols"
	"cncmacro/internal/workspace"
)

func lintFiles(t *testing.T, files map[string]string, uri string, cfg lint.Config) []diag.Diagnostic {
	t.Helper()
	provider := workspace.NewMemProvider(files)
	doc, err := provider.Get(uri)
	require.NoError(t, err)
	require.Empty(t, doc.Markers, "source must parse cleanly")
	table := symbols.Resolve(doc, provider)
	return lint.Entries(doc.Tree, table, cfg)
}

func lintProgram(t *testing.T, text string) []diag.Diagnostic {
	t.Helper()
	return lintFiles(t, map[string]string{"main.src": text}, "main.src", nil)
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func only(diags []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// offsetOf returns the byte offset of the n-th (0-based) occurrence of sub.
func offsetOf(t *testing.T, text, sub string, n int) uint32 {
	t.Helper()
	base := 0
	for i := 0; ; i++ {
		idx := strings.Index(text[base:], sub)
		require.GreaterOrEqual(t, idx, 0, "%q occurrence %d", sub, n)
		if i == n {
			return uint32(base + idx) // #nosec G115 -- test sources are tiny
		}
		base += idx + len(sub)
	}
}

func TestRegistry(t *testing.T) {
	all := lint.Analyzers()
	require.Len(t, all, 21)
	seen := map[string]bool{}
	for i, a := range all {
		assert.NotEmpty(t, a.Name(), a.Code.ID())
		assert.NotEmpty(t, a.Doc, a.Name())
		assert.NotNil(t, a.Run, a.Name())
		assert.False(t, seen[a.Name()], "duplicate rule %s", a.Name())
		seen[a.Name()] = true
		if i > 0 {
			assert.Less(t, all[i-1].Code, a.Code)
		}
		got, ok := lint.Lookup(a.Name())
		require.True(t, ok)
		assert.Same(t, a, got)
	}
	_, ok := lint.Lookup("noSuchRule")
	assert.False(t, ok)
}

func TestCleanProgram(t *testing.T) {
	src := "@SPEED 100\n>LOOP 20\nO1000\nN10 G01 X10 F SPEED\nN LOOP #1 = #1 + 1\n" +
		"IF [#1 LT 5] GOTO 20\nWHILE [#2 LT 3] DO1\n#2 = #2 + 1\nEND1\nM30\n"
	assert.Empty(t, lintProgram(t, src))
}

func TestDuplicateDeclaration(t *testing.T) {
	src := "@SPEED 100\n@SPEED 200\nO1\nF SPEED\n"
	diags := lintProgram(t, src)
	require.Equal(t, []diag.Code{diag.LintDuplicateDeclaration}, codes(diags))
	assert.Equal(t, diag.SevError, diags[0].Severity)
	assert.Equal(t, offsetOf(t, src, "SPEED", 1), diags[0].Offset())
	assert.Equal(t, uint32(len("SPEED")), diags[0].Length())
	require.Len(t, diags[0].Notes, 1)
	assert.Equal(t, offsetOf(t, src, "SPEED", 0), diags[0].Notes[0].Span.Start)
}

func TestDuplicateDeclarationInIncludeNotReported(t *testing.T) {
	diags := lintFiles(t, map[string]string{
		"main.src": "$INCLUDE \"a.def\"\nO1\nF SPEED\n",
		"a.def":    "@SPEED 1\n@SPEED 2\n",
	}, "main.src", nil)
	assert.Empty(t, diags)
}

func TestGotoSequenceAgreement(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		missing string // текст операнда GOTO с ошибкой
	}{
		{"forward", "O1\nGOTO 100\nG01 X10\nN100 G00 X0\n", ""},
		{"backward", "O1\nN0100 X0\nGOTO 100\n", ""},
		{"if goto", "O1\nN5 X0\nIF [#1 LT 1] GOTO 5\n", ""},
		{"label value", ">LOOP 30\nO1\nN LOOP X1\nGOTO 30\n", ""},
		{"goto label", ">LOOP 30\nO1\nN30 X1\nGOTO LOOP\n", ""},
		{"missing", "O1\nGOTO 100\nN200 X0\n", "100"},
		{"other program", "O1\nGOTO 100\nO2\nN100 X0\n", "100"},
		{"missing label value", ">LOOP 30\nO1\nGOTO LOOP\n", "LOOP"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diags := lintProgram(t, tc.src)
			if tc.missing == "" {
				assert.Empty(t, diags)
				return
			}
			require.Equal(t, []diag.Code{diag.LintSequenceNotFound}, codes(diags))
			at := strings.LastIndex(tc.src, "GOTO "+tc.missing) + len("GOTO ")
			assert.Equal(t, uint32(at), diags[0].Offset()) // #nosec G115 -- test sources are tiny
		})
	}
}

func TestGotoComputedTargetSkipped(t *testing.T) {
	assert.Empty(t, lintProgram(t, "O1\nGOTO #1\nGOTO [#2 + 1]\n"))
}

func TestSequenceAndLabelDuplicates(t *testing.T) {
	src := ">LOOPA 100\n>LOOPB 5\n>LOOPC 5\nO1\nN100 X1\nN100 X2\nN LOOPA X3\nN LOOPB Y1\nN LOOPC Y2\n"
	diags := lintProgram(t, src)
	require.Equal(t, []diag.Code{
		diag.LintDuplicateSequence,
		diag.LintDuplicateLabelSequence,
		diag.LintDuplicateLabel,
	}, codes(diags))
	assert.Equal(t, offsetOf(t, src, "N100", 1), diags[0].Offset())
	assert.Equal(t, diag.SevWarning, diags[1].Severity)
	assert.Equal(t, offsetOf(t, src, "LOOPA", 1), diags[1].Offset())
	assert.Equal(t, offsetOf(t, src, "LOOPC", 1), diags[2].Offset())

	// другая программа - своё пространство номеров
	assert.Empty(t, lintProgram(t, "O1\nN10 X1\nO2\nN10 X1\n"))
}

func TestConditionalOperatorMixing(t *testing.T) {
	src := "O1\nIF [1 EQ #1 && 2 EQ #1 || 3 EQ #1] THEN\n#2 = 1\nENDIF\n"
	diags := lintProgram(t, src)
	require.Equal(t, []diag.Code{diag.LintMixedConditionals}, codes(diags))
	assert.Equal(t, offsetOf(t, src, "||", 0), diags[0].Offset())

	src = "O1\nIF [1 EQ #1 || 2 EQ #1 && 3 EQ #1 && 4 EQ #1] THEN #2 = 1\n"
	diags = lintProgram(t, src)
	require.Equal(t, []diag.Code{diag.LintMixedConditionals, diag.LintMixedConditionals}, codes(diags))
	assert.Equal(t, offsetOf(t, src, "&&", 0), diags[0].Offset())
	assert.Equal(t, offsetOf(t, src, "&&", 1), diags[1].Offset())

	// вложенные скобки - отдельная цепочка
	assert.Empty(t, lintProgram(t, "O1\nIF [[1 EQ #1 && 2 EQ #1] || 3 EQ #1] GOTO 1\nN1 X0\n"))
}

func TestTooManyConditionals(t *testing.T) {
	four := "O1\nIF [1 EQ #1 && 2 EQ #1 && 3 EQ #1 && 4 EQ #1] THEN\n#2 = 1\nENDIF\n"
	assert.Empty(t, lintProgram(t, four))

	five := "O1\nIF [1 EQ #1 && 2 EQ #1 && 3 EQ #1 && 4 EQ #1 && 5 EQ #1] THEN\n#2 = 1\nENDIF\n"
	diags := lintProgram(t, five)
	require.Equal(t, []diag.Code{diag.LintTooManyConditionals}, codes(diags))
	assert.Equal(t, offsetOf(t, five, "5 EQ", 0), diags[0].Offset())
}

func TestWhileRules(t *testing.T) {
	t.Run("logic operator", func(t *testing.T) {
		src := "O1\nWHILE [#1 LT 1 && #2 LT 1] DO1\nEND1\n"
		diags := lintProgram(t, src)
		require.Equal(t, []diag.Code{diag.LintWhileLogicOperator}, codes(diags))
		assert.Equal(t, offsetOf(t, src, "&&", 0), diags[0].Offset())
	})
	t.Run("do end mismatch", func(t *testing.T) {
		src := "O1\nWHILE [#1 LT 1] DO1\nEND2\n"
		diags := lintProgram(t, src)
		require.Equal(t, []diag.Code{diag.LintDoEndMismatch, diag.LintDoEndMismatch}, codes(diags))
		assert.Equal(t, offsetOf(t, src, "DO1", 0)+2, diags[0].Offset())
		assert.Equal(t, offsetOf(t, src, "END2", 0)+3, diags[1].Offset())
	})
	t.Run("number too big", func(t *testing.T) {
		diags := lintProgram(t, "O1\nWHILE [#1 LT 1] DO4\nEND4\n")
		assert.Equal(t, []diag.Code{diag.LintDoEndNumberTooBig, diag.LintDoEndNumberTooBig}, codes(diags))
	})
	t.Run("duplicate do number", func(t *testing.T) {
		src := "O1\nWHILE [#1 LT 1] DO1\nWHILE [#2 LT 1] DO1\nEND1\nEND1\n"
		diags := lintProgram(t, src)
		require.Equal(t, []diag.Code{diag.LintDuplicateDoNumber}, codes(diags))
		assert.Equal(t, diag.SevWarning, diags[0].Severity)
		assert.Equal(t, offsetOf(t, src, "DO1", 1)+2, diags[0].Offset())
	})
	t.Run("sibling reuse inside a loop", func(t *testing.T) {
		src := "O1\nWHILE [#1 LT 1] DO1\nWHILE [#2 LT 1] DO2\nEND2\nWHILE [#3 LT 1] DO2\nEND2\nEND1\n"
		diags := lintProgram(t, src)
		require.Equal(t, []diag.Code{diag.LintDuplicateDoNumber}, codes(diags))
		assert.Equal(t, offsetOf(t, src, "DO2", 1)+2, diags[0].Offset())
		require.Len(t, diags[0].Notes, 1)
		assert.Equal(t, offsetOf(t, src, "DO2", 0)+2, diags[0].Notes[0].Span.Start)
	})
	t.Run("sequential loops in a program", func(t *testing.T) {
		assert.Empty(t, lintProgram(t, "O1\nWHILE [#1 LT 1] DO1\nEND1\nWHILE [#2 LT 1] DO1\nEND1\n"))
	})
	t.Run("symbolic do number", func(t *testing.T) {
		assert.Empty(t, lintProgram(t, "@OUTER 1\nO1\nDO OUTER\nEND OUTER\n"))
	})
}

func TestWhileNestingDepth(t *testing.T) {
	src := "O1\n" +
		"WHILE [#1 LT 1] DO1\n" +
		"WHILE [#2 LT 1] DO2\n" +
		"WHILE [#3 LT 1] DO3\n" +
		"WHILE [#4 LT 1] DO1\n" +
		"END1\nEND3\nEND2\nEND1\n"
	diags := only(lintProgram(t, src), diag.LintNestingTooDeep)
	require.Len(t, diags, 1)
	assert.Equal(t, offsetOf(t, src, "WHILE", 3), diags[0].Offset())

	three := "O1\nWHILE [#1 LT 1] DO1\nWHILE [#2 LT 1] DO2\nWHILE [#3 LT 1] DO3\nEND3\nEND2\nEND1\n"
	assert.Empty(t, lintProgram(t, three))
}

func TestIfNestingDepth(t *testing.T) {
	nested := func(depth int) string {
		var b strings.Builder
		b.WriteString("O1\n")
		for range depth {
			b.WriteString("IF [#1 EQ 1] THEN\n")
		}
		b.WriteString("#2 = 1\n")
		for range depth {
			b.WriteString("ENDIF\n")
		}
		return b.String()
	}
	assert.Empty(t, lintProgram(t, nested(10)))

	src := nested(11)
	diags := lintProgram(t, src)
	require.Equal(t, []diag.Code{diag.LintIfNestingTooDeep}, codes(diags))
	assert.Equal(t, offsetOf(t, src, "IF [", 10), diags[0].Offset())

	// глубже не спускаемся: одна ошибка на ветку
	assert.Len(t, lintProgram(t, nested(13)), 1)
}

func TestBlockDeleteRange(t *testing.T) {
	src := "O1\n/1 X1\n/9 X2\n/0 X3\n/10 X4\n/ X5\n"
	diags := lintProgram(t, src)
	require.Equal(t, []diag.Code{diag.LintBlockDeleteNumber, diag.LintBlockDeleteNumber}, codes(diags))
	assert.Equal(t, offsetOf(t, src, "/0", 0)+1, diags[0].Offset())
	assert.Equal(t, offsetOf(t, src, "/10", 0)+1, diags[1].Offset())
}

func TestStatementRules(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"incomplete parameter", "O1\nG01 X\n", []diag.Code{diag.LintIncompleteParameter}},
		{"duplicate address", "O1\nG01 X1 Y2 X3 G00\n", []diag.Code{diag.LintDuplicateAddress}},
		{"symbol address", "@AXIS X\nO1\nG01 X1 AXIS 2\n", []diag.Code{diag.LintDuplicateAddress}},
		{"codes repeat", "O1\nG90 G01 M08 M03\n", nil},
		{"constant assignment", "@SPEED 100\nO1\nSPEED = 5\n", []diag.Code{diag.LintAssignmentToConstant}},
		{"variable assignment", "@COUNT #100\nO1\nCOUNT = 5\n", nil},
		{"unknown symbol", "O1\n#1 = NOPE + 1\n", []diag.Code{diag.LintUnknownSymbol}},
		{"duplicate program", "O1\nX1\nO0001\nX2\n", []diag.Code{diag.LintDuplicateProgramNumber}},
		{"include not found", "$INCLUDE \"missing.def\"\nO1\n", []diag.Code{diag.LintIncludeNotFound}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, codes(lintProgram(t, tc.src)))
		})
	}
}

func TestIncludedSymbolsResolve(t *testing.T) {
	diags := lintFiles(t, map[string]string{
		"main.src": "$INCLUDE \"defs.def\"\nO1\nF SPEED\nGOTO LOOP\nN LOOP X0\n",
		"defs.def": "@SPEED 100\n>LOOP 7\n",
	}, "main.src", nil)
	assert.Empty(t, diags)
}

func TestShadowedIncludeDeclaration(t *testing.T) {
	src := "$INCLUDE \"defs.def\"\n@SPEED 5\n@FEED 10\nO1\nF SPEED\n"
	diags := lintFiles(t, map[string]string{
		"main.src": src,
		"defs.def": "@SPEED 100\n>FEED 3\n",
	}, "main.src", nil)
	require.Equal(t, []diag.Code{diag.LintShadowedDeclaration}, codes(diags))
	assert.Equal(t, diag.SevWarning, diags[0].Severity)
	assert.Equal(t, offsetOf(t, src, "SPEED", 0), diags[0].Offset())
	require.Len(t, diags[0].Notes, 1)
	assert.Equal(t, uint32(1), diags[0].Notes[0].Span.Start)

	off := lintFiles(t, map[string]string{
		"main.src": src,
		"defs.def": "@SPEED 100\n",
	}, "main.src", lint.Config{"shadowedDeclaration": diag.SevIgnore})
	assert.Empty(t, off)
}

func TestConfigOverrides(t *testing.T) {
	src := "O1\nG01 X1 X2\n#1 = NOPE\n"

	diags := lintFiles(t, map[string]string{"main.src": src}, "main.src", lint.Config{
		"duplicateAddress": diag.SevError,
	})
	require.Equal(t, []diag.Code{diag.LintDuplicateAddress, diag.LintUnknownSymbol}, codes(diags))
	assert.Equal(t, diag.SevError, diags[0].Severity)

	diags = lintFiles(t, map[string]string{"main.src": src}, "main.src", lint.Config{
		"duplicateAddress": diag.SevIgnore,
		"unknownSymbol":    diag.SevHint,
	})
	require.Equal(t, []diag.Code{diag.LintUnknownSymbol}, codes(diags))
	assert.Equal(t, diag.SevHint, diags[0].Severity)
}

func TestEntriesWithoutTable(t *testing.T) {
	provider := workspace.NewMemProvider(map[string]string{"main.src": "@SPEED 1\nO1\nF SPEED\nF OTHER\n"})
	doc, err := provider.Get("main.src")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.LintUnknownSymbol}, codes(lint.Entries(doc.Tree, nil, nil)))
	assert.Panics(t, func() { lint.Entries(nil, nil, nil) })
}
