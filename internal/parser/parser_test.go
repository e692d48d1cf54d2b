package parser

import (
	"slices"
	"testing"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
	"cncmacro/internal/token"
)

func TestProgramStatements(t *testing.T) {
	res := parseSource(t, "O1000\nN10 G01 X10.5 Y#1\n#100 = #1 + 2 * 3\nGOTO 10\nM30\n")
	expectCodes(t, res)

	want := "File(Program(Numeric " +
		"Statement(Sequence(Numeric) Code(Numeric) Parameter(Address Numeric) Parameter(Address Variable(Numeric))) " +
		"Statement(Assignment(Variable(Numeric) Binary(Variable(Numeric) Binary(Numeric Numeric)))) " +
		"Statement(Goto(Numeric)) " +
		"Statement(Code(Numeric))))"
	if got := shape(res.Tree, res.Tree.Root); got != want {
		t.Fatalf("shape:\n got: %s\nwant: %s", got, want)
	}

	code, ok := ast.Data[*ast.CodeData](res.Tree, nthChild(res.Tree, 0, 1, 1))
	if !ok || code.Letter != 'G' || res.Tree.Text(code.Number) != "01" {
		t.Fatalf("code payload = %+v", code)
	}
}

func TestDefinitionFile(t *testing.T) {
	src := "@RATE 100\n@COUNT #500\n>LOOP 10\n@RAPID G00\n@XAX X\n$INCLUDE \"other.def\"\n"
	res := parseKind(t, src, source.KindDefinition)
	expectCodes(t, res)

	want := "File(SymbolDefinition(Symbol Numeric) SymbolDefinition(Symbol Variable(Numeric)) " +
		"LabelDefinition(Label Numeric) SymbolDefinition(Symbol Code(Numeric)) SymbolDefinition(Symbol Address) Include)"
	if got := shape(res.Tree, res.Tree.Root); got != want {
		t.Fatalf("shape:\n got: %s\nwant: %s", got, want)
	}

	label := res.Tree.Get(nthChild(res.Tree, 2, 0))
	if label.Ref != ast.RefLabel {
		t.Fatalf("label ref = %v", label.Ref)
	}
	inc, _ := ast.Data[*ast.IncludeData](res.Tree, nthChild(res.Tree, 5))
	if inc.Path != "other.def" || !inc.Quoted {
		t.Fatalf("include = %+v", inc)
	}
}

func TestDefinitionFileRejectsStatements(t *testing.T) {
	res := parseKind(t, "@AA 1\nG01 X1\n@BB 2\n", source.KindDefinition)
	expectCodes(t, res, diag.SynDefinitionFileOnly)
	if got := len(res.Tree.RootNode().Children); got != 2 {
		t.Fatalf("definitions = %d, want 2", got)
	}
}

func TestBareIncludePath(t *testing.T) {
	res := parseSource(t, "$INCLUDE ../defs/common.def ; shared\nO1\nM30\n")
	expectCodes(t, res)
	inc, ok := ast.Data[*ast.IncludeData](res.Tree, nthChild(res.Tree, 0))
	if !ok || inc.Path != "../defs/common.def" || inc.Quoted {
		t.Fatalf("include = %+v", inc)
	}
	if res.Tree.SpanText(inc.PathSpan) != inc.Path {
		t.Fatalf("path span text = %q", res.Tree.SpanText(inc.PathSpan))
	}
}

func TestIncludeErrors(t *testing.T) {
	expectCodes(t, parseSource(t, "$INCLUDE\nO1\n"), diag.SynExpectIncludePath)
	res := parseSource(t, "$INCLUDE \"abc\nO1\n")
	expectCodes(t, res, diag.LexUnterminatedString)
	inc, _ := ast.Data[*ast.IncludeData](res.Tree, nthChild(res.Tree, 0))
	if inc.Path != "abc" {
		t.Fatalf("path = %q", inc.Path)
	}
}

func TestIfForms(t *testing.T) {
	src := "O1\n" +
		"IF [#1 EQ 1] THEN\n#2 = 1\nELSE\n#2 = 2\nENDIF\n" +
		"IF [#1 GT 2] GOTO 100\n" +
		"IF [#1 LT 0] THEN #3 = 0\n" +
		"N100 M30\n"
	res := parseSource(t, src)
	expectCodes(t, res)

	cond := "Conditional(Variable(Numeric) Operator Numeric)"
	asg := "Statement(Assignment(Variable(Numeric) Numeric))"
	wants := []string{
		"Statement(If(" + cond + " Then(" + asg + ") Else(" + asg + ")))",
		"Statement(If(" + cond + " Goto(Numeric)))",
		"Statement(If(" + cond + " ThenTerm(Assignment(Variable(Numeric) Numeric))))",
		"Statement(Sequence(Numeric) Code(Numeric))",
	}
	for i, want := range wants {
		if got := shape(res.Tree, nthChild(res.Tree, 0, i+1)); got != want {
			t.Errorf("statement %d:\n got: %s\nwant: %s", i, got, want)
		}
	}

	ifn := nthChild(res.Tree, 0, 1, 0)
	data, _ := ast.Data[*ast.IfData](res.Tree, ifn)
	if res.Tree.Get(data.Then).Kind != ast.KindThen || !data.Else.IsValid() {
		t.Fatalf("if payload = %+v", data)
	}
	// блок IF тянется до ENDIF
	if got := res.Tree.Text(ifn); got[len(got)-5:] != "ENDIF" {
		t.Fatalf("if text = %q", got)
	}
}

func TestMissingEndifStopsAtProgramBoundary(t *testing.T) {
	res := parseSource(t, "O1\nIF [#1 EQ 1] THEN\n#2=1\nO2\nM30\n")
	expectCodes(t, res, diag.SynExpectEndif)
	root := res.Tree.RootNode()
	if len(root.Children) != 2 {
		t.Fatalf("programs = %d, want 2: %s", len(root.Children), shape(res.Tree, res.Tree.Root))
	}
	if got := shape(res.Tree, root.Children[1]); got != "Program(Numeric Statement(Code(Numeric)))" {
		t.Fatalf("second program = %s", got)
	}
}

func TestWhileLoops(t *testing.T) {
	res := parseSource(t, "O2\nWHILE [#1 LT 10] DO1\n#1 = #1 + 1\nEND1\nDO2\nN5 END2\nM30\n")
	expectCodes(t, res)

	want := "Statement(While(Conditional(Variable(Numeric) Operator Numeric) Numeric " +
		"Statement(Assignment(Variable(Numeric) Binary(Variable(Numeric) Numeric))) Numeric))"
	if got := shape(res.Tree, nthChild(res.Tree, 0, 1)); got != want {
		t.Fatalf("while:\n got: %s\nwant: %s", got, want)
	}
	// DO без WHILE; N5 перед END остаётся в теле
	if got := shape(res.Tree, nthChild(res.Tree, 0, 2)); got != "Statement(While(Numeric Statement(Sequence(Numeric)) Numeric))" {
		t.Fatalf("do loop: %s", got)
	}
	w, _ := ast.Data[*ast.WhileData](res.Tree, nthChild(res.Tree, 0, 1, 0))
	if res.Tree.Text(w.Do) != "1" || res.Tree.Text(w.End) != "1" {
		t.Fatalf("do/end = %q/%q", res.Tree.Text(w.Do), res.Tree.Text(w.End))
	}
}

func TestNestedBlocksRecover(t *testing.T) {
	// END отсутствует: ENDIF закрывает IF, WHILE получает ошибку
	res := parseSource(t, "O1\nIF [#1 EQ 1] THEN\nWHILE [#2 LT 3] DO1\n#2=#2+1\nENDIF\nM30\n")
	expectCodes(t, res, diag.SynExpectEnd)
	if got := len(res.Tree.Get(nthChild(res.Tree, 0)).Children); got != 3 {
		t.Fatalf("program children = %d: %s", got, shape(res.Tree, res.Tree.Root))
	}
}

func TestConditionalChainIsRightLeaning(t *testing.T) {
	res := parseSource(t, "O1\nIF [1 EQ #1 && 2 EQ #1 || 3 EQ #1] THEN #2=1\n")
	expectCodes(t, res)

	ifd, _ := ast.Data[*ast.IfData](res.Tree, nthChild(res.Tree, 0, 1, 0))
	var logic []token.Kind
	links := 0
	for c := ifd.Cond; c.IsValid(); {
		cd, ok := ast.Data[*ast.ConditionalData](res.Tree, c)
		if !ok {
			t.Fatalf("chain link is %s", res.Tree.Get(c).Kind)
		}
		links++
		if cd.LogicOp.IsValid() {
			op, _ := ast.Data[*ast.OperatorData](res.Tree, cd.LogicOp)
			logic = append(logic, op.Op)
		}
		c = cd.Next
	}
	if links != 3 || !slices.Equal(logic, []token.Kind{token.AndAnd, token.OrOr}) {
		t.Fatalf("links=%d logic=%v", links, logic)
	}
}

func TestNestedConditionStartsChain(t *testing.T) {
	res := parseSource(t, "O1\nIF [[1 EQ #1 && 2 EQ #1] || 3 EQ #1] GOTO 5\nN5 M30\n")
	expectCodes(t, res)

	ifd, _ := ast.Data[*ast.IfData](res.Tree, nthChild(res.Tree, 0, 1, 0))
	head, ok := ast.Data[*ast.ConditionalData](res.Tree, ifd.Cond)
	if !ok {
		t.Fatalf("condition is %s", res.Tree.Get(ifd.Cond).Kind)
	}
	if head.CondOp.IsValid() || !head.LogicOp.IsValid() || !head.Next.IsValid() {
		t.Fatalf("unexpected head link %+v", head)
	}
	if k := res.Tree.Get(head.Left).Kind; k != ast.KindConditional {
		t.Fatalf("left operand is %s, want Conditional", k)
	}
}

func TestFunctionCalls(t *testing.T) {
	res := parseSource(t, "O1\n#1 = ATAN[#2]/[#3]\n#1 = ATAN[#2,#3]\n#1 = SIN[30] + ABS[-1]\nPOPEN\nDPRNT[X#100[53]]\nPCLOS\n")
	expectCodes(t, res)

	check := func(path []int, name string, argc, sig int, delim token.Kind) {
		t.Helper()
		f, ok := ast.Data[*ast.FfuncData](res.Tree, nthChild(res.Tree, path...))
		if !ok {
			t.Fatalf("%v is %s", path, res.Tree.Get(nthChild(res.Tree, path...)).Kind)
		}
		if f.Name != name || len(f.Args) != argc || f.MatchedSignature != sig || f.Delimiter != delim {
			t.Fatalf("%s: %+v", name, f)
		}
	}
	check([]int{0, 1, 0, 1}, "ATAN", 2, 0, token.Slash)
	check([]int{0, 2, 0, 1}, "ATAN", 2, 1, token.Comma)
	check([]int{0, 4, 0}, "POPEN", 0, 0, token.Comma)
	check([]int{0, 5, 0}, "DPRNT", 2, 0, token.Comma)

	if got := shape(res.Tree, nthChild(res.Tree, 0, 5)); got != "Statement(Ffunc(Text Variable(Numeric Numeric)))" {
		t.Fatalf("dprnt shape: %s", got)
	}
}

func TestUnknownSignatureIsAccepted(t *testing.T) {
	res := parseSource(t, "O1\n#1 = SIN[1,2]\n")
	expectCodes(t, res)
	f, _ := ast.Data[*ast.FfuncData](res.Tree, nthChild(res.Tree, 0, 1, 0, 1))
	if f.MatchedSignature != -1 {
		t.Fatalf("matched = %d", f.MatchedSignature)
	}
}

func TestParameterWithoutValue(t *testing.T) {
	res := parseSource(t, "O1\nX Y10 RATE\nFEED = 2\n")
	expectCodes(t, res)
	if got := shape(res.Tree, nthChild(res.Tree, 0, 1)); got != "Statement(Parameter(Address) Parameter(Address Numeric) Symbol)" {
		t.Fatalf("shape: %s", got)
	}
	sym := res.Tree.Get(nthChild(res.Tree, 0, 1, 2))
	if !sym.Ref.Has(ast.RefSymbol | ast.RefCode) {
		t.Fatalf("symbol ref = %v", sym.Ref)
	}
	target := res.Tree.Get(nthChild(res.Tree, 0, 2, 0, 0))
	if target.Kind != ast.KindSymbol || !target.Ref.Has(ast.RefVariable) {
		t.Fatalf("assignment target = %s %v", target.Kind, target.Ref)
	}
}

func TestBlockDeleteAndJumpLabel(t *testing.T) {
	res := parseSource(t, "O1\n/2 N LOOP G00\n/ X1\n")
	expectCodes(t, res)
	if got := shape(res.Tree, nthChild(res.Tree, 0, 1)); got != "Statement(BlockDelete(Numeric) JumpLabel(Label) Code(Numeric))" {
		t.Fatalf("shape: %s", got)
	}
	if got := shape(res.Tree, nthChild(res.Tree, 0, 2)); got != "Statement(BlockDelete Parameter(Address Numeric))" {
		t.Fatalf("shape: %s", got)
	}
	label := res.Tree.Get(nthChild(res.Tree, 0, 1, 1, 0))
	if label.Ref != ast.RefLabel|ast.RefJumpLabel {
		t.Fatalf("label ref = %v", label.Ref)
	}
}

func TestSyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []diag.Code
	}{
		{"statement outside program", "G01 X1\nO1\nM30\n", []diag.Code{diag.SynStatementOutsideProgram}},
		{"variable without assignment", "O1\n#1 2\n", []diag.Code{diag.SynExpectOperator}},
		{"unclosed condition", "O1\nIF [#1 EQ 1 THEN #2=1\n", []diag.Code{diag.SynUnclosedBracket}},
		{"if without then", "O1\nIF [#1 EQ 1] #2=1\n", []diag.Code{diag.SynExpectThenOrGoto}},
		{"stray endif", "O1\nENDIF\nM30\n", []diag.Code{diag.SynUnexpectedBlockEnd}},
		{"missing end", "O1\nWHILE [#1 LT 3] DO1\n#1=#1+1\n", []diag.Code{diag.SynExpectEnd}},
		{"missing do", "O1\nWHILE [#1 LT 3]\n", []diag.Code{diag.SynExpectDo}},
		{"program without number", "O\nM30\n", []diag.Code{diag.SynExpectProgramNumber}},
		{"missing expression", "O1\n#1 = \n", []diag.Code{diag.SynExpectExpression}},
		{"missing variable number", "O1\n#1 = # + 1\n", []diag.Code{diag.SynExpectIdentifier}},
		{"unexpected token", "O1\nG01 , X1\n", []diag.Code{diag.SynUnexpectedToken}},
		{"definition without name", "@ 100\nO1\n", []diag.Code{diag.SynExpectIdentifier}},
		{"definition without value", "@AA\nO1\n", []diag.Code{diag.SynExpectValue}},
		{"goto without target", "O1\nGOTO\n", []diag.Code{diag.SynExpectLabel}},
		{"unknown char", "O1\nG01 X1 ?\n", []diag.Code{diag.LexUnknownChar, diag.SynUnexpectedToken}},
		{"missing bracket", "O1\n#1 = SIN 30\n", []diag.Code{diag.SynUnexpectedToken, diag.SynExpectOpenBracket}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parseSource(t, tc.src)
			if !slices.Equal(codes(res.Markers), tc.want) {
				t.Fatalf("diagnostics: %s, want %v", diagnosticsSummary(res.Markers), tc.want)
			}
		})
	}
}

func TestMaxErrors(t *testing.T) {
	res, _ := ParseSource("t.src", "O1\nENDIF\nENDIF\nENDIF\n", source.KindProgram, Options{MaxErrors: 2})
	if len(res.Markers) != 2 {
		t.Fatalf("markers = %s", diagnosticsSummary(res.Markers))
	}
}

func TestReporterReceivesMarkers(t *testing.T) {
	bag := diag.NewBag(0)
	res, _ := ParseSource("t.src", "O1\nENDIF\n", source.KindProgram, Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() != 1 || len(res.Markers) != 1 {
		t.Fatalf("bag=%d markers=%d", bag.Len(), len(res.Markers))
	}
}

func TestParseIsIdempotent(t *testing.T) {
	src := "$INCLUDE defs.def\n@A 1\nG01\nO1\nN10 IF [#1 EQ A && #2 NE 1] THEN\nWHILE [#3 LT 3] DO1\n#3=#3+[1\nEND1\nENDIF\n" +
		"DPRNT[VALUE#3[52]\nGOTO 10 20\nO2\n/0 X Y-1.5 Z#[#1*2]\n"
	a := parseSource(t, src)
	b := parseSource(t, src)
	if !slices.Equal(a.Tree.Kinds(), b.Tree.Kinds()) {
		t.Fatalf("kinds differ")
	}
	if diagnosticsSummary(a.Markers) != diagnosticsSummary(b.Markers) {
		t.Fatalf("markers differ:\n%s\n%s", diagnosticsSummary(a.Markers), diagnosticsSummary(b.Markers))
	}
	if len(a.Markers) == 0 {
		t.Fatalf("expected some markers for broken input")
	}
}

func TestNodeAtOffsetOnParsedTree(t *testing.T) {
	res := parseSource(t, "O1\nX#100\n")
	path := res.Tree.NodePath(5)
	var kinds []ast.Kind
	for _, id := range path {
		kinds = append(kinds, res.Tree.Get(id).Kind)
	}
	want := []ast.Kind{ast.KindFile, ast.KindProgram, ast.KindStatement, ast.KindParameter, ast.KindVariable, ast.KindNumeric}
	if !slices.Equal(kinds, want) {
		t.Fatalf("path = %v", kinds)
	}
}
