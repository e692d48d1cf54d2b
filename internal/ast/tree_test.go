package ast

import (
	"slices"
	"testing"

	"cncmacro/internal/diag"
	"cncmacro/internal/source"
)

func newTestTree(t *testing.T, text string) (*Tree, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.src", []byte(text)))
	return NewTree(f, fs), fs
}

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestAddChildGrowsAncestors(t *testing.T) {
	tree, _ := newTestTree(t, "N10 G01 X10\n")
	stmt := tree.New(KindStatement, span(0, 3), &StatementData{})
	tree.AddChild(tree.Root, stmt)

	code := tree.New(KindCode, span(4, 7), &CodeData{Letter: 'G'})
	tree.AddChild(stmt, code)
	if got := tree.Get(stmt).Span; got != span(0, 7) {
		t.Fatalf("statement span = %v", got)
	}
	if got := tree.Get(stmt).Prog; got != span(0, 7) {
		t.Fatalf("prog span did not follow: %v", got)
	}

	// спаны не сжимаются
	tree.Extend(stmt, span(1, 2))
	if got := tree.Get(stmt).Span; got != span(0, 7) {
		t.Fatalf("span shrank: %v", got)
	}
}

func TestAdoptChildMovesNode(t *testing.T) {
	tree, _ := newTestTree(t, "ABCDEFGH")
	a := tree.New(KindStatement, span(0, 2), nil)
	b := tree.New(KindStatement, span(4, 6), nil)
	x := tree.New(KindNumeric, span(1, 2), nil)
	tree.AddChild(tree.Root, a)
	tree.AddChild(tree.Root, b)
	tree.AddChild(a, x)

	tree.AdoptChild(b, x)
	if len(tree.Get(a).Children) != 0 {
		t.Fatalf("old parent still owns child")
	}
	if tree.Get(x).Parent != b || !slices.Equal(tree.Get(b).Children, []NodeID{x}) {
		t.Fatalf("child not adopted")
	}
	if got := tree.Get(b).Span; got != span(1, 6) {
		t.Fatalf("new parent span = %v", got)
	}
}

func TestAcceptPrunes(t *testing.T) {
	tree, _ := newTestTree(t, "0123456789")
	p := tree.New(KindProgram, span(0, 5), nil)
	s := tree.New(KindStatement, span(1, 3), nil)
	n := tree.New(KindNumeric, span(1, 2), nil)
	tree.AddChild(tree.Root, p)
	tree.AddChild(p, s)
	tree.AddChild(s, n)

	var seen []Kind
	tree.Accept(tree.Root, func(_ NodeID, node *Node) bool {
		seen = append(seen, node.Kind)
		return node.Kind != KindStatement
	})
	want := []Kind{KindFile, KindProgram, KindStatement}
	if !slices.Equal(seen, want) {
		t.Fatalf("visited %v, want %v", seen, want)
	}
}

func TestFindParent(t *testing.T) {
	tree, _ := newTestTree(t, "0123456789")
	w := tree.New(KindWhile, span(0, 9), nil)
	s := tree.New(KindStatement, span(1, 8), nil)
	i := tree.New(KindIf, span(2, 7), nil)
	tree.AddChild(tree.Root, w)
	tree.AddChild(w, s)
	tree.AddChild(s, i)

	if got := tree.FindParent(i, KindWhile); got != w {
		t.Fatalf("FindParent = %d, want %d", got, w)
	}
	if got := tree.FindAnyParent(i, KindProgram, KindStatement); got != s {
		t.Fatalf("FindAnyParent = %d, want %d", got, s)
	}
	if got := tree.FindParent(i, KindProgram); got.IsValid() {
		t.Fatalf("unexpected parent %d", got)
	}
}

func TestNodeAtOffsetPrefersNarrowestAndLater(t *testing.T) {
	tree, _ := newTestTree(t, "X10Y20")
	stmt := tree.New(KindStatement, span(0, 6), nil)
	x := tree.New(KindAddress, span(0, 1), nil)
	ten := tree.New(KindNumeric, span(1, 3), nil)
	tree.AddChild(tree.Root, stmt)
	tree.AddChild(stmt, x)
	tree.AddChild(stmt, ten)

	if got := tree.NodeAtOffset(0); got != x {
		t.Fatalf("offset 0 -> %d, want address %d", got, x)
	}
	// граница X|10: оба содержат offset 1, побеждает более поздний
	if got := tree.NodeAtOffset(1); got != ten {
		t.Fatalf("offset 1 -> %d, want numeric %d", got, ten)
	}
	if got := tree.NodeAtOffset(5); got != stmt {
		t.Fatalf("offset 5 -> %d, want statement %d", got, stmt)
	}

	path := tree.NodePath(2)
	if !slices.Equal(path, []NodeID{tree.Root, stmt, ten}) {
		t.Fatalf("path = %v", path)
	}
}

func TestTextAndProgText(t *testing.T) {
	tree, _ := newTestTree(t, "@RATE 100\nX RATE")
	sym := tree.NewRef(KindSymbol, span(12, 16), RefSymbol, nil)
	tree.AddChild(tree.Root, sym)
	n := tree.Get(sym)
	n.Def = &Definition{Name: "RATE", ValueType: ValueNumber, ValueSpan: span(6, 9), Ref: RefSymbol}
	n.Prog = n.Def.ValueSpan

	if tree.Text(sym) != "RATE" || tree.ProgText(sym) != "100" {
		t.Fatalf("text=%q prog=%q", tree.Text(sym), tree.ProgText(sym))
	}
	if !n.IsReference() || n.DefType() != RefSymbol || !n.ValueType().IsConstant() {
		t.Fatalf("reference accessors wrong: %+v", n)
	}
}

func TestMarkersInPreOrder(t *testing.T) {
	tree, _ := newTestTree(t, "0123")
	a := tree.New(KindStatement, span(0, 1), nil)
	tree.AddChild(tree.Root, a)
	tree.AddMarker(a, diag.NewError(diag.SynUnexpectedToken, span(0, 1), "first"))
	tree.AddMarker(tree.Root, diag.NewError(diag.SynExpectNewline, span(2, 3), "root"))

	ms := tree.Markers()
	if len(ms) != 2 || ms[0].Message != "root" || ms[1].Message != "first" {
		t.Fatalf("markers = %+v", ms)
	}
}

func TestRefTypeString(t *testing.T) {
	r := RefLabel | RefJumpLabel
	if r.String() != "label|jumpLabel" {
		t.Fatalf("got %q", r.String())
	}
	if !r.Intersects(RefLabel|RefSymbol) || r.Intersects(RefSymbol) {
		t.Fatal("Intersects mismatch")
	}
}
