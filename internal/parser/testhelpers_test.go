package parser

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/source"
	"cncmacro/internal/testkit"
)

func parseSource(t *testing.T, text string) Result {
	t.Helper()
	return parseKind(t, text, source.KindProgram)
}

func parseKind(t *testing.T, text string, kind source.FileKind) Result {
	t.Helper()
	res, fs := ParseSource("test.src", text, kind, Options{})
	if err := testkit.CheckSpanInvariants(res.Tree, fs.Get(res.Tree.File)); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return res
}

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func codes(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func expectCodes(t *testing.T, res Result, want ...diag.Code) {
	t.Helper()
	if !slices.Equal(codes(res.Markers), want) {
		t.Fatalf("diagnostics: %s, want %v", diagnosticsSummary(res.Markers), want)
	}
}

// shape печатает поддерево как Kind(child child ...).
func shape(tree *ast.Tree, id ast.NodeID) string {
	n := tree.Get(id)
	if n == nil {
		return "<nil>"
	}
	if len(n.Children) == 0 {
		return n.Kind.String()
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = shape(tree, c)
	}
	return n.Kind.String() + "(" + strings.Join(parts, " ") + ")"
}

// nthChild идёт по цепочке индексов детей от корня.
func nthChild(tree *ast.Tree, path ...int) ast.NodeID {
	id := tree.Root
	for _, i := range path {
		id = tree.Get(id).Children[i]
	}
	return id
}
