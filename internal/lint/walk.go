package lint

import (
	"strconv"
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/source"
)

const (
	maxConditions = 4
	maxWhileDepth = 3
	maxIfDepth    = 10
)

// programs returns the Program nodes of the file in source order.
func programs(tree *ast.Tree) []ast.NodeID {
	var out []ast.NodeID
	for _, id := range tree.Children(tree.Root) {
		if tree.Get(id).Kind == ast.KindProgram {
			out = append(out, id)
		}
	}
	return out
}

// each вызывает fn для всех узлов вида kind в поддереве root.
func each(tree *ast.Tree, root ast.NodeID, kind ast.Kind, fn func(id ast.NodeID, n *ast.Node)) {
	tree.Accept(root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind == kind {
			fn(id, n)
		}
		return true
	})
}

// numberKey normalizes numeric text so that 0100, 100 and 100. compare equal.
func numberKey(text string) (string, bool) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text, false
	}
	return strconv.FormatFloat(v, 'f', -1, 64), true
}

// valueKey is the substituted numeric value of a node, if any.
func valueKey(tree *ast.Tree, id ast.NodeID) (string, bool) {
	if !id.IsValid() {
		return "", false
	}
	return numberKey(tree.ProgText(id))
}

// intValue reads the substituted value of a node as an integer.
func intValue(tree *ast.Tree, id ast.NodeID) (int, bool) {
	key, ok := valueKey(tree, id)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(key)
	return v, err == nil
}

// headSpan covers a statement from its first token to the end of upto.
func headSpan(tree *ast.Tree, id, upto ast.NodeID) source.Span {
	n := tree.Get(id)
	sp := source.Span{File: n.Span.File, Start: n.Span.Start, End: n.Span.Start}
	if u := tree.Get(upto); u != nil && u.Span.File == sp.File && u.Span.End > sp.Start {
		sp.End = u.Span.End
	}
	return sp
}

// ancestors walks parent links from id (exclusive) to the root.
func ancestors(tree *ast.Tree, id ast.NodeID, fn func(id ast.NodeID, n *ast.Node) bool) {
	for cur := tree.Get(id).Parent; cur.IsValid(); {
		n := tree.Get(cur)
		if !fn(cur, n) {
			return
		}
		cur = n.Parent
	}
}
