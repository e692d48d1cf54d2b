package lint

import (
	"strconv"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
)

func eachWhile(tree *ast.Tree, fn func(id ast.NodeID, data *ast.WhileData)) {
	each(tree, tree.Root, ast.KindWhile, func(id ast.NodeID, _ *ast.Node) {
		if data, ok := ast.Data[*ast.WhileData](tree, id); ok {
			fn(id, data)
		}
	})
}

// AnalyzerDoEndMismatch flags DOm ... ENDn with m != n, on both operands.
var AnalyzerDoEndMismatch = &Analyzer{
	Code:     diag.LintDoEndMismatch,
	Severity: diag.SevError,
	Doc:      "The number after END must repeat the number after DO.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		eachWhile(tree, func(_ ast.NodeID, data *ast.WhileData) {
			if !data.Do.IsValid() || !data.End.IsValid() {
				return
			}
			do, _ := valueKey(tree, data.Do)
			end, _ := valueKey(tree, data.End)
			if do == end {
				return
			}
			pass.ReportNode(data.Do, "DO "+do+" is closed by END "+end)
			pass.ReportNode(data.End, "END "+end+" does not match DO "+do)
		})
	},
}

var AnalyzerDoEndNumberTooBig = &Analyzer{
	Code:     diag.LintDoEndNumberTooBig,
	Severity: diag.SevError,
	Doc:      "DO and END numbers must be between 1 and " + strconv.Itoa(maxWhileDepth) + ".",
	Run: func(pass *Pass) {
		tree := pass.Tree
		check := func(id ast.NodeID, kw string) {
			v, ok := intValue(tree, id)
			if !ok {
				return
			}
			if v < 1 || v > maxWhileDepth {
				pass.ReportNode(id, kw+" number "+strconv.Itoa(v)+" out of range 1.."+strconv.Itoa(maxWhileDepth))
			}
		}
		eachWhile(tree, func(_ ast.NodeID, data *ast.WhileData) {
			check(data.Do, "DO")
			check(data.End, "END")
		})
	},
}

// AnalyzerNestingTooDeep flags each loop nested deeper than three levels.
var AnalyzerNestingTooDeep = &Analyzer{
	Code:     diag.LintNestingTooDeep,
	Severity: diag.SevError,
	Doc:      "Loops nest at most " + strconv.Itoa(maxWhileDepth) + " levels deep.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		eachWhile(tree, func(id ast.NodeID, data *ast.WhileData) {
			depth := 1
			ancestors(tree, id, func(_ ast.NodeID, n *ast.Node) bool {
				if n.Kind == ast.KindWhile {
					depth++
				}
				return true
			})
			if depth > maxWhileDepth {
				pass.Report(headSpan(tree, id, data.Do), "loop nested "+strconv.Itoa(depth)+
					" levels deep, at most "+strconv.Itoa(maxWhileDepth)+" allowed")
			}
		})
	},
}

// AnalyzerDuplicateDoNumber flags a DO number already used by an enclosing
// loop or by an earlier loop directly inside the same enclosing loop.
// Sequential loops at program level reuse DO1 freely and are not reported.
var AnalyzerDuplicateDoNumber = &Analyzer{
	Code:     diag.LintDuplicateDoNumber,
	Severity: diag.SevWarning,
	Doc:      "A loop reuses the DO number of a loop that encloses it or of an earlier loop in the same body.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		// enclosing loop -> DO number -> first DO node in its body
		siblings := make(map[ast.NodeID]map[string]ast.NodeID)
		eachWhile(tree, func(id ast.NodeID, data *ast.WhileData) {
			key, ok := valueKey(tree, data.Do)
			if !ok {
				return
			}
			reported := false
			ancestors(tree, id, func(_ ast.NodeID, n *ast.Node) bool {
				outer, isWhile := n.Payload.(*ast.WhileData)
				if !isWhile {
					return true
				}
				if k, ok := valueKey(tree, outer.Do); ok && k == key {
					pass.ReportNode(data.Do, "DO "+key+" is already used by an enclosing loop",
						diag.Note{Span: tree.Get(outer.Do).Span, Msg: "enclosing loop"})
					reported = true
					return false
				}
				return true
			})

			parent := tree.FindParent(id, ast.KindWhile)
			if !parent.IsValid() {
				return
			}
			used := siblings[parent]
			if used == nil {
				used = make(map[string]ast.NodeID)
				siblings[parent] = used
			}
			prev, seen := used[key]
			if !seen {
				used[key] = data.Do
				return
			}
			if !reported {
				pass.ReportNode(data.Do, "DO "+key+" is already used by an earlier loop in the same body",
					diag.Note{Span: tree.Get(prev).Span, Msg: "earlier loop"})
			}
		})
	},
}

// AnalyzerIfNestingTooDeep reports the first IF past the limit on each branch
// and does not descend below it.
var AnalyzerIfNestingTooDeep = &Analyzer{
	Code:     diag.LintIfNestingTooDeep,
	Severity: diag.SevError,
	Doc:      "IF statements nest at most " + strconv.Itoa(maxIfDepth) + " levels deep.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		var walk func(id ast.NodeID, depth int)
		walk = func(id ast.NodeID, depth int) {
			n := tree.Get(id)
			if data, ok := n.Payload.(*ast.IfData); ok {
				depth++
				if depth > maxIfDepth {
					pass.Report(headSpan(tree, id, data.Cond), "IF nested "+strconv.Itoa(depth)+
						" levels deep, at most "+strconv.Itoa(maxIfDepth)+" allowed")
					return
				}
			}
			for _, c := range n.Children {
				walk(c, depth)
			}
		}
		walk(tree.Root, 0)
	},
}
