package lint

import (
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
)

var AnalyzerIncompleteParameter = &Analyzer{
	Code:     diag.LintIncompleteParameter,
	Severity: diag.SevError,
	Doc:      "An address letter is not followed by a value.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		each(tree, tree.Root, ast.KindParameter, func(id ast.NodeID, _ *ast.Node) {
			data, ok := ast.Data[*ast.ParameterData](tree, id)
			if ok && !data.Value.IsValid() {
				pass.ReportNode(id, "address "+tree.Text(data.Address)+" has no value")
			}
		})
	},
}

// AnalyzerBlockDeleteNumber: /n with n outside 1..9. Bare "/" is fine.
var AnalyzerBlockDeleteNumber = &Analyzer{
	Code:     diag.LintBlockDeleteNumber,
	Severity: diag.SevError,
	Doc:      "Block delete switches are numbered 1 to 9.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		each(tree, tree.Root, ast.KindBlockDelete, func(id ast.NodeID, _ *ast.Node) {
			data, ok := ast.Data[*ast.BlockDeleteData](tree, id)
			if !ok || !data.Number.IsValid() {
				return
			}
			v, ok := intValue(tree, data.Number)
			if !ok || v < 1 || v > 9 {
				pass.ReportNode(data.Number, "block delete number "+tree.Text(data.Number)+" out of range 1..9")
			}
		})
	},
}

// AnalyzerDuplicateAddress flags X1 X2 in one statement. G and M codes repeat freely.
var AnalyzerDuplicateAddress = &Analyzer{
	Code:     diag.LintDuplicateAddress,
	Severity: diag.SevWarning,
	Doc:      "The same address letter appears twice in one statement.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		each(tree, tree.Root, ast.KindStatement, func(stmt ast.NodeID, _ *ast.Node) {
			seen := make(map[string]ast.NodeID)
			for _, id := range tree.Children(stmt) {
				data, ok := ast.Data[*ast.ParameterData](tree, id)
				if !ok {
					continue
				}
				letter, ok := addressLetter(tree, data.Address)
				if !ok {
					continue
				}
				if first, dup := seen[letter]; dup {
					pass.ReportNode(data.Address, "address "+letter+" repeated in statement",
						diag.Note{Span: tree.Get(first).Span, Msg: "first used here"})
					continue
				}
				seen[letter] = data.Address
			}
		})
	},
}

// addressLetter returns the address letter of an Address node or of a symbol
// defined as an address.
func addressLetter(tree *ast.Tree, id ast.NodeID) (string, bool) {
	n := tree.Get(id)
	if n == nil {
		return "", false
	}
	switch {
	case n.Kind == ast.KindAddress:
	case n.Kind == ast.KindSymbol && n.ValueType() == ast.ValueAddress:
	default:
		return "", false
	}
	letter := strings.ToUpper(strings.TrimSpace(tree.ProgText(id)))
	if letter == "G" || letter == "M" || len(letter) != 1 {
		return "", false
	}
	return letter, true
}
