package lint

import (
	"strconv"

	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/token"
)

// chainHeads returns Conditional nodes that start a chain: those not reached
// through another link's Next.
func chainHeads(tree *ast.Tree, root ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	each(tree, root, ast.KindConditional, func(id ast.NodeID, n *ast.Node) {
		if prev, ok := ast.Data[*ast.ConditionalData](tree, n.Parent); ok && prev.Next == id {
			return
		}
		out = append(out, id)
	})
	return out
}

// chain lists the links starting at head.
func chain(tree *ast.Tree, head ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for cur := head; cur.IsValid(); {
		data, ok := ast.Data[*ast.ConditionalData](tree, cur)
		if !ok {
			break
		}
		out = append(out, cur)
		cur = data.Next
	}
	return out
}

func logicOp(tree *ast.Tree, link ast.NodeID) (ast.NodeID, token.Kind) {
	data, ok := ast.Data[*ast.ConditionalData](tree, link)
	if !ok || !data.LogicOp.IsValid() {
		return ast.NoNodeID, token.Invalid
	}
	op, ok := ast.Data[*ast.OperatorData](tree, data.LogicOp)
	if !ok {
		return ast.NoNodeID, token.Invalid
	}
	return data.LogicOp, op.Op
}

// AnalyzerMixedConditionals flags every logic operator of a chain that
// differs from the first one: [a && b || c] reports the ||.
var AnalyzerMixedConditionals = &Analyzer{
	Code:     diag.LintMixedConditionals,
	Severity: diag.SevError,
	Doc:      "&& and || are mixed at one bracket level; use nested brackets.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		for _, head := range chainHeads(tree, tree.Root) {
			first, firstText := token.Invalid, ""
			for _, link := range chain(tree, head) {
				opID, op := logicOp(tree, link)
				if !opID.IsValid() {
					continue
				}
				if first == token.Invalid {
					first, firstText = op, tree.Text(opID)
					continue
				}
				if op != first {
					pass.ReportNode(opID, "mixed logical operators: '"+tree.Text(opID)+"' after '"+firstText+"'; group with brackets")
				}
			}
		}
	},
}

var AnalyzerTooManyConditionals = &Analyzer{
	Code:     diag.LintTooManyConditionals,
	Severity: diag.SevError,
	Doc:      "A condition chains more than " + strconv.Itoa(maxConditions) + " comparisons.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		for _, head := range chainHeads(tree, tree.Root) {
			links := chain(tree, head)
			if len(links) > maxConditions {
				pass.ReportNode(links[maxConditions], "too many conditions: "+strconv.Itoa(len(links))+
					" chained, at most "+strconv.Itoa(maxConditions)+" allowed")
			}
		}
	},
}

// AnalyzerWhileLogicOperator flags && and || anywhere in a WHILE condition.
var AnalyzerWhileLogicOperator = &Analyzer{
	Code:     diag.LintWhileLogicOperator,
	Severity: diag.SevError,
	Doc:      "WHILE conditions accept a single comparison; && and || are not supported.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		each(tree, tree.Root, ast.KindWhile, func(id ast.NodeID, _ *ast.Node) {
			data, ok := ast.Data[*ast.WhileData](tree, id)
			if !ok || !data.Cond.IsValid() {
				return
			}
			each(tree, data.Cond, ast.KindConditional, func(link ast.NodeID, _ *ast.Node) {
				if opID, _ := logicOp(tree, link); opID.IsValid() {
					pass.ReportNode(opID, "logical operator '"+tree.Text(opID)+"' is not allowed in a WHILE condition")
				}
			})
		})
	},
}
