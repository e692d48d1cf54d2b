package lint

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/diag"
	"cncmacro/internal/symbols"
)

// AnalyzerDuplicateDeclaration flags the second and later declaration of a
// name with the same reference type in the analyzed file.
var AnalyzerDuplicateDeclaration = &Analyzer{
	Code:     diag.LintDuplicateDeclaration,
	Severity: diag.SevError,
	Doc:      "A symbol or label is declared more than once. The first declaration is used.",
	Run: func(pass *Pass) {
		t := pass.Table
		for _, id := range t.Duplicates {
			sym := t.Symbols.Get(id)
			if sym.Scope != t.Global {
				continue
			}
			var notes []diag.Note
			if first := t.Lookup(sym.Name, sym.Ref); first != nil && first.Decl.File == sym.Decl.File {
				notes = append(notes, diag.Note{Span: first.Decl.NameSpan, Msg: "first declared here"})
			}
			kind := "symbol"
			if sym.Ref == ast.RefLabel {
				kind = "label"
			}
			pass.Report(sym.Decl.NameSpan, "duplicate "+kind+" declaration '"+sym.Name+"'", notes...)
		}
	},
}

// AnalyzerShadowedDeclaration flags a declaration of the analyzed file that
// hides one with the same name from an included file.
var AnalyzerShadowedDeclaration = &Analyzer{
	Code:     diag.LintShadowedDeclaration,
	Severity: diag.SevWarning,
	Doc:      "A declaration hides one from an included file. The local declaration is used.",
	Run: func(pass *Pass) {
		t := pass.Table
		global := t.Scopes.Get(t.Global)
		for _, id := range global.Symbols {
			sym := t.Symbols.Get(id)
			if sym.Flags&symbols.SymbolFlagDuplicate != 0 {
				continue
			}
			hidden := shadowedBy(t, sym)
			if hidden == nil {
				continue
			}
			pass.Report(sym.Decl.NameSpan, "'"+sym.Name+"' hides the declaration from an included file",
				diag.Note{Span: hidden.Decl.NameSpan, Msg: "included declaration"})
		}
	},
}

// shadowedBy returns the first include declaration with the name and
// reference type of sym, in include order.
func shadowedBy(t *symbols.Table, sym *symbols.Symbol) *symbols.Symbol {
	for _, scope := range t.Scopes.All() {
		if scope.Kind != symbols.ScopeInclude {
			continue
		}
		for _, id := range scope.NameIndex[sym.Name] {
			if other := t.Symbols.Get(id); other.Ref == sym.Ref {
				return other
			}
		}
	}
	return nil
}

var AnalyzerDuplicateProgramNumber = &Analyzer{
	Code:     diag.LintDuplicateProgramNumber,
	Severity: diag.SevWarning,
	Doc:      "Two programs in one file share a program number.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		seen := make(map[string]ast.NodeID)
		for _, prog := range programs(tree) {
			data, ok := ast.Data[*ast.ProgramData](tree, prog)
			if !ok || !data.Number.IsValid() {
				continue
			}
			key, _ := valueKey(tree, data.Number)
			if first, dup := seen[key]; dup {
				pass.ReportNode(data.Number, "duplicate program number O"+key,
					diag.Note{Span: tree.Get(first).Span, Msg: "first used here"})
				continue
			}
			seen[key] = data.Number
		}
	},
}

// AnalyzerUnknownSymbol flags symbol and label uses with no visible declaration.
var AnalyzerUnknownSymbol = &Analyzer{
	Code:     diag.LintUnknownSymbol,
	Severity: diag.SevError,
	Doc:      "A name is used but neither the file nor its includes declare it.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		tree.Accept(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
			if (n.Kind == ast.KindSymbol || n.Kind == ast.KindLabel) && n.IsReference() && n.Def == nil {
				pass.ReportNode(id, "unknown "+n.Ref.String()+" '"+tree.Text(id)+"'")
			}
			return true
		})
	},
}

var AnalyzerIncludeNotFound = &Analyzer{
	Code:     diag.LintIncludeNotFound,
	Severity: diag.SevError,
	Doc:      "An $INCLUDE path cannot be resolved relative to the file or the include paths.",
	Run: func(pass *Pass) {
		for _, id := range pass.Table.MissingIncludes {
			inc, ok := ast.Data[*ast.IncludeData](pass.Tree, id)
			if !ok {
				continue
			}
			sp := inc.PathSpan
			if sp.Empty() {
				sp = pass.Tree.Get(id).Span
			}
			pass.Report(sp, "cannot resolve include '"+inc.Path+"'")
		}
	},
}

// AnalyzerAssignmentToConstant flags NAME = expr where NAME is a numeric constant.
var AnalyzerAssignmentToConstant = &Analyzer{
	Code:     diag.LintAssignmentToConstant,
	Severity: diag.SevWarning,
	Doc:      "The left side of an assignment is a symbol defined as a plain number.",
	Run: func(pass *Pass) {
		tree := pass.Tree
		each(tree, tree.Root, ast.KindAssignment, func(id ast.NodeID, _ *ast.Node) {
			data, ok := ast.Data[*ast.AssignmentData](tree, id)
			if !ok {
				return
			}
			target := tree.Get(data.Target)
			if target == nil || target.Kind != ast.KindSymbol || target.Def == nil {
				return
			}
			if target.ValueType().IsConstant() {
				pass.ReportNode(data.Target, "assignment to constant '"+tree.Text(data.Target)+"' ("+target.Def.Value+")")
			}
		})
	},
}
