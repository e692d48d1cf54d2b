package symbols

import (
	"slices"

	"cncmacro/internal/ast"
)

// SymbolGroup holds the symbols of one file in declaration order.
type SymbolGroup struct {
	URI     string
	Symbols []*Symbol
}

// FindSymbols enumerates visible symbols whose tags intersect ref, optionally
// filtered by value type. Names are de-duplicated: the global scope is searched
// first, then included scopes in include order, and the first occurrence wins.
func (t *Table) FindSymbols(ref ast.RefType, valueTypes ...ast.ValueType) []SymbolGroup {
	seen := make(map[string]bool)
	var out []SymbolGroup
	for _, scopeID := range t.searchOrder() {
		scope := t.Scopes.Get(scopeID)
		group := SymbolGroup{URI: scope.Owner.URI}
		for _, id := range scope.Symbols {
			sym := t.Symbols.Get(id)
			if sym.Flags&SymbolFlagDuplicate != 0 || !sym.Ref.Intersects(ref) {
				continue
			}
			if len(valueTypes) > 0 && !slices.Contains(valueTypes, sym.ValueType) {
				continue
			}
			if seen[sym.Name] {
				continue
			}
			seen[sym.Name] = true
			group.Symbols = append(group.Symbols, sym)
		}
		if len(group.Symbols) > 0 {
			out = append(out, group)
		}
	}
	return out
}

// FindSymbolFromNode resolves a use-site node by name and intersecting tags.
// Returns nil for non-reference nodes and undeclared names.
func (t *Table) FindSymbolFromNode(tree *ast.Tree, id ast.NodeID) *Symbol {
	n := tree.Get(id)
	if n == nil || !n.IsReference() {
		return nil
	}
	return t.Lookup(tree.Text(id), n.Ref)
}

// MatchesSymbol reports whether node id of tree denotes sym.
// The node must be bound (see Table.Bind).
func MatchesSymbol(tree *ast.Tree, id ast.NodeID, sym *Symbol) bool {
	n := tree.Get(id)
	if n == nil || n.Def == nil || sym == nil {
		return false
	}
	return n.Def.File == sym.Decl.File &&
		n.Def.Node == sym.Decl.Node &&
		n.Def.NameSpan == sym.Decl.NameSpan
}

// Includes lists the uris of all included files in scope order.
func (t *Table) Includes() []string {
	var out []string
	for _, scope := range t.Scopes.All() {
		if scope.Kind == ScopeInclude {
			out = append(out, scope.Owner.URI)
		}
	}
	return out
}
