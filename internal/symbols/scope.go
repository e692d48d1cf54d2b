package symbols

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // the analyzed file
	ScopeInclude           // a file reached through $INCLUDE, transitively
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeInclude:
		return "include"
	default:
		return "invalid"
	}
}

// ScopeOwner references the document a scope was built from.
type ScopeOwner struct {
	URI     string
	File    source.FileID
	Include ast.NodeID // $INCLUDE node in the including file
}

// Scope is the flat symbol list of one file.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Tree      *ast.Tree
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID // declaration order
	Children  []ScopeID
}

// lookupIn searches one scope. Duplicates never enter NameIndex.
func (t *Table) lookupIn(scope *Scope, name string, ref ast.RefType) SymbolID {
	for _, id := range scope.NameIndex[name] {
		if t.Symbols.Get(id).Ref.Intersects(ref) {
			return id
		}
	}
	return NoSymbolID
}

// searchOrder is the global scope, then includes in pre-order.
func (t *Table) searchOrder() []ScopeID {
	var out []ScopeID
	var walk func(id ScopeID)
	walk = func(id ScopeID) {
		scope := t.Scopes.Get(id)
		if scope == nil {
			return
		}
		out = append(out, id)
		for _, c := range scope.Children {
			walk(c)
		}
	}
	walk(t.Global)
	return out
}
