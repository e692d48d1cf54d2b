package symbols

import (
	"fmt"
	"slices"
)

// Validate performs integrity checks over the table. Intended for tests and debugging.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("nil table")
	}
	if t.Scopes == nil || t.Symbols == nil {
		return fmt.Errorf("table arenas are not initialised")
	}
	if t.Scopes.Get(t.Global) == nil {
		return fmt.Errorf("global scope %d missing", t.Global)
	}
	for scopeID, scope := range t.Scopes.All() {
		if scope.Parent.IsValid() {
			parent := t.Scopes.Get(scope.Parent)
			if parent == nil {
				return fmt.Errorf("scope %d: parent %d missing", scopeID, scope.Parent)
			}
			if !slices.Contains(parent.Children, scopeID) {
				return fmt.Errorf("scope %d: parent %d lacks child link", scopeID, scope.Parent)
			}
		} else if scopeID != t.Global {
			return fmt.Errorf("scope %d: orphan %s scope", scopeID, scope.Kind)
		}
		for name, ids := range scope.NameIndex {
			for _, id := range ids {
				sym := t.Symbols.Get(id)
				if sym == nil {
					return fmt.Errorf("scope %d: name %q refers to missing symbol %d", scopeID, name, id)
				}
				if sym.Name != name {
					return fmt.Errorf("scope %d: symbol %d indexed as %q but named %q", scopeID, id, name, sym.Name)
				}
				if sym.Scope != scopeID {
					return fmt.Errorf("symbol %d: scope mismatch (%d vs %d)", id, sym.Scope, scopeID)
				}
				if sym.Flags&SymbolFlagDuplicate != 0 {
					return fmt.Errorf("symbol %d: duplicate %q present in name index", id, name)
				}
			}
		}
	}
	for _, id := range t.Duplicates {
		sym := t.Symbols.Get(id)
		if sym == nil || sym.Flags&SymbolFlagDuplicate == 0 {
			return fmt.Errorf("duplicate list entry %d is not flagged", id)
		}
	}
	return nil
}
