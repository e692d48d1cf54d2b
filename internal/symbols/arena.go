package symbols

import (
	"iter"

	"cncmacro/internal/ast"
)

// ScopeID indexes Scopes; 0 means none.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID indexes Symbols; 0 means none.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Scopes is the scope arena of one table.
type Scopes struct {
	arena *ast.Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{arena: ast.NewArena[Scope](capHint)}
}

// New allocates a scope and links it as a child of parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner ScopeOwner) ScopeID {
	id := ScopeID(s.arena.Allocate(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		NameIndex: make(map[string][]SymbolID),
	}))
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

func (s *Scopes) Get(id ScopeID) *Scope { return s.arena.Get(uint32(id)) }

func (s *Scopes) Len() int { return int(s.arena.Len()) }

// All yields scopes in allocation order.
func (s *Scopes) All() iter.Seq2[ScopeID, *Scope] {
	return func(yield func(ScopeID, *Scope) bool) {
		for i := uint32(1); i <= s.arena.Len(); i++ {
			if !yield(ScopeID(i), s.arena.Get(i)) {
				return
			}
		}
	}
}

// Symbols is the symbol arena of one table.
type Symbols struct {
	arena *ast.Arena[Symbol]
}

func NewSymbols(capHint uint) *Symbols {
	if capHint == 0 {
		capHint = 32
	}
	return &Symbols{arena: ast.NewArena[Symbol](capHint)}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return SymbolID(s.arena.Allocate(*sym))
}

func (s *Symbols) Get(id SymbolID) *Symbol { return s.arena.Get(uint32(id)) }

func (s *Symbols) Len() int { return int(s.arena.Len()) }

// All yields symbols in declaration order across every scope.
func (s *Symbols) All() iter.Seq2[SymbolID, *Symbol] {
	return func(yield func(SymbolID, *Symbol) bool) {
		for i := uint32(1); i <= s.arena.Len(); i++ {
			if !yield(SymbolID(i), s.arena.Get(i)) {
				return
			}
		}
	}
}
