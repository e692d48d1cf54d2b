package symbols

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/source"
	"cncmacro/internal/workspace"
)

// maxAliasDepth bounds @A B / @B C chains; cycles stop here.
const maxAliasDepth = 8

// Table aggregates scopes and symbols of one analysis request.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Global  ScopeID

	// Duplicates lists redeclarations in declaration order. The first
	// declaration of a name+ref pair stays in NameIndex.
	Duplicates []SymbolID
	// MissingIncludes are include nodes of the analyzed tree the provider could not resolve.
	MissingIncludes []ast.NodeID
	// Unresolved counts unresolvable includes at any depth.
	Unresolved int
	// Links records every resolved include directive, nested ones included.
	Links []IncludeLink
}

// IncludeLink is one resolved include: the path as written, the including
// file and the uri it resolved to.
type IncludeLink struct {
	Raw  string
	From string
	URI  string
}

// NewTable creates an empty table with a global scope owned by uri.
func NewTable(uri string, tree *ast.Tree) *Table {
	t := &Table{
		Scopes:  NewScopes(4),
		Symbols: NewSymbols(0),
	}
	owner := ScopeOwner{URI: uri}
	if tree != nil {
		owner.File = tree.File
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, owner)
	t.Scopes.Get(t.Global).Tree = tree
	return t
}

// Build declares the definitions of a single tree in a fresh global scope.
// Includes are not followed; see Resolve.
func Build(tree *ast.Tree) *Table {
	if tree == nil {
		panic("symbols.Build: nil tree")
	}
	t := NewTable(tree.Path, tree)
	t.declareAll(t.Global)
	t.chaseAliases()
	return t
}

// Resolve builds the full table for doc: its own definitions, one child
// scope per transitively included file, then binds every reference node
// of doc.Tree to its definition.
func Resolve(doc *workspace.Document, provider workspace.FileProvider) *Table {
	if doc == nil || doc.Tree == nil {
		panic("symbols.Resolve: nil document tree")
	}
	t := NewTable(doc.URI, doc.Tree)
	t.declareAll(t.Global)
	if provider != nil {
		visited := map[string]bool{doc.URI: true}
		t.followIncludes(t.Global, doc.URI, doc.Tree, provider, visited)
	}
	t.chaseAliases()
	t.Bind(doc.Tree)
	return t
}

func (t *Table) followIncludes(parent ScopeID, from string, tree *ast.Tree, provider workspace.FileProvider, visited map[string]bool) {
	tree.Accept(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind != ast.KindInclude {
			// include встречается только на верхнем уровне
			return n.Kind == ast.KindFile
		}
		inc, ok := n.Payload.(*ast.IncludeData)
		if !ok || inc.Path == "" {
			return false
		}
		uri, err := provider.ResolveInclude(inc.Path, from)
		var doc *workspace.Document
		if err == nil {
			doc, err = provider.Get(uri)
		}
		if err != nil || doc == nil || doc.Tree == nil {
			t.Unresolved++
			if parent == t.Global {
				t.MissingIncludes = append(t.MissingIncludes, id)
			}
			return false
		}
		t.Links = append(t.Links, IncludeLink{Raw: inc.Path, From: from, URI: uri})
		if visited[uri] {
			return false
		}
		visited[uri] = true
		scope := t.Scopes.New(ScopeInclude, parent, ScopeOwner{URI: uri, File: doc.Tree.File, Include: id})
		t.Scopes.Get(scope).Tree = doc.Tree
		t.declareAll(scope)
		t.followIncludes(scope, uri, doc.Tree, provider, visited)
		return false
	})
}

func (t *Table) declareAll(scopeID ScopeID) {
	scope := t.Scopes.Get(scopeID)
	tree := scope.Tree
	if tree == nil {
		return
	}
	tree.Accept(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Kind.IsDefinition() {
			t.declare(scopeID, tree, id)
			return false
		}
		// определения живут на верхнем уровне файла
		return n.Kind == ast.KindFile
	})
}

func (t *Table) declare(scopeID ScopeID, tree *ast.Tree, id ast.NodeID) {
	def, ok := ast.Data[*ast.DefinitionData](tree, id)
	if !ok || !def.Name.IsValid() {
		return
	}
	nameNode := tree.Get(def.Name)
	sym := &Symbol{
		Name:      tree.Text(def.Name),
		Ref:       ast.RefSymbol,
		ValueType: valueTypeOf(tree, def.Value),
		Scope:     scopeID,
		Decl: SymbolDecl{
			File:      tree.File,
			Node:      id,
			NameNode:  def.Name,
			ValueNode: def.Value,
			NameSpan:  nameNode.Span,
		},
	}
	if tree.Get(id).Kind == ast.KindLabelDefinition {
		sym.Ref = ast.RefLabel
	}
	if v := tree.Get(def.Value); v != nil {
		sym.Value = tree.Text(def.Value)
		sym.Decl.ValueSpan = v.Span
		if v.Kind == ast.KindSymbol {
			sym.Flags |= SymbolFlagAlias
		}
	}
	scope := t.Scopes.Get(scopeID)
	symID := t.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, symID)
	for _, prev := range scope.NameIndex[sym.Name] {
		if t.Symbols.Get(prev).Ref == sym.Ref {
			t.Symbols.Get(symID).Flags |= SymbolFlagDuplicate
			t.Duplicates = append(t.Duplicates, symID)
			return
		}
	}
	scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], symID)
}

// chaseAliases copies the type and value of the last symbol in each chain.
func (t *Table) chaseAliases() {
	for _, sym := range t.Symbols.All() {
		if sym.Flags&SymbolFlagAlias == 0 {
			continue
		}
		target := sym
		for range maxAliasDepth {
			if target.Flags&SymbolFlagAlias == 0 {
				break
			}
			next := t.Lookup(target.Value, ast.RefSymbol)
			if next == nil || next == sym {
				break
			}
			target = next
		}
		if target != sym && target.Flags&SymbolFlagAlias == 0 {
			sym.ValueType = target.ValueType
			sym.Value = target.Value
			sym.Decl.ValueSpan = target.Decl.ValueSpan
		}
	}
}

// Bind attaches definitions to every reference node of tree. Prog of a bound
// node becomes the span of the definition value; unbound nodes get Prog = Span.
func (t *Table) Bind(tree *ast.Tree) {
	tree.Accept(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if !n.IsReference() || (n.Kind != ast.KindSymbol && n.Kind != ast.KindLabel) {
			return true
		}
		n.Def = nil
		n.Prog = n.Span
		sym := t.Lookup(tree.Text(id), n.Ref)
		if sym == nil {
			return true
		}
		n.Def = sym.Definition()
		if sym.Decl.ValueSpan != (source.Span{}) {
			n.Prog = sym.Decl.ValueSpan
		}
		return true
	})
}

// Lookup returns the first visible symbol named name whose tags intersect ref.
func (t *Table) Lookup(name string, ref ast.RefType) *Symbol {
	for _, scopeID := range t.searchOrder() {
		if id := t.lookupIn(t.Scopes.Get(scopeID), name, ref); id.IsValid() {
			return t.Symbols.Get(id)
		}
	}
	return nil
}

// TreeOf returns the tree a symbol was declared in.
func (t *Table) TreeOf(sym *Symbol) *ast.Tree {
	if sym == nil {
		return nil
	}
	if scope := t.Scopes.Get(sym.Scope); scope != nil {
		return scope.Tree
	}
	return nil
}
