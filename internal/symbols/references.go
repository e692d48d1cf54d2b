package symbols

import (
	"cncmacro/internal/ast"
	"cncmacro/internal/workspace"
)

// Reference is one occurrence of a symbol.
type Reference struct {
	URI  string
	Tree *ast.Tree
	Node ast.NodeID
}

// FindReferences resolves every file the provider knows and collects the
// nodes bound to sym, declaration name included. Files that fail to load are skipped.
func FindReferences(provider workspace.FileProvider, sym *Symbol) []Reference {
	if provider == nil || sym == nil {
		return nil
	}
	var out []Reference
	for _, uri := range provider.GetAll(nil) {
		doc, err := provider.Get(uri)
		if err != nil || doc == nil || doc.Tree == nil {
			continue
		}
		Resolve(doc, provider)
		tree := doc.Tree
		tree.Accept(tree.Root, func(id ast.NodeID, _ *ast.Node) bool {
			if MatchesSymbol(tree, id, sym) {
				out = append(out, Reference{URI: uri, Tree: tree, Node: id})
			}
			return true
		})
	}
	return out
}
