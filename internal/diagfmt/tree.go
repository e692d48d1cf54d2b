package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"cncmacro/internal/ast"
	"cncmacro/internal/source"
)

// TreeNodeOutput - узел дерева в JSON-дампе.
type TreeNodeOutput struct {
	Kind     string           `json:"kind"`
	Span     source.Span      `json:"span"`
	Text     string           `json:"text,omitempty"`
	Ref      string           `json:"ref,omitempty"`
	Def      *DefinitionJSON  `json:"def,omitempty"`
	Markers  []string         `json:"markers,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty"`
}

type DefinitionJSON struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	ValueType string `json:"value_type"`
}

// FormatTreePretty печатает дерево с рамками ├─ / └─.
func FormatTreePretty(w io.Writer, tree *ast.Tree, fs *source.FileSet) error {
	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("tree has no root")
	}
	fmt.Fprintf(w, "%s (span: %s)\n", tree.Path, formatSpan(root.Span, fs))
	for i, c := range root.Children {
		writeNode(w, tree, fs, c, "", i == len(root.Children)-1)
	}
	return nil
}

func writeNode(w io.Writer, tree *ast.Tree, fs *source.FileSet, id ast.NodeID, prefix string, last bool) {
	n := tree.Get(id)
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(tree, fs, id, n))
	for _, m := range n.Markers {
		fmt.Fprintf(w, "%s%s! %s %s\n", prefix, next, m.Code.ID(), m.Message)
	}
	for i, c := range n.Children {
		writeNode(w, tree, fs, c, prefix+next, i == len(n.Children)-1)
	}
}

func nodeLabel(tree *ast.Tree, fs *source.FileSet, id ast.NodeID, n *ast.Node) string {
	var b strings.Builder
	b.WriteString(n.Kind.String())
	if len(n.Children) == 0 {
		fmt.Fprintf(&b, " %q", tree.Text(id))
	}
	if n.IsReference() {
		fmt.Fprintf(&b, " [%s]", n.Ref)
	}
	if n.Def != nil {
		fmt.Fprintf(&b, " -> %s = %q (%s)", n.Def.Name, n.Def.Value, n.Def.ValueType)
	}
	fmt.Fprintf(&b, " (span: %s)", formatSpan(n.Span, fs))
	return b.String()
}

// BuildTreeOutput converts the subtree at id into its JSON shape.
func BuildTreeOutput(tree *ast.Tree, id ast.NodeID) TreeNodeOutput {
	n := tree.Get(id)
	out := TreeNodeOutput{
		Kind: n.Kind.String(),
		Span: n.Span,
	}
	if len(n.Children) == 0 {
		out.Text = tree.Text(id)
	}
	if n.IsReference() {
		out.Ref = n.Ref.String()
	}
	if n.Def != nil {
		out.Def = &DefinitionJSON{Name: n.Def.Name, Value: n.Def.Value, ValueType: n.Def.ValueType.String()}
	}
	for _, m := range n.Markers {
		out.Markers = append(out.Markers, m.Code.ID()+" "+m.Message)
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, BuildTreeOutput(tree, c))
	}
	return out
}

func FormatTreeJSON(w io.Writer, tree *ast.Tree) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(tree, tree.Root))
}
