package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

const (
	pub  = syntax.ModPublic
	priv = syntax.ModPrivate
	path = "Assets/Scripts/Player.cs"
)

func newTree(root *syntax.Node) *syntax.Tree {
	return syntax.NewTree(1, path, root)
}

// analyze runs dets over tree the way the CLI does and returns the sorted
// diagnostics.
func analyze(t *testing.T, tree *syntax.Tree, m semantic.Model, dets ...analysis.Detector) []diag.Diagnostic {
	t.Helper()
	reg := analysis.NewRegistry().MustRegister(dets...)
	res, err := analysis.NewEngine(reg, analysis.WithJobs(1)).Run(context.Background(), tree, m)
	require.NoError(t, err)
	res.Bag.Sort()
	return res.Bag.Items()
}

func ref(name string, id semantic.SymbolID) *syntax.Node {
	n := syntax.Ident(name)
	n.Ref = uint32(id)
	return n
}

// declare adds sym to tbl with the identifier of decl as its location.
func declare(t *testing.T, tree *syntax.Tree, tbl *semantic.Table, decl *syntax.Node, sym *semantic.Symbol) {
	t.Helper()
	sp, ok := tree.SpanOf(syntax.Identifier(decl))
	require.True(t, ok, "declaration %s is not in the tree", decl.Name)
	if sym.Name == "" {
		sym.Name = decl.Name
	}
	sym.Locations = append(sym.Locations, semantic.Location{Path: tree.Path, Span: sp})
	require.NoError(t, tbl.Add(sym))
}

// find returns the first node of kind named name.
func find(root *syntax.Node, kind syntax.Kind, name string) *syntax.Node {
	var out *syntax.Node
	syntax.Walk(root, func(p syntax.Path) bool {
		n := p.Node()
		if out == nil && n.Kind == kind && n.Name == name {
			out = n
		}
		return out == nil
	})
	return out
}

func textAt(tree *syntax.Tree, d diag.Diagnostic) string {
	return tree.Render()[d.Primary.Start:d.Primary.End]
}

func messages(ds []diag.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}
