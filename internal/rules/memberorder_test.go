package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/syntax"
)

func TestMemberOrderReportsAndFixes(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Field(priv, "int", "_count"),
		syntax.Property(pub, "int", "Value"),
	)))
	ds := analyze(t, tree, nil, MemberOrder{})
	require.Len(t, ds, 1)
	assert.Equal(t, diag.StyMemberOrder, ds[0].Code)
	assert.Equal(t, []string{"Value", "public properties", "private fields"}, ds[0].Args)
	assert.Equal(t, "member 'Value' (public properties) must be declared before 'private fields'", ds[0].Message)
	assert.Equal(t, "Value", textAt(tree, ds[0]))

	fixed := fix.FixOne(tree, nil, ds[0], NewFixRegistry())
	assert.Equal(t, "public class Player\n{\n"+
		"    public int Value { get; set; }\n"+
		"    private int _count;\n"+
		"}\n", fixed.Render())
	assert.Empty(t, analyze(t, fixed, nil, MemberOrder{}))
}

func TestMemberOrderOneReorderPerType(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(priv, "void", "Helper", syntax.Stmts(syntax.Return(nil))),
		syntax.Field(priv, "int", "_count"),
		syntax.Property(pub, "int", "Value"),
	)))
	ds := analyze(t, tree, nil, MemberOrder{})
	require.Len(t, ds, 2)

	res, err := fix.Apply(tree, nil, ds, NewFixRegistry(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	assert.False(t, res.Applied[0].Sequential)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "already resolved", res.Skipped[0].Reason)
	assert.Empty(t, analyze(t, res.Tree, nil, MemberOrder{}))
}

func TestMemberOrderMixedBatch(t *testing.T) {
	// порядок и тело метода меняются в одном проходе
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Field(priv, "int", "_count"),
		syntax.Method(pub, "int", "GetValue", syntax.Stmts(syntax.Return(syntax.Ident("_count")))),
		syntax.Property(pub, "int", "Value"),
	)))
	ds := analyze(t, tree, nil, MemberOrder{}, ExpressionBody{})
	require.Len(t, ds, 2)

	res, err := fix.Apply(tree, nil, ds, NewFixRegistry(), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 2)
	assert.Equal(t, "public class Player\n{\n"+
		"    public int Value { get; set; }\n"+
		"    private int _count;\n"+
		"    public int GetValue() => _count;\n"+
		"}\n", res.Tree.Render())
}
