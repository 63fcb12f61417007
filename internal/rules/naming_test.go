package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

func namingFixture(t *testing.T) (*syntax.Tree, *semantic.Table) {
	t.Helper()
	root := syntax.Unit(syntax.Class(pub, "Player",
		syntax.Field(priv, "int", "health", syntax.Attrs("SerializeField")),
		syntax.Field(priv, "int", "_speed", syntax.Attrs("SerializeField")),
		syntax.Field(priv|syntax.ModConst, "int", "Max"),
		syntax.Field(priv|syntax.ModStatic, "int", "shared"),
		syntax.Field(priv, "int", "count"),
		syntax.Field(priv, "int", "_ok"),
		syntax.Field(pub, "int", "Value"),
		syntax.Field(priv, "int", "backing"),
	))
	tree := newTree(root)
	tbl := semantic.NewTable()
	add := func(id semantic.SymbolID, name string, sym semantic.Symbol) {
		sym.ID = id
		sym.Kind = semantic.SymbolField
		if sym.Accessibility == semantic.AccessNotApplicable {
			sym.Accessibility = semantic.AccessPrivate
		}
		declare(t, tree, tbl, find(root, syntax.KindField, name), &sym)
	}
	add(1, "health", semantic.Symbol{Attributes: []string{"SerializeField"}})
	add(2, "_speed", semantic.Symbol{Attributes: []string{"UnityEngine.SerializeFieldAttribute"}})
	add(3, "Max", semantic.Symbol{Const: true})
	add(4, "shared", semantic.Symbol{Static: true})
	add(5, "count", semantic.Symbol{})
	add(6, "_ok", semantic.Symbol{})
	add(7, "Value", semantic.Symbol{Accessibility: semantic.AccessPublic})
	add(8, "backing", semantic.Symbol{Implicit: true})
	return tree, tbl
}

func TestNamingPrefixRules(t *testing.T) {
	tree, tbl := namingFixture(t)
	ds := analyze(t, tree, tbl, Naming{})
	require.Len(t, ds, 2)

	assert.Equal(t, diag.NamSerializedPrefix, ds[0].Code)
	assert.Equal(t, []string{"_speed"}, ds[0].Args)
	assert.Equal(t, "_speed", textAt(tree, ds[0]))

	assert.Equal(t, diag.NamPrivatePrefix, ds[1].Code)
	assert.Equal(t, []string{"count"}, ds[1].Args)
	assert.Equal(t, "add a '_' prefix to private field 'count'", ds[1].Message)
}

func TestNamingWithoutModel(t *testing.T) {
	tree, _ := namingFixture(t)
	assert.Empty(t, analyze(t, tree, nil, Naming{}))
}

func TestRenameFieldFix(t *testing.T) {
	tree, tbl := namingFixture(t)
	ds := analyze(t, tree, tbl, Naming{})
	reg := fix.NewRegistry(RenameField{})

	res, err := fix.Apply(tree, tbl, ds, reg, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.ErrorIs(t, err, fix.ErrNoFixes)
	require.Len(t, res.Skipped, 2)
	assert.Equal(t, "applicability is manual-review", res.Skipped[0].Reason)

	res, err = fix.Apply(tree, tbl, ds, reg, fix.ApplyOptions{Mode: fix.ApplyModeAll, AllowManual: true})
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, "remove '_' prefix: rename to 'speed'", res.Applied[0].Title)
	assert.Equal(t, "add '_' prefix: rename to '_count'", res.Applied[1].Title)

	out := res.Tree.Render()
	assert.Contains(t, out, "[SerializeField] private int speed;")
	assert.Contains(t, out, "private int _count;")
	assert.NotContains(t, out, "_speed")

	for _, f := range syntax.Members(res.Tree.Root.Children[0]) {
		assert.Equal(t, f.Name, syntax.Identifier(f).Text)
	}
}

func TestRenamedNames(t *testing.T) {
	got, ok := renamed(diag.NamSerializedPrefix, "__health")
	assert.True(t, ok)
	assert.Equal(t, "health", got)

	_, ok = renamed(diag.NamSerializedPrefix, "health")
	assert.False(t, ok)
	_, ok = renamed(diag.NamSerializedPrefix, "__")
	assert.False(t, ok)
	_, ok = renamed(diag.NamPrivatePrefix, "_count")
	assert.False(t, ok)
	_, ok = renamed(diag.DsnInfo, "x")
	assert.False(t, ok)
}

// declarators appends ", name" declarators to a field before its ';'.
func declarators(b syntax.Builder, names ...string) syntax.Builder {
	return func(l syntax.Layout) *syntax.Node {
		n := b(l)
		at := len(n.Children) - 1
		children := append([]*syntax.Node{}, n.Children[:at]...)
		for _, name := range names {
			comma := syntax.Tok(",")
			comma.Trailing = []syntax.Trivia{syntax.Space(" ")}
			children = append(children, comma, syntax.Ident(name))
		}
		children = append(children, n.Children[at])
		return n.WithChildren(children...)
	}
}

func TestRenameFieldMultipleDeclarators(t *testing.T) {
	root := syntax.Unit(syntax.Class(pub, "Player",
		declarators(syntax.Field(priv, "int", "a"), "b"),
	))
	tree := newTree(root)
	field := find(root, syntax.KindField, "a")
	require.Len(t, field.Children, 6)
	second := field.Children[4]
	require.Equal(t, "b", second.Text)

	tbl := semantic.NewTable()
	declare(t, tree, tbl, field, &semantic.Symbol{ID: 1, Kind: semantic.SymbolField, Accessibility: semantic.AccessPrivate})
	sp, ok := tree.SpanOf(second)
	require.True(t, ok)
	require.NoError(t, tbl.Add(&semantic.Symbol{
		ID: 2, Name: "b", Kind: semantic.SymbolField, Accessibility: semantic.AccessPrivate,
		Locations: []semantic.Location{{Path: tree.Path, Span: sp}},
	}))

	ds := analyze(t, tree, tbl, Naming{})
	require.Len(t, ds, 2)
	assert.Equal(t, "add a '_' prefix to private field 'b'", ds[1].Message)

	reg := fix.NewRegistry(RenameField{})
	one := fix.FixOne(tree, tbl, ds[1], reg)
	assert.Contains(t, one.Render(), "private int a, _b;")

	res, err := fix.Apply(tree, tbl, ds, reg, fix.ApplyOptions{Mode: fix.ApplyModeAll, AllowManual: true})
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	assert.Empty(t, res.Skipped)
	assert.Contains(t, res.Tree.Render(), "private int _a, _b;")

	renamedField := syntax.Members(res.Tree.Root.Children[0])[0]
	assert.Equal(t, "_a", renamedField.Name)
	assert.Equal(t, "_a", syntax.Identifier(renamedField).Text)
}
