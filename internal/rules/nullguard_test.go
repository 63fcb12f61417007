package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

func TestNullGuardShapes(t *testing.T) {
	const health, count, speed = 1, 2, 3
	tbl := semantic.NewTable().MustAdd(
		&semantic.Symbol{ID: health, Kind: semantic.SymbolField, Name: "health", Attributes: []string{"SerializeField"}},
		&semantic.Symbol{ID: count, Kind: semantic.SymbolField, Name: "_count"},
		&semantic.Symbol{ID: speed, Kind: semantic.SymbolLocal, Name: "speed", Attributes: []string{"SerializeField"}},
	)
	ret := syntax.Return(nil)
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "void", "Run", syntax.Stmts(
			syntax.If(syntax.BinaryExpr(ref("health", health), "==", syntax.Null()), ret),
			syntax.If(syntax.BinaryExpr(syntax.Null(), "!=", ref("health", health)), ret),
			syntax.Stmt(syntax.Call(syntax.CondAccess(ref("health", health), "Play"))),
			syntax.Stmt(syntax.Assign(syntax.Ident("x"), syntax.BinaryExpr(ref("health", health), "??", syntax.Ident("fallback")))),
			syntax.If(syntax.IsNull(ref("health", health), false), ret),
			syntax.If(syntax.IsNull(ref("health", health), true), ret),
			// не совпадает
			syntax.If(syntax.BinaryExpr(ref("_count", count), "==", syntax.Null()), ret),
			syntax.If(syntax.BinaryExpr(ref("speed", speed), "==", syntax.Null()), ret),
			syntax.If(syntax.BinaryExpr(syntax.Ident("other"), "==", syntax.Null()), ret),
			syntax.If(syntax.BinaryExpr(ref("health", health), "==", syntax.Ident("other")), ret),
			syntax.If(syntax.BinaryExpr(ref("health", health), "<", syntax.Lit("3")), ret),
		)),
	)))

	ds := analyze(t, tree, tbl, NullGuard{})
	require.Len(t, ds, 6)
	want := []string{
		"health == null",
		"null != health",
		"health?.Play",
		"health ?? fallback",
		"health is null",
		"health is not null",
	}
	for i, d := range ds {
		assert.Equal(t, want[i], textAt(tree, d))
		assert.Equal(t, []string{"health"}, d.Args)
	}
}

func TestNullGuardUnresolved(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "void", "Run", syntax.Stmts(
			syntax.If(syntax.BinaryExpr(ref("health", 9), "==", syntax.Null()), syntax.Return(nil)),
		)),
	)))
	assert.Empty(t, analyze(t, tree, nil, NullGuard{}))
	assert.Empty(t, analyze(t, tree, semantic.NewTable(), NullGuard{}))
}
