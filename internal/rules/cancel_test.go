package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/diag"
	"convlint/internal/fix"
	"convlint/internal/syntax"
)

func call(recv, name string, args ...*syntax.Node) *syntax.Node {
	return syntax.Call(syntax.Dot(syntax.Ident(recv), name), args...)
}

func cancelTree(stmts ...syntax.Builder) *syntax.Tree {
	return newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "void", "Stop", syntax.Stmts(stmts...)),
	)))
}

func TestGuardedCancelMatches(t *testing.T) {
	tree := cancelTree(
		syntax.If(call("_handle", "IsActive"), syntax.Stmt(call("_handle", "Cancel"))),
		syntax.If(call("_fade", "IsActive"), syntax.Block(syntax.Stmt(call("_fade", "Cancel")))),
	)
	ds := analyze(t, tree, nil, GuardedCancel{})
	require.Len(t, ds, 2)
	assert.Equal(t, []string{"_handle"}, ds[0].Args)
	assert.Equal(t, "if (_handle.IsActive()) _handle.Cancel();", textAt(tree, ds[0]))
	assert.Equal(t, []string{"_fade"}, ds[1].Args)
	assert.Equal(t, diag.DsnGuardedCancel, ds[1].Code)
}

func TestGuardedCancelMismatches(t *testing.T) {
	tree := cancelTree(
		syntax.If(call("_handle1", "IsActive"), syntax.Stmt(call("_handle2", "Cancel"))),
		syntax.IfElse(call("_handle", "IsActive"), syntax.Stmt(call("_handle", "Cancel")), syntax.Stmt(call("_handle", "Complete"))),
		syntax.If(call("_handle", "IsActive"), syntax.Stmt(call("_handle", "Cancel", syntax.Lit("true")))),
		syntax.If(call("_handle", "IsPlaying"), syntax.Stmt(call("_handle", "Cancel"))),
		syntax.If(call("_handle", "IsActive"), syntax.Block(
			syntax.Stmt(call("_handle", "Cancel")),
			syntax.Stmt(call("_handle", "Cancel")),
		)),
		syntax.If(call("_handle", "IsActive"), syntax.Return(nil)),
	)
	assert.Empty(t, analyze(t, tree, nil, GuardedCancel{}))
}

func TestTryCancelFixKeepsTrivia(t *testing.T) {
	root := syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "void", "Stop", syntax.Stmts(
			syntax.Stmt(call("_log", "Write")),
			syntax.If(call("_handle", "IsActive"), syntax.Stmt(call("_handle", "Cancel"))),
		)),
	))
	ifStmt := find(root, syntax.KindIf, "")
	require.NotNil(t, ifStmt)
	ifStmt.Leading = []syntax.Trivia{syntax.Space("        "), syntax.LineComment("// stop tween"), syntax.EOL(), syntax.Space("        ")}
	ifStmt.Trailing = []syntax.Trivia{syntax.Space(" "), syntax.LineComment("// done"), syntax.EOL()}
	tree := newTree(root)

	ds := analyze(t, tree, nil, GuardedCancel{})
	require.Len(t, ds, 1)

	fixed := fix.FixOne(tree, nil, ds[0], fix.NewRegistry(TryCancel{}))
	assert.Equal(t, "public class Player\n{\n"+
		"    public void Stop()\n"+
		"    {\n"+
		"        _log.Write();\n"+
		"        // stop tween\n"+
		"        _handle.TryCancel(); // done\n"+
		"    }\n"+
		"}\n", fixed.Render())

	again := fix.FixOne(fixed, nil, ds[0], fix.NewRegistry(TryCancel{}))
	assert.Same(t, fixed, again, "stale diagnostic is a no-op")
}
