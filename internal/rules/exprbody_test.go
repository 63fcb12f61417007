package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/fix"
	"convlint/internal/syntax"
)

func TestExpressionBodyCandidates(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "int", "GetValue", syntax.Stmts(syntax.Return(syntax.Ident("_count")))),
		syntax.Method(pub, "void", "Tick", syntax.Stmts(syntax.Stmt(syntax.Call(syntax.Ident("Step"))))),
		syntax.Method(pub, "void", "Twice", syntax.Stmts(
			syntax.Stmt(syntax.Call(syntax.Ident("Step"))),
			syntax.Stmt(syntax.Call(syntax.Ident("Step"))),
		)),
		syntax.Method(priv, "int", "Hidden", syntax.Stmts(syntax.Return(syntax.Ident("_count")))),
		syntax.Method(pub, "void", "Dispose", syntax.Stmts(syntax.Stmt(syntax.Call(syntax.Ident("Release"))))),
		syntax.Method(pub, "void", "Dispose", syntax.Params(syntax.Param("bool", "disposing")),
			syntax.Stmts(syntax.Stmt(syntax.Call(syntax.Ident("Release"))))),
		syntax.Method(pub, "string", "Label", syntax.Stmts(
			syntax.Return(syntax.SwitchOn(syntax.Ident("_state"), `_ => ""`)))),
		syntax.Method(pub, "int", "Already", syntax.ArrowBody(syntax.Lit("1"))),
		syntax.Method(pub, "void", "Bare", syntax.Stmts(syntax.Return(nil))),
		syntax.Method(pub|syntax.ModAbstract, "void", "Abstract", syntax.NoBody()),
		syntax.Method(pub, "void", "Empty"),
	)))

	ds := analyze(t, tree, nil, ExpressionBody{})
	assert.Equal(t, []string{
		"method 'GetValue' has a single statement; write it with an expression body (=>)",
		"method 'Tick' has a single statement; write it with an expression body (=>)",
		"method 'Dispose' has a single statement; write it with an expression body (=>)",
	}, messages(ds))
	assert.Equal(t, "GetValue", textAt(tree, ds[0]))
}

func TestToExpressionBodyFix(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "int", "GetValue", syntax.Stmts(syntax.Return(syntax.Ident("_count")))),
		syntax.Method(pub, "void", "Tick", syntax.Params(syntax.Param("float", "dt")),
			syntax.Stmts(syntax.Stmt(syntax.Call(syntax.Ident("Step"), syntax.Ident("dt"))))),
	)))
	ds := analyze(t, tree, nil, ExpressionBody{})
	require.Len(t, ds, 2)

	res, err := fix.Apply(tree, nil, ds, fix.NewRegistry(ToExpressionBody{}), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 2)
	assert.Equal(t, "public class Player\n{\n"+
		"    public int GetValue() => _count;\n"+
		"    public void Tick(float dt) => Step(dt);\n"+
		"}\n", res.Tree.Render())

	assert.Empty(t, analyze(t, res.Tree, nil, ExpressionBody{}))
}

// constrained inserts "where T : class" between the parameter list and the body.
func constrained(b syntax.Builder) syntax.Builder {
	return func(l syntax.Layout) *syntax.Node {
		n := b(l)
		at := len(n.Children) - 1
		params := n.Children[at-1].WithTrailingTrivia(syntax.Space(" "))
		where := syntax.Tok("where T : class")
		where.Trailing = []syntax.Trivia{syntax.EOL()}
		children := append([]*syntax.Node{}, n.Children[:at-1]...)
		children = append(children, params, where, n.Children[at])
		return n.WithChildren(children...)
	}
}

// commented puts a line comment above a statement.
func commented(b syntax.Builder, text string) syntax.Builder {
	return func(l syntax.Layout) *syntax.Node {
		n := b(l)
		n.Leading = append([]syntax.Trivia{syntax.Space(l.Indent), syntax.LineComment(text), syntax.EOL()}, n.Leading...)
		return n
	}
}

func TestToExpressionBodyKeepsConstraintClause(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Pool",
		constrained(syntax.Method(pub, "T", "Get", syntax.Stmts(syntax.Return(syntax.Lit("default"))))),
	)))
	ds := analyze(t, tree, nil, ExpressionBody{})
	require.Len(t, ds, 1)

	out := fix.FixOne(tree, nil, ds[0], fix.NewRegistry(ToExpressionBody{}))
	assert.Equal(t, "public class Pool\n{\n"+
		"    public T Get() where T : class => default;\n"+
		"}\n", out.Render())
}

func TestToExpressionBodyKeepsBlockComments(t *testing.T) {
	cached := syntax.Ident("_count")
	cached.Leading = []syntax.Trivia{{Kind: syntax.TriviaBlockComment, Text: "/* cached */"}, syntax.Space(" ")}
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "int", "GetValue", syntax.Stmts(commented(syntax.Return(cached), "why"))),
	)))
	ds := analyze(t, tree, nil, ExpressionBody{})
	require.Len(t, ds, 1)

	out := fix.FixOne(tree, nil, ds[0], fix.NewRegistry(ToExpressionBody{}))
	assert.Equal(t, "public class Player\n{\n"+
		"    public int GetValue() // why\n"+
		"        /* cached */ => _count;\n"+
		"}\n", out.Render())
	assert.Empty(t, analyze(t, out, nil, ExpressionBody{}))
}

func TestToExpressionBodyRefusesDirectives(t *testing.T) {
	guarded := func(b syntax.Builder) syntax.Builder {
		return func(l syntax.Layout) *syntax.Node {
			n := b(l)
			n.Leading = append([]syntax.Trivia{{Kind: syntax.TriviaDirective, Text: "#if UNITY_EDITOR"}, syntax.EOL()}, n.Leading...)
			return n
		}
	}
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Method(pub, "void", "Tick", syntax.Stmts(guarded(syntax.Stmt(syntax.Call(syntax.Ident("Step")))))),
	)))
	ds := analyze(t, tree, nil, ExpressionBody{})
	require.Len(t, ds, 1)

	_, ok := ToExpressionBody{}.Plan(tree, nil, ds[0])
	assert.False(t, ok)
}
