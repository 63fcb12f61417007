package fix

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/diag"
	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
)

// renameIdent rewrites the identifier the diagnostic points at.
type renameIdent struct {
	code diag.Code
	to   string
	app  Applicability
}

func (f renameIdent) Codes() []diag.Code              { return []diag.Code{f.code} }
func (f renameIdent) Title(diag.Diagnostic) string     { return "rename to " + f.to }
func (f renameIdent) Applicability() Applicability     { return f.app }
func (f renameIdent) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (Edit, bool) {
	path, ok := Anchor(t, d)
	if !ok || path.Node().Kind != syntax.KindIdentifier {
		return Edit{}, false
	}
	n := path.Node()
	return Replace(n, n.WithText(f.to)), true
}

// renameClass rewrites the enclosing class, so its target covers every member.
type renameClass struct{ to string }

func (renameClass) Codes() []diag.Code              { return []diag.Code{diag.StyMemberOrder} }
func (f renameClass) Title(diag.Diagnostic) string   { return "rename class to " + f.to }
func (renameClass) Applicability() Applicability     { return AlwaysSafe }
func (f renameClass) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (Edit, bool) {
	path, ok := Nearest(t, d, syntax.KindClass)
	if !ok {
		return Edit{}, false
	}
	return Replace(path.Node(), path.Node().WithName(f.to)), true
}

// dropFirst removes the first member of the enclosing class.
type dropFirst struct{}

func (dropFirst) Codes() []diag.Code            { return []diag.Code{diag.StyMemberOrder} }
func (dropFirst) Title(diag.Diagnostic) string   { return "drop first member" }
func (dropFirst) Applicability() Applicability   { return AlwaysSafe }
func (dropFirst) Plan(t *syntax.Tree, _ semantic.Model, d diag.Diagnostic) (Edit, bool) {
	path, ok := Nearest(t, d, syntax.KindClass)
	if !ok {
		return Edit{}, false
	}
	class := path.Node()
	repl, ok := class.WithMembers(syntax.Members(class)[1:])
	if !ok {
		return Edit{}, false
	}
	return Replace(class, repl), true
}

// never claims a code but cannot plan anything.
type never struct{}

func (never) Codes() []diag.Code                                              { return []diag.Code{diag.DocEnumMember} }
func (never) Title(diag.Diagnostic) string                                     { return "never" }
func (never) Applicability() Applicability                                     { return AlwaysSafe }
func (never) Plan(*syntax.Tree, semantic.Model, diag.Diagnostic) (Edit, bool) { return Edit{}, false }

func fixture() (*syntax.Tree, *syntax.Node) {
	root := syntax.Unit(syntax.Class(syntax.ModPublic, "Player",
		syntax.Field(syntax.ModPrivate, "int", "count"),
		syntax.Field(syntax.ModPrivate, "int", "speed"),
	))
	return syntax.NewTree(1, "Player.cs", root), root.Children[0]
}

func identOf(class *syntax.Node, member int) *syntax.Node {
	if member < 0 {
		return syntax.Identifier(class)
	}
	return syntax.Identifier(syntax.Members(class)[member])
}

func diagAt(t *testing.T, tree *syntax.Tree, n *syntax.Node, code diag.Code) diag.Diagnostic {
	t.Helper()
	sp, ok := tree.SpanOf(n)
	require.True(t, ok)
	return diag.Diagnostic{Severity: diag.SevWarning, Code: code, Message: code.Title(), Primary: sp}
}

func TestApplyAllBatchesDisjointEdits(t *testing.T) {
	tree, class := fixture()
	diags := []diag.Diagnostic{
		diagAt(t, tree, identOf(class, 1), diag.NamPrivatePrefix),
		diagAt(t, tree, identOf(class, 0), diag.NamSerializedPrefix),
	}
	reg := NewRegistry(
		renameIdent{code: diag.NamPrivatePrefix, to: "_speed"},
		renameIdent{code: diag.NamSerializedPrefix, to: "_count"},
	)

	res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll})
	require.NoError(t, err)
	assert.Equal(t, "public class Player\n{\n    private int _count;\n    private int _speed;\n}\n", res.Tree.Render())
	require.Len(t, res.Applied, 2)
	assert.Equal(t, "rename to _count", res.Applied[0].Title, "applied in source order")
	assert.False(t, res.Applied[0].Sequential)
	assert.False(t, res.Applied[1].Sequential)
	assert.Empty(t, res.Skipped)

	assert.Equal(t, "public class Player\n{\n    private int count;\n    private int speed;\n}\n", tree.Render(), "input tree is untouched")
}

func TestApplyConflictReplansSequentially(t *testing.T) {
	tree, class := fixture()
	diags := []diag.Diagnostic{
		diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix),
		diagAt(t, tree, identOf(class, -1), diag.StyMemberOrder),
	}
	reg := NewRegistry(renameIdent{code: diag.NamPrivatePrefix, to: "_count"}, renameClass{to: "Hero"})

	res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll})
	require.NoError(t, err)
	assert.Equal(t, "public class Hero\n{\n    private int _count;\n    private int speed;\n}\n", res.Tree.Render())
	require.Len(t, res.Applied, 2)
	assert.Equal(t, diag.StyMemberOrder, res.Applied[0].Code)
	assert.False(t, res.Applied[0].Sequential)
	assert.Equal(t, diag.NamPrivatePrefix, res.Applied[1].Code)
	assert.True(t, res.Applied[1].Sequential)
}

func TestApplyStaleAnchorSkipped(t *testing.T) {
	tree, class := fixture()
	diags := []diag.Diagnostic{
		diagAt(t, tree, identOf(class, -1), diag.StyMemberOrder),
		diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix),
	}
	reg := NewRegistry(dropFirst{}, renameIdent{code: diag.NamPrivatePrefix, to: "_count"})

	res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll})
	require.NoError(t, err)
	assert.Equal(t, "public class Player\n{\n    private int speed;\n}\n", res.Tree.Render())
	require.Len(t, res.Applied, 1)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "stale anchor", res.Skipped[0].Reason)
}

func TestApplyLogsSkippedReplay(t *testing.T) {
	tree, class := fixture()
	diags := []diag.Diagnostic{
		diagAt(t, tree, identOf(class, -1), diag.StyMemberOrder),
		diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix),
	}
	reg := NewRegistry(dropFirst{}, renameIdent{code: diag.NamPrivatePrefix, to: "_count"})
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll, Logger: logger})
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "fixes planned", entries[0].Message)
	assert.Equal(t, 1, entries[0].Data["deferred"])
	assert.Equal(t, "replayed fix skipped", entries[1].Message)
	assert.Equal(t, "stale anchor", entries[1].Data["reason"])
	assert.Equal(t, tree.Path, entries[1].Data["path"])
}

func TestApplyModes(t *testing.T) {
	tree, class := fixture()
	diags := []diag.Diagnostic{
		diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix),
		diagAt(t, tree, identOf(class, 1), diag.NamSerializedPrefix),
	}
	reg := NewRegistry(
		renameIdent{code: diag.NamPrivatePrefix, to: "_count", app: ManualReview},
		renameIdent{code: diag.NamSerializedPrefix, to: "_speed"},
	)

	t.Run("once prefers always-safe", func(t *testing.T) {
		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeOnce})
		require.NoError(t, err)
		require.Len(t, res.Applied, 1)
		assert.Equal(t, "rename to _speed", res.Applied[0].Title)
	})

	t.Run("all skips manual review", func(t *testing.T) {
		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll})
		require.NoError(t, err)
		require.Len(t, res.Applied, 1)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, "applicability is manual-review", res.Skipped[0].Reason)
	})

	t.Run("all with manual", func(t *testing.T) {
		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll, AllowManual: true})
		require.NoError(t, err)
		assert.Len(t, res.Applied, 2)
	})

	t.Run("by id", func(t *testing.T) {
		cands, _ := Candidates(tree, nil, diags, reg)
		require.Len(t, cands, 2)
		assert.Equal(t, "NAM2002-1-38-0", cands[0].ID)

		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeID, TargetID: cands[0].ID})
		require.NoError(t, err)
		require.Len(t, res.Applied, 1)
		assert.Equal(t, cands[0].ID, res.Applied[0].ID)
		assert.Equal(t, ManualReview, res.Applied[0].Applicability)
	})

	t.Run("unknown id", func(t *testing.T) {
		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeID, TargetID: "NAM2002-9-9-9"})
		assert.ErrorIs(t, err, ErrNoFixes)
		require.Len(t, res.Skipped, 1)
		assert.Equal(t, "fix id not found", res.Skipped[0].Reason)
		assert.Same(t, tree, res.Tree)
	})

	t.Run("code filter", func(t *testing.T) {
		res, err := Apply(tree, nil, diags, reg, ApplyOptions{Mode: ApplyModeAll, AllowManual: true, Codes: []diag.Code{diag.NamSerializedPrefix}})
		require.NoError(t, err)
		require.Len(t, res.Applied, 1)
		assert.Equal(t, diag.NamSerializedPrefix, res.Applied[0].Code)
	})
}

func TestCandidatesSkipReasons(t *testing.T) {
	tree, class := fixture()
	good := diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix)
	other := good
	other.Primary.File = 2
	moved := good
	moved.Primary = source.Span{File: 1, Start: 0, End: 3}
	same := diagAt(t, tree, identOf(class, 1), diag.NamSerializedPrefix)
	unplannable := diagAt(t, tree, identOf(class, 1), diag.DocEnumMember)
	unclaimed := diagAt(t, tree, identOf(class, 1), diag.DsnForbiddenCoroutine)

	reg := NewRegistry(
		renameIdent{code: diag.NamPrivatePrefix, to: "_count"},
		renameIdent{code: diag.NamSerializedPrefix, to: "speed"},
		never{},
	)
	cands, skips := Candidates(tree, nil, []diag.Diagnostic{good, good, other, moved, same, unplannable, unclaimed}, reg)
	require.Len(t, cands, 1)
	reasons := make([]string, len(skips))
	for i, s := range skips {
		reasons[i] = s.Reason
	}
	assert.Equal(t, []string{
		"duplicate fix id",
		"diagnostic belongs to another file",
		"anchor does not resolve",
		"fix has no effect",
		"construct not found at anchor",
	}, reasons)
	assert.Same(t, identOf(class, 0), cands[0].Anchor)
}

func TestApplyNothingToDo(t *testing.T) {
	tree, _ := fixture()
	res, err := Apply(tree, nil, nil, NewRegistry(), ApplyOptions{Mode: ApplyModeAll})
	assert.True(t, errors.Is(err, ErrNoFixes))
	assert.Same(t, tree, res.Tree)

	_, err = Apply(nil, nil, nil, NewRegistry(), ApplyOptions{})
	assert.Error(t, err)
}

func TestFixOne(t *testing.T) {
	tree, class := fixture()
	d := diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix)
	reg := NewRegistry(renameIdent{code: diag.NamPrivatePrefix, to: "_count"})

	fixed := FixOne(tree, nil, d, reg)
	assert.Contains(t, fixed.Render(), "private int _count;")

	// старый span больше не совпадает ни с одним узлом
	assert.Same(t, fixed, FixOne(fixed, nil, d, reg))
	assert.Same(t, tree, FixOne(tree, nil, d, NewRegistry()))
}

func TestCandidateApplyStale(t *testing.T) {
	tree, class := fixture()
	d := diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix)
	cands, _ := Candidates(tree, nil, []diag.Diagnostic{d}, NewRegistry(renameIdent{code: diag.NamPrivatePrefix, to: "_count"}))
	require.Len(t, cands, 1)

	next := cands[0].Apply(tree)
	assert.NotSame(t, tree, next)
	assert.Same(t, next, cands[0].Apply(next))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(dropFirst{}, renameClass{}, renameIdent{code: diag.NamPrivatePrefix})
	assert.Len(t, reg.For(diag.StyMemberOrder), 2)
	assert.Empty(t, reg.For(diag.DocEnumMember))
	assert.Equal(t, []diag.Code{diag.NamPrivatePrefix, diag.StyMemberOrder}, reg.Fixable())

	var nilReg *Registry
	assert.Nil(t, nilReg.For(diag.StyMemberOrder))
	assert.Equal(t, "manual-review", ManualReview.String())
	assert.Equal(t, "Applicability(9)", Applicability(9).String())
}

func TestKeepTrivia(t *testing.T) {
	orig := syntax.Tok("x")
	orig.Leading = []syntax.Trivia{syntax.Space("  ")}
	orig.Trailing = []syntax.Trivia{syntax.Space(" "), syntax.LineComment("note"), syntax.EOL()}
	got := KeepTrivia(orig, syntax.Tok("y"))
	assert.Equal(t, "  y // note\n", got.Render())
	assert.True(t, Edit{Target: orig, Replacement: orig.WithText("x")}.Noop())
	assert.True(t, Edit{}.Noop())
}

func TestInsertBeforeIndent(t *testing.T) {
	n := syntax.Ident("A")
	n.Leading = []syntax.Trivia{syntax.EOL(), syntax.Space("\t"), syntax.LineComment("keep"), syntax.EOL(), syntax.Space("\t")}
	got := InsertBeforeIndent(n, syntax.DocComment("<summary>"))
	assert.Equal(t, "\n\t// keep\n\t/// <summary>\n\tA", got.Render())

	bare := InsertBeforeIndent(syntax.Ident("B"), syntax.DocComment("x"))
	assert.Equal(t, "    /// x\n    B", bare.Render())
}

func TestCandidateTextEdit(t *testing.T) {
	tree, class := fixture()
	d := diagAt(t, tree, identOf(class, 0), diag.NamPrivatePrefix)
	cands, _ := Candidates(tree, nil, []diag.Diagnostic{d}, NewRegistry(renameIdent{code: diag.NamPrivatePrefix, to: "_count"}))
	require.Len(t, cands, 1)

	sp, newText, oldText, ok := cands[0].TextEdit(tree)
	require.True(t, ok)
	text := tree.Render()
	assert.Equal(t, oldText, text[sp.Start:sp.End])
	assert.Equal(t, tree.Render()[:sp.Start]+newText+text[sp.End:], cands[0].Apply(tree).Render())

	other, _ := fixture()
	_, _, _, ok = cands[0].TextEdit(other)
	assert.False(t, ok)
}
