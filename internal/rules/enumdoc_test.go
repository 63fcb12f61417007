package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/fix"
	"convlint/internal/syntax"
)

func TestEnumDocMissing(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Enum(pub, "GameState",
		syntax.EnumMember("Idle"),
		syntax.EnumMember("Playing"),
	)))
	ds := analyze(t, tree, nil, EnumDoc{})
	require.Len(t, ds, 2)
	assert.Equal(t, []string{
		"add a /// <summary> comment to enum member 'Idle'",
		"add a /// <summary> comment to enum member 'Playing'",
	}, messages(ds))
	assert.Equal(t, "Idle", textAt(tree, ds[0]))
}

func TestEnumDocAccepted(t *testing.T) {
	member := func(name string, lead ...syntax.Trivia) syntax.Builder {
		return func(l syntax.Layout) *syntax.Node {
			n := syntax.EnumMember(name)(l)
			n.Leading = append(append([]syntax.Trivia{syntax.Space(l.Indent)}, lead...), syntax.EOL(), syntax.Space(l.Indent))
			return n
		}
	}
	tree := newTree(syntax.Unit(syntax.Namespace("Game",
		syntax.Enum(pub, "GameState",
			syntax.EnumMember("Idle", syntax.Docs("/// <summary>Idle</summary>")),
			member("Paused", syntax.Trivia{Kind: syntax.TriviaLineComment, Text: "/// <see cref=\"Idle\"/>"}),
			member("Plain", syntax.LineComment("// <b>not a doc</b>")),
			member("Empty", syntax.Trivia{Kind: syntax.TriviaLineComment, Text: "/// <>"}),
		),
	)))
	ds := analyze(t, tree, nil, EnumDoc{})
	assert.Equal(t, []string{
		"add a /// <summary> comment to enum member 'Plain'",
		"add a /// <summary> comment to enum member 'Empty'",
	}, messages(ds))
}

func TestEnumDocNestedSkipped(t *testing.T) {
	tree := newTree(syntax.Unit(syntax.Class(pub, "Player",
		syntax.Enum(pub, "State", syntax.EnumMember("A")),
	)))
	assert.Empty(t, analyze(t, tree, nil, EnumDoc{}))
}

func TestEnumDocTemplateFix(t *testing.T) {
	root := syntax.Unit(syntax.Enum(pub, "GameState",
		syntax.EnumMember("Idle"),
		syntax.EnumMember("Playing", syntax.Docs("// keep me")),
	))
	tree := newTree(root)
	ds := analyze(t, tree, nil, EnumDoc{})
	require.Len(t, ds, 2)

	res, err := fix.Apply(tree, nil, ds, fix.NewRegistry(EnumDocTemplate{}), fix.ApplyOptions{Mode: fix.ApplyModeAll})
	require.NoError(t, err)
	assert.Len(t, res.Applied, 2)
	assert.Equal(t, "public enum GameState\n{\n"+
		"    /// <summary>  </summary>\n"+
		"    Idle,\n"+
		"    // keep me\n"+
		"    /// <summary>  </summary>\n"+
		"    Playing\n"+
		"}\n", res.Tree.Render())
	assert.Empty(t, analyze(t, res.Tree, nil, EnumDoc{}))
}
