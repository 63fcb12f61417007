package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/semantic"
	"convlint/internal/source"
	"convlint/internal/syntax"
	"convlint/internal/testkit"
)

func fixture(t *testing.T) (*syntax.Tree, *semantic.Table) {
	t.Helper()
	use := syntax.Ident("health")
	use.Ref = 1
	root := syntax.Unit(syntax.Class(syntax.ModPublic, "Player",
		syntax.Field(syntax.ModPrivate, "int", "health", syntax.Attrs("SerializeField"), syntax.Docs("// hp")),
		syntax.Method(syntax.ModPublic, "int", "Get", syntax.Stmts(syntax.Return(use))),
	))
	tree := syntax.NewTree(0, "Assets/Player.cs", root)
	field := syntax.Members(root.Children[0])[0]
	sp, ok := tree.SpanOf(syntax.Identifier(field))
	require.True(t, ok)

	tbl := semantic.NewTable().MustAdd(&semantic.Symbol{
		ID:            1,
		Kind:          semantic.SymbolField,
		Name:          "health",
		Accessibility: semantic.AccessPrivate,
		Attributes:    []string{"SerializeField"},
		Type:          &semantic.TypeRef{Namespace: "System", Name: "Int32"},
		Locations: []semantic.Location{
			{Path: tree.Path, Span: sp},
			{Path: "Assets/Player.Gen.cs", Span: source.Span{Start: 5, End: 11}},
		},
	})
	return tree, tbl
}

func TestRoundTrip(t *testing.T) {
	tree, tbl := fixture(t)
	for _, f := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(f.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, FromTree(tree, tbl)))

			doc, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, schemaVersion, doc.Schema)

			fs := source.NewFileSet()
			snap, err := doc.Build(fs)
			require.NoError(t, err)
			assert.Equal(t, tree.Render(), snap.Tree.Render())
			require.NoError(t, testkit.CheckSpanInvariants(snap.Tree, fs.Get(snap.Tree.File)))
			assert.Equal(t, "Assets/Player.cs", snap.Path)

			field := syntax.Members(snap.Tree.Root.Children[0])[0]
			assert.Equal(t, syntax.ModPrivate, field.Modifiers)
			assert.Equal(t, []string{"SerializeField"}, field.Attributes)
			var kinds []syntax.TriviaKind
			for _, tr := range field.LeadingTrivia() {
				kinds = append(kinds, tr.Kind)
			}
			assert.Contains(t, kinds, syntax.TriviaLineComment)

			orig, got := tbl.Lookup(1), snap.Model.Lookup(1)
			require.NotNil(t, got)
			assert.Equal(t, orig.Name, got.Name)
			assert.Equal(t, orig.Kind, got.Kind)
			assert.Equal(t, orig.Accessibility, got.Accessibility)
			assert.Equal(t, orig.Attributes, got.Attributes)
			assert.Equal(t, orig.Type, got.Type)
			assert.ElementsMatch(t, orig.Locations, got.Locations)

			var use *syntax.Node
			syntax.Walk(snap.Tree.Root, func(p syntax.Path) bool {
				if n := p.Node(); n.Kind == syntax.KindIdentifier && n.Ref != 0 {
					use = n
				}
				return true
			})
			require.NotNil(t, use)
			assert.Same(t, got, snap.Model.Resolve(use))
		})
	}
}

func TestBuildHostDocument(t *testing.T) {
	const raw = `{
  "path": "A.cs",
  "root": {"kind": "CompilationUnit", "children": [
    {"kind": "Class", "name": "A", "modifiers": ["public"], "declares": 1, "trailing": "\n", "children": [
      {"kind": "Token", "text": "public", "trailing": " "},
      {"kind": "Token", "text": "class", "trailing": " "},
      {"kind": "Identifier", "text": "A", "trailing": "\n"},
      {"kind": "Token", "text": "{", "trailing": "\n"},
      {"kind": "Token", "text": "}"}
    ]}
  ]},
  "symbols": [{"id": 1, "kind": "type", "name": "A", "accessibility": "public"}]
}`
	doc, err := Decode(strings.NewReader(raw), FormatJSON)
	require.NoError(t, err)
	snap, err := doc.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "public class A\n{\n}\n", snap.Tree.Render())

	sym := snap.Model.Lookup(1)
	require.NotNil(t, sym)
	assert.Equal(t, semantic.AccessPublic, sym.Accessibility)
	require.Len(t, sym.Locations, 1)
	assert.Equal(t, uint32(13), sym.Locations[0].Span.Start)
	assert.Equal(t, uint32(14), sym.Locations[0].Span.End)
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]*Document{
		"missing root": {Path: "a.cs"},
		"unknown node kind": {Path: "a.cs", Root: &NodeDoc{Kind: "Lambda"}},
		"child 0 is null": {Path: "a.cs", Root: &NodeDoc{Kind: "CompilationUnit", Children: []*NodeDoc{nil}}},
		"declares unknown symbol 7": {Path: "a.cs", Root: &NodeDoc{Kind: "Class", Name: "A", Declares: 7}},
		"unknown kind \"thing\"": {Path: "a.cs", Root: &NodeDoc{Kind: "CompilationUnit"},
			Symbols: []SymbolDoc{{ID: 1, Kind: "thing"}}},
		"unknown accessibility": {Path: "a.cs", Root: &NodeDoc{Kind: "CompilationUnit"},
			Symbols: []SymbolDoc{{ID: 1, Kind: "field", Accessibility: "friend"}}},
		"duplicate id": {Path: "a.cs", Root: &NodeDoc{Kind: "CompilationUnit"},
			Symbols: []SymbolDoc{{ID: 1, Kind: "field"}, {ID: 1, Kind: "field"}}},
	}
	for want, doc := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := doc.Build(source.NewFileSet())
			require.Error(t, err)
			assert.Contains(t, err.Error(), want)
		})
	}
}

func TestFormats(t *testing.T) {
	for path, want := range map[string]Format{
		"a.json": FormatJSON, "a.YAML": FormatYAML, "a.yml": FormatYAML,
		"a.msgpack": FormatMsgpack, "a.mpk": FormatMsgpack,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("a.cs")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = Decode(strings.NewReader("{}"), Format(9))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Decode(strings.NewReader(`{"schema": 99, "path": "a.cs"}`), FormatJSON)
	assert.ErrorContains(t, err, "newer")
	_, err = Decode(strings.NewReader("{"), FormatJSON)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	tree, tbl := fixture(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "player.yaml")
	require.NoError(t, Save(path, tree, tbl))

	fset := source.NewFileSet()
	snap, err := Load(fset, path)
	require.NoError(t, err)
	assert.Equal(t, tree.Render(), snap.Tree.Render())
	assert.Equal(t, 1, fset.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	_, err = Load(fset, filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, Save(filepath.Join(dir, "x.txt"), tree, tbl), ErrUnknownFormat)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.json", "sub/b.yml", ".cache/c.json", "notes.txt"} {
		full := filepath.Join(dir, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	}
	got, err := Discover([]string{dir, filepath.Join(dir, "a.json")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "sub", "b.yml")}, got)

	_, err = Discover([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}

func findDoc(nd *NodeDoc, name string) *NodeDoc {
	if nd == nil {
		return nil
	}
	if nd.Name == name && nd.Kind != syntax.KindIdentifier.String() {
		return nd
	}
	for _, c := range nd.Children {
		if got := findDoc(c, name); got != nil {
			return got
		}
	}
	return nil
}

func TestRewrittenTreeKeepsDeclarations(t *testing.T) {
	tree, tbl := fixture(t)
	snap, err := FromTree(tree, tbl).Build(source.NewFileSet())
	require.NoError(t, err)

	class := snap.Tree.Root.Children[0]
	members := syntax.Members(class)
	require.Len(t, members, 2)
	swapped, ok := class.WithMembers([]*syntax.Node{members[1], members[0].WithName("_health")})
	require.True(t, ok)
	rewritten := syntax.Replace(snap.Tree, class, swapped)

	doc := FromTree(rewritten, snap.Model)
	field := findDoc(doc.Root, "_health")
	require.NotNil(t, field)
	assert.Equal(t, uint32(1), field.Declares)
	require.Len(t, doc.Symbols, 1)
	assert.Len(t, doc.Symbols[0].Elsewhere, 1)

	again, err := doc.Build(source.NewFileSet())
	require.NoError(t, err)
	var renamed *syntax.Node
	for _, m := range syntax.Members(again.Tree.Root.Children[0]) {
		if m.Name == "_health" {
			renamed = m
		}
	}
	require.NotNil(t, renamed)
	sp, ok := again.Tree.SpanOf(syntax.Identifier(renamed))
	require.True(t, ok)
	sym := again.Model.Lookup(1)
	require.NotNil(t, sym)
	assert.Equal(t, sp, sym.Locations[len(sym.Locations)-1].Span)
}

func TestCacheReusesDecodedDocument(t *testing.T) {
	tree, tbl := fixture(t)
	path := filepath.Join(t.TempDir(), "Player.yaml")
	require.NoError(t, Save(path, tree, tbl))

	var lookups []bool
	cache := NewCache(4)
	cache.OnLookup = func(hit bool) { lookups = append(lookups, hit) }

	first, err := cache.Load(source.NewFileSet(), path)
	require.NoError(t, err)
	second, err := cache.Load(source.NewFileSet(), path)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, lookups)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, first.Tree.Render(), second.Tree.Render())
	assert.NotSame(t, first.Tree.Root, second.Tree.Root)

	// изменённый файл декодируется заново
	require.NoError(t, os.WriteFile(path, []byte("path: Other.cs\nroot: {kind: CompilationUnit}\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))
	third, err := cache.Load(source.NewFileSet(), path)
	require.NoError(t, err)
	assert.Equal(t, "Other.cs", third.Path)
	assert.Equal(t, []bool{false, true, false}, lookups)

	var none *Cache
	_, err = none.Load(source.NewFileSet(), path)
	require.NoError(t, err)
	assert.Zero(t, none.Len())
}
