package fuzztests

import (
	"bytes"
	"testing"

	"convlint/internal/semantic"
	"convlint/internal/snapshot"
	"convlint/internal/syntax"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTreeSeeds(f)
	// минимальные и битые документы
	f.Add([]byte{})
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"root": {"kind": "CompilationUnit"}}`))
	f.Add([]byte(`{"root": {"kind": "Nope", "children": [{"kind": "Token"}]}}`))
	f.Add([]byte(`{"root": {"kind": "CompilationUnit"}, "symbols": [{"id": 0}]}`))
}

// addTreeSeeds encodes a few realistic member trees.
func addTreeSeeds(f *testing.F) {
	pub, priv := syntax.ModPublic, syntax.ModPrivate
	roots := []*syntax.Node{
		syntax.Unit(syntax.Class(pub, "Player",
			syntax.Method(pub, "int", "Get", syntax.Stmts(syntax.Return(syntax.Ident("_count")))),
			syntax.Field(priv, "int", "_count"),
			syntax.Field(priv, "float", "speed", syntax.Attrs("SerializeField")),
			syntax.Property(pub, "int", "Value"),
		)),
		syntax.Unit(syntax.Namespace("Game",
			syntax.Enum(pub, "State", syntax.EnumMember("Idle"), syntax.EnumMember("Run", syntax.Docs("/// <summary>Run</summary>"))),
			syntax.Struct(pub, "Cell", syntax.Field(pub, "int", "X"), syntax.Constructor(pub, "Cell")),
		)),
		syntax.Unit(syntax.Class(pub, "Spawner",
			syntax.EventField(pub, "System.Action", "Spawned"),
			syntax.Method(pub, "System.Collections.IEnumerator", "Run", syntax.Stmts(syntax.Return(syntax.Null()))),
		)),
	}
	for i, root := range roots {
		tree := syntax.NewTree(0, "Assets/Seed.cs", root)
		var buf bytes.Buffer
		if err := snapshot.Encode(&buf, snapshot.FormatJSON, snapshot.FromTree(tree, semantic.NewTable())); err != nil {
			f.Fatalf("seed %d: %v", i, err)
		}
		f.Add(clampSeed(buf.Bytes()))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
