package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convlint/internal/syntax"
)

func TestTableResolve(t *testing.T) {
	field := &Symbol{ID: 7, Kind: SymbolField, Name: "_speed", Accessibility: AccessPrivate, Attributes: []string{"SerializeField"}}
	tbl := NewTable().MustAdd(field)

	assert.Same(t, field, tbl.Resolve(&syntax.Node{Kind: syntax.KindIdentifier, Text: "_speed", Ref: 7}))
	assert.Nil(t, tbl.Resolve(&syntax.Node{Kind: syntax.KindIdentifier, Text: "other"}))
	assert.Nil(t, tbl.Resolve(&syntax.Node{Ref: 99}))
	assert.Nil(t, tbl.Resolve(nil))

	assert.Equal(t, AccessPrivate, tbl.AccessibilityOf(field))
	assert.Equal(t, []string{"SerializeField"}, tbl.AttributesOf(field))
	assert.False(t, tbl.IsImplicitlyDeclared(field))
	assert.Equal(t, AccessNotApplicable, tbl.AccessibilityOf(nil))
}

func TestTableAddRejectsBadIDs(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add(&Symbol{ID: 1, Name: "a"}))
	assert.Error(t, tbl.Add(&Symbol{ID: 1, Name: "b"}))
	assert.Error(t, tbl.Add(&Symbol{Name: "zero"}))
	assert.Len(t, tbl.Symbols(), 1)
}

func TestHasAttribute(t *testing.T) {
	sym := &Symbol{Attributes: []string{"UnityEngine.SerializeField"}}
	assert.True(t, HasAttribute(sym, "SerializeField"))
	assert.True(t, HasAttribute(sym, "SerializeFieldAttribute"))
	assert.False(t, HasAttribute(sym, "Header"))
	assert.False(t, HasAttribute(nil, "SerializeField"))
}

func TestParseRoundTrip(t *testing.T) {
	for k := SymbolField; k <= SymbolParameter; k++ {
		got, ok := ParseSymbolKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	for _, a := range []Accessibility{AccessPrivate, AccessPublic, AccessProtectedInternal} {
		got, ok := ParseAccessibility(a.String())
		require.True(t, ok)
		assert.Equal(t, a, got)
	}
	_, ok := ParseAccessibility("friend")
	assert.False(t, ok)
}

func TestTypeRefFullName(t *testing.T) {
	assert.Equal(t, "System.Action", (&TypeRef{Namespace: "System", Name: "Action", Arity: 1}).FullName())
	assert.Equal(t, "int", (&TypeRef{Name: "int"}).FullName())
	assert.Equal(t, "", (*TypeRef)(nil).FullName())
}
