package syntax

import "strings"

// Modifiers is the set of declaration modifiers written on a node.
type Modifiers uint16

const (
	ModPublic Modifiers = 1 << iota
	ModPrivate
	ModProtected
	ModInternal
	ModStatic
	ModConst
	ModReadOnly
	ModOverride
	ModVirtual
	ModAbstract
	ModSealed
	ModPartial
	ModAsync
	ModExtern
	ModNew
)

var modifierWords = []struct {
	mod  Modifiers
	word string
}{
	{ModPublic, "public"},
	{ModPrivate, "private"},
	{ModProtected, "protected"},
	{ModInternal, "internal"},
	{ModStatic, "static"},
	{ModConst, "const"},
	{ModReadOnly, "readonly"},
	{ModOverride, "override"},
	{ModVirtual, "virtual"},
	{ModAbstract, "abstract"},
	{ModSealed, "sealed"},
	{ModPartial, "partial"},
	{ModAsync, "async"},
	{ModExtern, "extern"},
	{ModNew, "new"},
}

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag == flag
}

// Words returns the keywords of m in canonical order.
func (m Modifiers) Words() []string {
	var out []string
	for _, mw := range modifierWords {
		if m&mw.mod != 0 {
			out = append(out, mw.word)
		}
	}
	return out
}

func (m Modifiers) String() string {
	return strings.Join(m.Words(), " ")
}

// ParseModifier maps a keyword to its flag.
func ParseModifier(word string) (Modifiers, bool) {
	for _, mw := range modifierWords {
		if mw.word == word {
			return mw.mod, true
		}
	}
	return 0, false
}

// ParseModifiers folds a list of keywords; unknown words are ignored.
func ParseModifiers(words []string) Modifiers {
	var m Modifiers
	for _, w := range words {
		if flag, ok := ParseModifier(w); ok {
			m |= flag
		}
	}
	return m
}
