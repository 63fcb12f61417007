package memberorder

import (
	"slices"

	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

// Order returns the canonical order of members: governed members sorted by
// (category, original index), then excluded members in original order.
// Excluded members lose their adjacency to governed neighbours.
func Order(members []*syntax.Node, model semantic.Model) []Member {
	governed, excluded := Split(members, model)
	slices.SortStableFunc(governed, func(a, b Member) int {
		if a.Category != b.Category {
			return int(a.Category) - int(b.Category)
		}
		return a.Index - b.Index
	})
	return append(governed, excluded...)
}

// Reorder returns the members in canonical order. Nodes are moved with their
// own trivia; nothing is re-indented.
func Reorder(members []*syntax.Node, model semantic.Model) []*syntax.Node {
	ordered := Order(members, model)
	out := make([]*syntax.Node, len(ordered))
	for i, m := range ordered {
		out[i] = m.Node
	}
	return out
}

// ReorderType rewrites the member list of a class or struct declaration.
// Only the region between the braces changes. ok is false when typeDecl has
// no member region or the members are already in canonical order.
func ReorderType(typeDecl *syntax.Node, model semantic.Model) (*syntax.Node, bool) {
	if typeDecl == nil || !typeDecl.Kind.IsTypeDecl() {
		return nil, false
	}
	members := syntax.Members(typeDecl)
	ordered := Reorder(members, model)
	if slices.Equal(members, ordered) {
		return nil, false
	}
	return typeDecl.WithMembers(ordered)
}
