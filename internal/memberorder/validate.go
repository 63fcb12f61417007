package memberorder

import (
	"convlint/internal/semantic"
	"convlint/internal/syntax"
)

// Member is a classified declaration with its position in the type body.
type Member struct {
	Node     *syntax.Node
	Category Category
	Index    int
}

func (m Member) Name() string { return m.Node.Name }

// Violation is a member declared after a member of a higher category.
// Preceding is the running maximum at the point of the violation, i.e. the
// nearest higher category seen so far, not the global maximum.
type Violation struct {
	Member    Member
	Preceding Category
}

// Args returns the diagnostic arguments: name, own label, preceding label.
func (v Violation) Args() []string {
	return []string{v.Member.Name(), v.Member.Category.Label(), v.Preceding.Label()}
}

// Split classifies members and separates the governed ones from the excluded
// ones. Both keep declaration order.
func Split(members []*syntax.Node, model semantic.Model) (governed, excluded []Member) {
	for i, n := range members {
		m := Member{Node: n, Category: Classify(n, model), Index: i}
		if m.Category.Governed() {
			governed = append(governed, m)
		} else {
			excluded = append(excluded, m)
		}
	}
	return governed, excluded
}

// Validate scans the governed members once, keeping the highest category
// seen so far, and reports every member whose category is lower.
func Validate(members []*syntax.Node, model semantic.Model) []Violation {
	governed, _ := Split(members, model)
	if len(governed) <= 1 {
		return nil
	}
	var out []Violation
	maxSeen := governed[0].Category
	for _, m := range governed[1:] {
		switch {
		case m.Category < maxSeen:
			out = append(out, Violation{Member: m, Preceding: maxSeen})
		case m.Category > maxSeen:
			maxSeen = m.Category
		}
	}
	return out
}

// InOrder reports whether members already satisfy the ordering.
func InOrder(members []*syntax.Node, model semantic.Model) bool {
	return len(Validate(members, model)) == 0
}
