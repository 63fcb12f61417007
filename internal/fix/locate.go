package fix

import (
	"convlint/internal/diag"
	"convlint/internal/syntax"
)

// Anchor returns the path to the node the diagnostic points at. It fails when
// the diagnostic belongs to another file or its span no longer matches a node.
func Anchor(t *syntax.Tree, d diag.Diagnostic) (syntax.Path, bool) {
	if t == nil {
		return nil, false
	}
	path := t.FindExact(d.Primary)
	return path, path != nil
}

// Nearest returns the path to the closest ancestor-or-self of the anchor
// whose kind is one of kinds.
func Nearest(t *syntax.Tree, d diag.Diagnostic, kinds ...syntax.Kind) (syntax.Path, bool) {
	path, ok := Anchor(t, d)
	if !ok {
		return nil, false
	}
	return path.Nearest(kinds...)
}
