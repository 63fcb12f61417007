package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"convlint/internal/source"
	"convlint/internal/syntax"
)

// CheckSpanInvariants runs a minimal set of span invariants on a tree bound to sf:
// 1) the tree renders to exactly sf.Content and the root covers all of it
// 2) every node's span lies within its full span, which lies within the parent's
// 3) children follow each other without gaps or overlap
func CheckSpanInvariants(t *syntax.Tree, sf *source.File) error {
	if t == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if t.Root == nil {
		return fmt.Errorf("tree has no root")
	}
	if t.File != sf.ID {
		return fmt.Errorf("tree points to different file id: got=%d want=%d", t.File, sf.ID)
	}
	if t.Render() != string(sf.Content) {
		return fmt.Errorf("rendered tree differs from file content")
	}

	// 1) root covers the whole content
	root, ok := t.FullSpanOf(t.Root)
	if !ok {
		return fmt.Errorf("root is not indexed")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if root.Start != 0 || root.End != lenContent {
		return fmt.Errorf("root span %v does not cover content of length %d", root, lenContent)
	}
	return checkNode(t, t.Root, sf.ID)
}

func checkNode(t *syntax.Tree, n *syntax.Node, file source.FileID) error {
	full, _ := t.FullSpanOf(n)
	inner, ok := t.SpanOf(n)
	if !ok {
		return fmt.Errorf("%s node is not indexed", n.Kind)
	}
	if full.File != file || inner.File != file {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind, full.File, file)
	}
	// 2) inner inside full
	if !full.Contains(inner) {
		return fmt.Errorf("%s span %v is outside its full span %v", n.Kind, inner, full)
	}

	// 3) children are contiguous inside the parent
	lead, err := safecast.Conv[uint32](len(syntax.RenderTrivia(n.Leading)))
	if err != nil {
		return fmt.Errorf("leading trivia overflow: %w", err)
	}
	next := full.Start + lead
	for i, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%s child %d is nil", n.Kind, i)
		}
		cs, ok := t.FullSpanOf(c)
		if !ok {
			return fmt.Errorf("%s child %d is not indexed", n.Kind, i)
		}
		if cs.Start != next {
			return fmt.Errorf("%s child %d starts at %d, want %d", n.Kind, i, cs.Start, next)
		}
		if !full.Contains(cs) {
			return fmt.Errorf("%s child %d span %v is outside parent %v", n.Kind, i, cs, full)
		}
		next = cs.End
		if err := checkNode(t, c, file); err != nil {
			return err
		}
	}
	return nil
}
