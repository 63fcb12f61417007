package syntax

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"convlint/internal/source"
)

// Tree binds a root node to the file it was rendered from. The span index is
// built lazily on first use and is safe for concurrent readers.
type Tree struct {
	File source.FileID
	Path string
	Root *Node

	once  sync.Once
	index map[*Node]spanEntry
	text  string
}

type spanEntry struct {
	span source.Span
	full source.Span
}

func NewTree(file source.FileID, path string, root *Node) *Tree {
	return &Tree{File: file, Path: path, Root: root}
}

// WithFile rebinds the same root to another file id.
func (t *Tree) WithFile(file source.FileID) *Tree {
	return NewTree(file, t.Path, t.Root)
}

func (t *Tree) build() {
	t.once.Do(func() {
		t.index = make(map[*Node]spanEntry)
		if t.Root == nil {
			return
		}
		t.text = t.Root.Render()
		t.indexNode(t.Root, 0)
	})
}

func (t *Tree) indexNode(n *Node, off int) int {
	start := off
	off += triviaLen(n.Leading)
	if len(n.Children) == 0 {
		off += len(n.Text)
	}
	for _, c := range n.Children {
		off = t.indexNode(c, off)
	}
	off += triviaLen(n.Trailing)

	innerStart := start + triviaLen(n.LeadingTrivia())
	innerEnd := off - triviaLen(n.TrailingTrivia())
	if innerEnd < innerStart {
		innerEnd = innerStart
	}
	t.index[n] = spanEntry{
		span: t.span(innerStart, innerEnd),
		full: t.span(start, off),
	}
	return off
}

func (t *Tree) span(start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: t.File, Start: s, End: e}
}

// Render returns the full text of the tree.
func (t *Tree) Render() string {
	t.build()
	return t.text
}

// SpanOf returns the span of n without its outer trivia.
func (t *Tree) SpanOf(n *Node) (source.Span, bool) {
	t.build()
	e, ok := t.index[n]
	return e.span, ok
}

// FullSpanOf returns the span of n including its trivia.
func (t *Tree) FullSpanOf(n *Node) (source.Span, bool) {
	t.build()
	e, ok := t.index[n]
	return e.full, ok
}

// Has reports whether n belongs to the tree.
func (t *Tree) Has(n *Node) bool {
	t.build()
	_, ok := t.index[n]
	return ok
}

// FindExact returns the path to the outermost node whose span is exactly sp,
// or nil when sp belongs to another file or no node matches.
func (t *Tree) FindExact(sp source.Span) Path {
	t.build()
	if t.Root == nil || sp.File != t.File {
		return nil
	}
	var path Path
	if t.findExact(t.Root, sp, &path) {
		return path
	}
	return nil
}

func (t *Tree) findExact(n *Node, sp source.Span, path *Path) bool {
	e := t.index[n]
	if !e.full.Contains(sp) {
		return false
	}
	*path = append(*path, n)
	if e.span == sp {
		return true
	}
	for _, c := range n.Children {
		if t.findExact(c, sp, path) {
			return true
		}
	}
	*path = (*path)[:len(*path)-1]
	return false
}

// Locate returns the chain from the root to the smallest node whose span
// contains sp.
func (t *Tree) Locate(sp source.Span) Path {
	t.build()
	if t.Root == nil || sp.File != t.File {
		return nil
	}
	var path Path
	n := t.Root
	if !t.index[n].full.Contains(sp) {
		return nil
	}
	for n != nil {
		path = append(path, n)
		var next *Node
		for _, c := range n.Children {
			if t.index[c].span.Contains(sp) {
				next = c
				break
			}
		}
		n = next
	}
	return path
}

// PathTo returns the chain from the root to n, or nil when n is not in the tree.
func (t *Tree) PathTo(n *Node) Path {
	t.build()
	e, ok := t.index[n]
	if !ok {
		return nil
	}
	var path Path
	if t.pathTo(t.Root, n, e.full, &path) {
		return path
	}
	return nil
}

func (t *Tree) pathTo(cur, n *Node, full source.Span, path *Path) bool {
	if !t.index[cur].full.Contains(full) {
		return false
	}
	*path = append(*path, cur)
	if cur == n {
		return true
	}
	for _, c := range cur.Children {
		if t.pathTo(c, n, full, path) {
			return true
		}
	}
	*path = (*path)[:len(*path)-1]
	return false
}
