package syntax

// Replace returns a tree where old is replaced by repl. Ancestors of old are
// copied, every other subtree is shared. When old is not in the tree the
// same tree is returned.
func Replace(t *Tree, old, repl *Node) *Tree {
	return ReplaceAll(t, map[*Node]*Node{old: repl})
}

// ReplaceAll applies several replacements in one pass. Targets nested inside
// another target are ignored: the outer replacement wins.
func ReplaceAll(t *Tree, edits map[*Node]*Node) *Tree {
	if t == nil || t.Root == nil || len(edits) == 0 {
		return t
	}
	root, changed := rebuild(t.Root, edits)
	if !changed {
		return t
	}
	return NewTree(t.File, t.Path, root)
}

func rebuild(n *Node, edits map[*Node]*Node) (*Node, bool) {
	if repl, ok := edits[n]; ok {
		return repl, true
	}
	var children []*Node
	for i, c := range n.Children {
		nc, changed := rebuild(c, edits)
		if !changed {
			continue
		}
		if children == nil {
			children = append([]*Node(nil), n.Children...)
		}
		children[i] = nc
	}
	if children == nil {
		return n, false
	}
	return n.WithChildren(children...), true
}
