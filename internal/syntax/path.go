package syntax

// Path is a chain of nodes from the root down to one node.
type Path []*Node

// Node returns the last node of the path.
func (p Path) Node() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Parent returns the node directly above the last one.
func (p Path) Parent() *Node {
	if len(p) < 2 {
		return nil
	}
	return p[len(p)-2]
}

// Ancestors returns the path without its last node.
func (p Path) Ancestors() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Nearest returns the prefix of p ending at the deepest node (self included)
// whose kind is one of kinds.
func (p Path) Nearest(kinds ...Kind) (Path, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		for _, k := range kinds {
			if p[i].Kind == k {
				return p[:i+1], true
			}
		}
	}
	return nil, false
}

// Clone copies the path so it can outlive a Walk callback.
func (p Path) Clone() Path {
	return append(Path(nil), p...)
}

// Walk visits n and its descendants in pre-order. The path passed to fn is
// reused between calls; Clone it to keep it. Returning false skips the
// children of the current node.
func Walk(n *Node, fn func(Path) bool) {
	if n == nil {
		return
	}
	path := make(Path, 0, 16)
	walk(n, path, fn)
}

func walk(n *Node, path Path, fn func(Path) bool) {
	path = append(path, n)
	if !fn(path) {
		return
	}
	for _, c := range n.Children {
		walk(c, path, fn)
	}
}
