package tree

import "github.com/dshills/aditor/internal/document/node"

// FindByPosition returns the deepest node whose interval contains pos.
// A container none of whose children contains pos is returned itself.
// It returns nil when pos lies outside the root.
func (t *Tree) FindByPosition(pos int) *node.Node {
	if t.Root == nil || !t.Root.Contains(pos) {
		return nil
	}
	return findByPosition(t.Root, pos)
}

func findByPosition(n *node.Node, pos int) *node.Node {
	for _, c := range n.Children {
		if c.Contains(pos) {
			return findByPosition(c, pos)
		}
	}
	return n
}

// FindParentByPosition returns the container that directly holds the
// deepest node containing pos, or nil when pos resolves to the root or
// lies outside it.
func (t *Tree) FindParentByPosition(pos int) *node.Node {
	if t.Root == nil {
		return nil
	}
	var parent *node.Node
	found := false
	var visit func(n *node.Node)
	visit = func(n *node.Node) {
		for _, c := range n.Children {
			if found {
				return
			}
			if !c.Contains(pos) {
				continue
			}
			visit(c)
			if !found {
				found = true
				parent = n
			}
			return
		}
	}
	visit(t.Root)
	return parent
}

// ParentOf returns the container holding n, found by identity.
// It returns nil for the root and for detached nodes.
func (t *Tree) ParentOf(n *node.Node) *node.Node {
	if t.Root == nil || n == nil || n == t.Root {
		return nil
	}
	return parentOf(t.Root, n)
}

func parentOf(cur, target *node.Node) *node.Node {
	for _, c := range cur.Children {
		if c == target {
			return cur
		}
		if p := parentOf(c, target); p != nil {
			return p
		}
	}
	return nil
}

// Attached reports whether n is reachable from the root.
func (t *Tree) Attached(n *node.Node) bool {
	if n == nil || t.Root == nil {
		return false
	}
	return n == t.Root || t.ParentOf(n) != nil
}

// IsAncestor reports whether anc is n or one of n's ancestors.
func (t *Tree) IsAncestor(anc, n *node.Node) bool {
	for cur := n; cur != nil; cur = t.ParentOf(cur) {
		if cur == anc {
			return true
		}
	}
	return false
}

// DeepestLeftmost descends through first children until a leaf or an empty container.
func DeepestLeftmost(n *node.Node) *node.Node {
	for n != nil && len(n.Children) > 0 {
		n = n.Children[0]
	}
	return n
}

// DeepestRightmost descends through last children until a leaf or an empty container.
func DeepestRightmost(n *node.Node) *node.Node {
	for n != nil && len(n.Children) > 0 {
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// LowestCommonAncestor returns the nearest container shared by a and b
// together with the children of it that lie on the paths to a and to b.
// Either child is nil when that path ends at the ancestor itself.
// Positions must be current.
func (t *Tree) LowestCommonAncestor(a, b *node.Node) (lca, childA, childB *node.Node) {
	if t.Root == nil || a == nil || b == nil {
		return nil, nil, nil
	}
	pa := t.pathTo(a)
	pb := t.pathTo(b)
	k := 0
	for k+1 < len(pa) && k+1 < len(pb) && pa[k+1] == pb[k+1] {
		k++
	}
	lca = pa[k]
	if k+1 < len(pa) {
		childA = pa[k+1]
	}
	if k+1 < len(pb) {
		childB = pb[k+1]
	}
	return lca, childA, childB
}

// pathTo returns the nodes from the root down to target. Each step prefers
// an identity match and otherwise follows the child containing target.Start.
func (t *Tree) pathTo(target *node.Node) []*node.Node {
	path := []*node.Node{t.Root}
	cur := t.Root
	for cur != target {
		next := stepToward(cur, target)
		if next == nil {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}

func stepToward(cur, target *node.Node) *node.Node {
	for _, c := range cur.Children {
		if c == target {
			return c
		}
	}
	for _, c := range cur.Children {
		if c.Contains(target.Start) {
			return c
		}
	}
	return nil
}
