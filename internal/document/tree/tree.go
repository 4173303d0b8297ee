// Package tree holds a document root and the navigation queries that locate
// nodes by linear position or by identity.
//
// A Tree has no parent pointers. Parent and ancestor queries re-walk from
// the root. Position queries are only meaningful right after Recalculate;
// identity queries (ParentOf, Attached, LowestCommonAncestor) stay valid
// while a snapshot is being mutated.
package tree

import (
	"strings"

	"github.com/dshills/aditor/internal/document/node"
)

// RootSeed is the preceding-end seed for a full position pass, giving the root Start 0.
const RootSeed = -1

// Tree is a document rooted at a single container.
type Tree struct {
	Root *node.Node
}

// New wraps root in a Tree and computes positions.
func New(root *node.Node) *Tree {
	t := &Tree{Root: root}
	t.Recalculate()
	return t
}

// Recalculate runs the position pass over the whole tree.
func (t *Tree) Recalculate() {
	if t.Root == nil {
		return
	}
	t.Root.CalPosition(RootSeed)
}

// Clone returns a deep copy of the tree that keeps node identities.
func (t *Tree) Clone() *Tree {
	if t.Root == nil {
		return &Tree{}
	}
	return &Tree{Root: t.Root.Clone()}
}

// Commit replaces t's content with src's. The root node itself is kept so
// references to it stay valid; its children and interval are swapped in.
func (t *Tree) Commit(src *Tree) {
	if src == nil || src.Root == nil {
		return
	}
	if t.Root == nil {
		t.Root = src.Root
		return
	}
	t.Root.Children = src.Root.Children
	t.Root.Style = src.Root.Style
	t.Root.Data = src.Root.Data
	t.Root.Start = src.Root.Start
	t.Root.End = src.Root.End
}

// Walk visits n and its subtree in document order. Returning false from fn
// skips the node's children.
func Walk(n *node.Node, fn func(n *node.Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *node.Node, depth int, fn func(*node.Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Leaves returns every leaf under n in document order.
func Leaves(n *node.Node) []*node.Node {
	var out []*node.Node
	Walk(n, func(x *node.Node, _ int) bool {
		if x.IsLeaf() {
			out = append(out, x)
		}
		return true
	})
	return out
}

// Text returns the document as plain text, one line per top-level block.
func (t *Tree) Text() string {
	if t.Root == nil {
		return ""
	}
	lines := make([]string, 0, len(t.Root.Children))
	for _, c := range t.Root.Children {
		lines = append(lines, c.PlainText())
	}
	return strings.Join(lines, "\n")
}
