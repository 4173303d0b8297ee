package dispatcher

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/document/tree"
	"github.com/dshills/aditor/internal/engine/selection"
)

// deleteRange removes the selected content and collapses sel to its start.
// When the two ends sit under different children of their common ancestor,
// those children are merged so no spurious boundary remains.
func (x *txn) deleteRange(sel *selection.NodeRange) error {
	sel.Normalize()
	s, e := sel.StartPos(), sel.EndPos()
	if sel.IsCollapsed() || s == e {
		sel.Collapse()
		return nil
	}

	lca, childA, childB := x.tree.LowestCommonAncestor(sel.StartNode, sel.EndNode)
	x.tree.Root.Delete(s, e)

	if childA != nil && childB != nil && childA != childB &&
		childA.IsContainer() && childB.IsContainer() &&
		x.tree.Attached(childA) && x.tree.Attached(childB) {
		if err := childA.Merge(childB); err != nil {
			if !isWarning(err) {
				return err
			}
			x.warn(err)
		} else {
			lca.RemoveChild(childB)
		}
	}

	start, off := sel.StartNode, sel.StartOffset
	if !x.tree.Attached(start) {
		fallback := childA
		if fallback == nil || !x.tree.Attached(fallback) {
			fallback = lca
		}
		start = tree.DeepestRightmost(fallback)
		off = start.ContentLength()
	}
	sel.CollapseTo(start, start.ClampOffset(off))
	return nil
}

// insert types text at the caret. A range selection is replaced.
func (x *txn) insert(sel *selection.NodeRange, text string) error {
	if !sel.IsCollapsed() {
		return x.replace(sel, text)
	}
	n := sel.StartNode
	off := n.ClampOffset(sel.StartOffset)
	got, err := n.InsertText(x.registry, text, n.Start+off)
	if err != nil {
		return err
	}
	runes := utf8.RuneCountInString(text)
	if got == n {
		sel.CollapseTo(n, off+runes)
	} else {
		sel.CollapseTo(got, runes)
	}
	return nil
}

// replace deletes the range and types text at the resulting caret.
func (x *txn) replace(sel *selection.NodeRange, text string) error {
	if err := x.deleteRange(sel); err != nil {
		return err
	}
	x.tree.Recalculate()
	return x.insert(sel, text)
}

// backspace deletes the range, or the unit before a collapsed caret.
func (x *txn) backspace(sel *selection.NodeRange) error {
	if !sel.IsCollapsed() {
		return x.deleteRange(sel)
	}
	n := sel.StartNode
	off := n.ClampOffset(sel.StartOffset)
	if n.IsLeaf() && off > 0 {
		*sel = selection.NodeRange{StartNode: n, StartOffset: off - 1, EndNode: n, EndOffset: off}
		return x.deleteRange(sel)
	}

	pred, predOff := x.predecessor(n.Start + off)
	if pred == nil {
		sel.CollapseTo(n, off)
		return nil
	}
	*sel = selection.NodeRange{StartNode: pred, StartOffset: predOff, EndNode: n, EndOffset: off}
	return x.deleteRange(sel)
}

// predecessor finds the caret location one unit before pos. Boundaries of
// containers that enclose pos are stepped over; landing inside another
// container moves to the end of its deepest rightmost descendant.
func (x *txn) predecessor(pos int) (*node.Node, int) {
	origin := x.tree.FindByPosition(pos)
	p := pos - 1
	n := x.tree.FindByPosition(p)
	for n != nil && n.IsContainer() && p == n.Start && x.tree.IsAncestor(n, origin) {
		p--
		n = x.tree.FindByPosition(p)
	}
	if n == nil {
		return nil, 0
	}
	if n.IsContainer() {
		d := tree.DeepestRightmost(n)
		return d, d.ContentLength()
	}
	return n, n.ClampOffset(p - n.Start)
}

// caretBlock returns the container to split at the caret and its parent.
func (x *txn) caretBlock(caret *node.Node) (parent, grand *node.Node) {
	parent = caret
	if caret.IsLeaf() {
		parent = x.tree.ParentOf(caret)
	}
	if parent == nil {
		return nil, nil
	}
	return parent, x.tree.ParentOf(parent)
}

// enter splits the caret's block in two and moves the caret to the start
// of the new block.
func (x *txn) enter(sel *selection.NodeRange) error {
	if err := x.deleteRange(sel); err != nil {
		return err
	}
	x.tree.Recalculate()

	caret := sel.StartNode
	off := caret.ClampOffset(sel.StartOffset)
	parent, grand := x.caretBlock(caret)
	if grand == nil {
		x.warn(fmt.Errorf("%w: %s", ErrNoParent, caret))
		return nil
	}
	sibling, err := parent.Split(x.registry, caret.Start+off)
	if err != nil {
		return err
	}
	grand.InsertChild(grand.IndexOf(parent)+1, sibling)
	x.tree.Recalculate()

	sel.CollapseTo(tree.DeepestLeftmost(sibling), 0)
	return nil
}

// insertNodes pastes copies of nodes at the caret. The caret's block is
// split first; a non-blank remainder is kept and fused back onto the end of
// the pasted content.
func (x *txn) insertNodes(sel *selection.NodeRange, nodes []*node.Node) error {
	if err := x.deleteRange(sel); err != nil {
		return err
	}
	x.tree.Recalculate()

	caret := sel.StartNode
	off := caret.ClampOffset(sel.StartOffset)
	parent, grand := x.caretBlock(caret)

	var tail *node.Node
	if parent != nil && grand != nil {
		rest, err := parent.Split(x.registry, caret.Start+off)
		if err != nil {
			return err
		}
		if !rest.IsBlank() {
			grand.InsertChild(grand.IndexOf(parent)+1, rest)
			tail = rest
		}
		x.tree.Recalculate()
	}

	for _, src := range nodes {
		if src == nil {
			continue
		}
		n := src.CloneFresh()
		if !x.place(caret, n) {
			x.warn(fmt.Errorf("%w: %s at %s", schema.ErrRejected, n.Name, caret))
			continue
		}
		caret = tree.DeepestRightmost(n)
		off = caret.ContentLength()
		x.tree.Recalculate()
	}
	sel.CollapseTo(caret, off)

	if tail != nil && x.tree.Attached(tail) {
		fuse := selection.NodeRange{}
		fuse.CollapseTo(tree.DeepestLeftmost(tail), 0)
		if err := x.backspace(&fuse); err != nil {
			return err
		}
		x.tree.Recalculate()
	}
	return nil
}

// place inserts n next to caret, trying the caret node, then its parent,
// then its grandparent.
func (x *txn) place(caret, n *node.Node) bool {
	if caret.IsContainer() && x.schema.Accepts(caret.Name, n.Name) {
		caret.AppendChild(n)
		return true
	}
	parent := x.tree.ParentOf(caret)
	if parent == nil {
		return false
	}
	if x.schema.Accepts(parent.Name, n.Name) {
		parent.InsertChild(parent.IndexOf(caret)+1, n)
		return true
	}
	grand := x.tree.ParentOf(parent)
	if grand != nil && x.schema.Accepts(grand.Name, n.Name) {
		grand.InsertChild(grand.IndexOf(parent)+1, n)
		return true
	}
	return false
}
