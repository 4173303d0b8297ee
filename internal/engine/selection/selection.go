// Package selection describes carets and ranges in two forms: by linear
// position, which survives commits, and by node reference, which is stable
// while a single snapshot is being edited.
package selection

import (
	"errors"
	"fmt"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/tree"
)

// ErrUnresolved indicates a position does not resolve to a node.
var ErrUnresolved = errors.New("selection: unresolved position")

// Marker is one end of a selection: the start position of a node plus an
// offset inside it.
type Marker struct {
	Position int
	Offset   int
}

// Range is a selection by position. Start and End are node start positions.
type Range struct {
	Start       int
	StartOffset int
	End         int
	EndOffset   int
}

// Caret returns a collapsed range.
func Caret(pos, offset int) Range {
	return Range{Start: pos, StartOffset: offset, End: pos, EndOffset: offset}
}

// Between returns a range from one marker to another.
func Between(from, to Marker) Range {
	return Range{Start: from.Position, StartOffset: from.Offset, End: to.Position, EndOffset: to.Offset}
}

// StartMarker returns the start end of r.
func (r Range) StartMarker() Marker {
	return Marker{Position: r.Start, Offset: r.StartOffset}
}

// EndMarker returns the end end of r.
func (r Range) EndMarker() Marker {
	return Marker{Position: r.End, Offset: r.EndOffset}
}

// IsCollapsed reports whether both ends coincide.
func (r Range) IsCollapsed() bool {
	return r.Start == r.End && r.StartOffset == r.EndOffset
}

func (r Range) String() string {
	if r.IsCollapsed() {
		return fmt.Sprintf("(%d+%d)", r.Start, r.StartOffset)
	}
	return fmt.Sprintf("(%d+%d..%d+%d)", r.Start, r.StartOffset, r.End, r.EndOffset)
}

// NodeRange is a selection by node reference.
type NodeRange struct {
	StartNode   *node.Node
	StartOffset int
	EndNode     *node.Node
	EndOffset   int
}

// StartPos returns the linear position of the start end.
func (r NodeRange) StartPos() int {
	return r.StartNode.Start + r.StartOffset
}

// EndPos returns the linear position of the end end.
func (r NodeRange) EndPos() int {
	return r.EndNode.Start + r.EndOffset
}

// IsCollapsed reports whether both ends refer to the same node and offset.
func (r NodeRange) IsCollapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

// Collapse moves the end onto the start.
func (r *NodeRange) Collapse() {
	r.EndNode = r.StartNode
	r.EndOffset = r.StartOffset
}

// CollapseTo places a caret at n, offset.
func (r *NodeRange) CollapseTo(n *node.Node, offset int) {
	r.StartNode, r.StartOffset = n, offset
	r.EndNode, r.EndOffset = n, offset
}

// Normalize swaps the ends when the end precedes the start. Positions must be current.
func (r *NodeRange) Normalize() {
	if r.EndPos() < r.StartPos() {
		r.StartNode, r.EndNode = r.EndNode, r.StartNode
		r.StartOffset, r.EndOffset = r.EndOffset, r.StartOffset
	}
}

// ToRange converts r to a position range. Positions must be current.
func (r NodeRange) ToRange() Range {
	return Range{
		Start:       r.StartNode.Start,
		StartOffset: r.StartNode.ClampOffset(r.StartOffset),
		End:         r.EndNode.Start,
		EndOffset:   r.EndNode.ClampOffset(r.EndOffset),
	}
}

// Resolve converts a position range into node references within t.
// A position that is not a node start resolves to the deepest node
// containing it, with the difference folded into the offset. Offsets are
// clamped to the node. The result is normalized.
func Resolve(t *tree.Tree, r Range) (NodeRange, error) {
	sn, so, err := ResolveMarker(t, r.StartMarker())
	if err != nil {
		return NodeRange{}, err
	}
	en, eo, err := ResolveMarker(t, r.EndMarker())
	if err != nil {
		return NodeRange{}, err
	}
	nr := NodeRange{StartNode: sn, StartOffset: so, EndNode: en, EndOffset: eo}
	nr.Normalize()
	return nr, nil
}

// ResolveMarker resolves one marker to a node and a clamped offset.
// A position on a container's closing edge resolves to the end of the
// content before it.
func ResolveMarker(t *tree.Tree, m Marker) (*node.Node, int, error) {
	n := t.FindByPosition(m.Position)
	if n == nil {
		return nil, 0, fmt.Errorf("%w: %d", ErrUnresolved, m.Position)
	}
	if n.IsContainer() && m.Position > n.Start {
		if prev := lastChildBefore(n, m.Position); prev != nil {
			d := tree.DeepestRightmost(prev)
			return d, d.ContentLength(), nil
		}
	}
	off := m.Offset + (m.Position - n.Start)
	return n, n.ClampOffset(off), nil
}

func lastChildBefore(n *node.Node, pos int) *node.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := n.Children[i]; c.End < pos {
			return c
		}
	}
	return nil
}
