package tree

import (
	"errors"
	"fmt"

	"github.com/dshills/aditor/internal/document/node"
)

// ErrInvalidPositions indicates the tree's intervals violate the position rules.
var ErrInvalidPositions = errors.New("tree: invalid positions")

// Violation describes one node whose interval is inconsistent.
type Violation struct {
	Node   *node.Node
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Node, v.Reason)
}

// Check reports every interval violation in the tree without modifying it.
func (t *Tree) Check() []Violation {
	if t.Root == nil {
		return nil
	}
	var out []Violation
	Walk(t.Root, func(n *node.Node, _ int) bool {
		if n.Start > n.End {
			out = append(out, Violation{n, "start after end"})
		}
		if n.IsLeaf() {
			if len(n.Children) > 0 {
				out = append(out, Violation{n, "leaf has children"})
			}
			if n.Span() != n.Length()+1 {
				out = append(out, Violation{n, fmt.Sprintf("span %d, want %d", n.Span(), n.Length()+1)})
			}
			return false
		}
		if len(n.Children) == 0 {
			if n.Span() != 1 {
				out = append(out, Violation{n, fmt.Sprintf("empty container span %d, want 1", n.Span())})
			}
			return false
		}
		prev := n.Start
		for i, c := range n.Children {
			if c.Start <= n.Start || c.End >= n.End {
				out = append(out, Violation{c, "not nested in parent"})
			}
			if i > 0 && c.Start <= prev {
				out = append(out, Violation{c, "overlaps previous sibling"})
			}
			if c.Start != prev+1 {
				out = append(out, Violation{c, fmt.Sprintf("starts at %d, want %d", c.Start, prev+1)})
			}
			prev = c.End
		}
		if n.End != prev+1 {
			out = append(out, Violation{n, fmt.Sprintf("ends at %d, want %d", n.End, prev+1)})
		}
		return true
	})
	return out
}

// Validate returns ErrInvalidPositions describing the first violation, or nil.
func (t *Tree) Validate() error {
	v := t.Check()
	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s (%d total)", ErrInvalidPositions, v[0], len(v))
}
