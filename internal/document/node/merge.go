package node

import "fmt"

// Merge appends other's children to n and empties other.
// Leaves do not merge; the call is a no-op. Containers of different types
// return ErrIncompatibleMerge and are left unchanged.
func (n *Node) Merge(other *Node) error {
	if n.Kind != KindContainer || other == nil || other.Kind != KindContainer {
		return nil
	}
	if n.Name != other.Name {
		return fmt.Errorf("%w: %s into %s", ErrIncompatibleMerge, other.Name, n.Name)
	}
	n.Children = append(n.Children, other.Children...)
	other.Children = nil
	return nil
}

// SelfMerge coalesces adjacent same-type container children of n that
// overlap [rangeStart, rangeEnd], then recurses into the result.
// Running it twice is the same as running it once.
func (n *Node) SelfMerge(rangeStart, rangeEnd int) {
	if n.Kind != KindContainer {
		return
	}
	if n.End < rangeStart || n.Start > rangeEnd {
		return
	}
	if len(n.Children) > 1 {
		merged := make([]*Node, 0, len(n.Children))
		for _, c := range n.Children {
			if len(merged) > 0 {
				prev := merged[len(merged)-1]
				if canCoalesce(prev, c) && prev.End >= rangeStart && c.Start <= rangeEnd {
					prev.Children = append(prev.Children, c.Children...)
					prev.End = c.End
					c.Children = nil
					continue
				}
			}
			merged = append(merged, c)
		}
		n.Children = merged
	}
	for _, c := range n.Children {
		c.SelfMerge(rangeStart, rangeEnd)
	}
}

func canCoalesce(a, b *Node) bool {
	return a.Kind == KindContainer && b.Kind == KindContainer && a.Name == b.Name
}
