package node

// InsertText inserts text at position at and returns the node that received it.
//
// A leaf splices text at the clamped offset. An empty container fabricates a
// text leaf through reg and appends it. Any other container delegates to its
// first child; callers are expected to resolve at to a concrete node first.
func (n *Node) InsertText(reg *Registry, text string, at int) (*Node, error) {
	if n.Kind == KindLeaf {
		runes := []rune(n.Text())
		off := clamp(at-n.Start, 0, len(runes))
		out := make([]rune, 0, len(runes)+len(text))
		out = append(out, runes[:off]...)
		out = append(out, []rune(text)...)
		out = append(out, runes[off:]...)
		n.SetText(string(out))
		return n, nil
	}
	if len(n.Children) == 0 {
		leaf, err := reg.NewText(text)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, leaf)
		return leaf, nil
	}
	return n.Children[0].InsertText(reg, text, at)
}

// Delete removes the content of n that lies in [rangeStart, rangeEnd].
//
// A leaf removes the runes between the two clamped offsets and is never
// removed itself. A container deletes in every child first and then drops
// children that are fully inside the range and left empty, except the child
// starting exactly at rangeStart, which hosts the caret.
func (n *Node) Delete(rangeStart, rangeEnd int) {
	if n.Kind == KindLeaf {
		runes := []rune(n.Text())
		from := clamp(rangeStart-n.Start, 0, len(runes))
		to := clamp(rangeEnd-n.Start, 0, len(runes))
		if to <= from {
			return
		}
		n.SetText(string(runes[:from]) + string(runes[to:]))
		return
	}
	if n.End <= rangeStart || n.Start >= rangeEnd {
		return
	}
	for _, c := range n.Children {
		c.Delete(rangeStart, rangeEnd)
	}
	kept := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		inside := c.Start >= rangeStart && c.End <= rangeEnd
		if inside && c.Length() == 0 && c.Start != rangeStart {
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
}
