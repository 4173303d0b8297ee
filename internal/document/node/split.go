package node

// Split divides n at position at and returns the new right-hand sibling.
//
// A leaf keeps the text before the offset and returns a new leaf of the same
// type holding the rest; it returns nil when at is outside [Start, End].
// A container returns a new container of the same type that receives the
// children from the split point onward, including the right half of the
// child that contains at. Splitting at or before the container's start
// moves every child. The sibling is created through reg, so its type must be
// registered.
func (n *Node) Split(reg *Registry, at int) (*Node, error) {
	if n.Kind == KindLeaf {
		if at < n.Start || at > n.End {
			return nil, nil
		}
		runes := []rune(n.Text())
		off := clamp(at-n.Start, 0, len(runes))
		data := CopyData(n.Data)
		data[TextKey] = string(runes[off:])
		sibling, err := reg.Create(n.Name, n.Style, data)
		if err != nil {
			return nil, err
		}
		n.SetText(string(runes[:off]))
		return sibling, nil
	}

	sibling, err := reg.Create(n.Name, n.Style, n.Data)
	if err != nil {
		return nil, err
	}
	if sibling.Kind != KindContainer {
		return nil, ErrKindMismatch
	}
	if at <= n.Start {
		sibling.Children = n.Children
		n.Children = nil
		return sibling, nil
	}
	for i, c := range n.Children {
		if !c.Contains(at) {
			continue
		}
		rest, err := c.Split(reg, at)
		if err != nil {
			return nil, err
		}
		moved := make([]*Node, 0, len(n.Children)-i)
		if rest != nil {
			moved = append(moved, rest)
		}
		moved = append(moved, n.Children[i+1:]...)
		sibling.Children = moved
		n.Children = n.Children[: i+1 : i+1]
		return sibling, nil
	}
	// No child holds at. Children starting after it move; usually none do.
	for i, c := range n.Children {
		if c.Start > at {
			sibling.Children = append([]*Node(nil), n.Children[i:]...)
			n.Children = n.Children[:i:i]
			break
		}
	}
	return sibling, nil
}
