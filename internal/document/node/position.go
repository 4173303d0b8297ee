package node

// CalPosition assigns Start and End to n and its subtree, given the end
// position of whatever precedes n. It returns n.End.
func (n *Node) CalPosition(prevEnd int) int {
	n.Start = prevEnd + 1
	if n.Kind == KindLeaf {
		n.End = n.Start + n.Length() + 1
		return n.End
	}
	if len(n.Children) == 0 {
		n.End = n.Start + 1
		return n.End
	}
	last := n.Start
	for i, c := range n.Children {
		if i == 0 {
			last = c.CalPosition(n.Start)
			continue
		}
		last = c.CalPosition(last)
	}
	n.End = last + 1
	return n.End
}
