// Package node provides the document tree node and the structural edit
// algorithms that operate on a single node or a small neighborhood.
//
// # Node Kinds
//
// A Node is a small closed tagged variant. Every node is either a
// container, which owns an ordered list of children, or a leaf, which holds
// text in Data["text"] and has no children. Operations such as Length,
// CalPosition, Delete, InsertText, Split and Merge dispatch on Kind.
//
// # Linear Positions
//
// Every node carries a computed interval [Start, End]. Positions are derived
// by CalPosition and become stale after any structural change:
//
//	root.CalPosition(-1)
//
//	root      [0, 10]
//	paragraph [1,  9]
//	text      [2,  8]  "Hello"
//
// A leaf spans its text length plus one reserved unit so a caret can sit
// after the last character. An empty container still spans one unit.
//
// # Construction
//
// Nodes that algorithms fabricate (split siblings, text leaves for empty
// containers, pasted content) are built through a Registry keyed by type
// name, so no algorithm hardcodes a concrete type:
//
//	reg := node.DefaultRegistry()
//	p, err := reg.Create("paragraph", nil, nil)
//
// # Leniency
//
// Offsets computed from positions are clamped into the owning node's valid
// range instead of being reported as errors. Stale or slightly-off positions
// therefore degrade gracefully.
package node
