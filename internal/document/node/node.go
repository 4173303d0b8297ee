package node

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TextKey is the Data key holding a leaf's text.
const TextKey = "text"

// Kind tags the variant of a Node.
type Kind uint8

const (
	// KindContainer is a node that owns an ordered list of children.
	KindContainer Kind = iota
	// KindLeaf is a node holding text and no children.
	KindLeaf
)

// String returns the serialized name of the kind.
func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "child"
	case KindLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// ParseKind parses the serialized name of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "child":
		return KindContainer, nil
	case "leaf":
		return KindLeaf, nil
	default:
		return 0, fmt.Errorf("node: invalid kind %q", s)
	}
}

// Node is an element of the document tree.
//
// Start and End are derived by CalPosition and are only trustworthy right
// after a position pass. Children is nil for leaves.
type Node struct {
	id string

	Name  string
	Kind  Kind
	Start int
	End   int
	Style map[string]string
	Data  map[string]any

	Children []*Node
}

// NewContainer creates a container node with no children.
func NewContainer(name string, style map[string]string, data map[string]any) *Node {
	return &Node{
		id:    uuid.NewString(),
		Name:  name,
		Kind:  KindContainer,
		Style: ensureStyle(style),
		Data:  ensureData(data),
	}
}

// NewLeaf creates a leaf node. A missing or non-string text entry becomes "".
func NewLeaf(name string, style map[string]string, data map[string]any) *Node {
	data = ensureData(data)
	if _, ok := data[TextKey].(string); !ok {
		data[TextKey] = ""
	}
	return &Node{
		id:    uuid.NewString(),
		Name:  name,
		Kind:  KindLeaf,
		Style: ensureStyle(style),
		Data:  data,
	}
}

// ID returns the node's stable identity.
func (n *Node) ID() string {
	return n.id
}

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// IsContainer reports whether n is a container.
func (n *Node) IsContainer() bool {
	return n.Kind == KindContainer
}

// Text returns a leaf's text, or "" for containers.
func (n *Node) Text() string {
	if n.Kind != KindLeaf {
		return ""
	}
	s, _ := n.Data[TextKey].(string)
	return s
}

// SetText replaces a leaf's text. It is a no-op on containers.
func (n *Node) SetText(text string) {
	if n.Kind != KindLeaf {
		return
	}
	n.Data[TextKey] = text
}

// Length returns the node's content length.
// For a leaf this is the rune count of its text; for a container it is the
// sum of the children's lengths plus one unit per child.
func (n *Node) Length() int {
	if n.Kind == KindLeaf {
		return utf8.RuneCountInString(n.Text())
	}
	total := 0
	for _, c := range n.Children {
		total += c.Length() + 1
	}
	return total
}

// ContentLength returns the caret offset at the end of n's own content:
// the text length for a leaf, 0 for a container.
func (n *Node) ContentLength() int {
	if n.Kind == KindLeaf {
		return utf8.RuneCountInString(n.Text())
	}
	return 0
}

// Span returns End - Start.
func (n *Node) Span() int {
	return n.End - n.Start
}

// Contains reports whether pos lies within [Start, End], inclusive of both ends.
func (n *Node) Contains(pos int) bool {
	return pos >= n.Start && pos <= n.End
}

// ClampOffset clamps an intra-node offset into n's valid caret range.
func (n *Node) ClampOffset(offset int) int {
	return clamp(offset, 0, n.ContentLength())
}

// IsBlank reports whether n holds no text anywhere in its subtree.
func (n *Node) IsBlank() bool {
	if n.Kind == KindLeaf {
		return n.Text() == ""
	}
	for _, c := range n.Children {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// PlainText concatenates the text of every leaf under n in document order.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if n.Kind == KindLeaf {
		b.WriteString(n.Text())
		return
	}
	for _, c := range n.Children {
		c.writeText(b)
	}
}

// IndexOf returns the index of child in n's children by identity, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// InsertChild inserts child at index i, clamped to the valid range.
func (n *Node) InsertChild(i int, child *Node) {
	if n.Kind != KindContainer {
		return
	}
	i = clamp(i, 0, len(n.Children))
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// AppendChild appends children to n.
func (n *Node) AppendChild(children ...*Node) {
	if n.Kind != KindContainer {
		return
	}
	n.Children = append(n.Children, children...)
}

// RemoveChild removes child by identity and reports whether it was present.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.IndexOf(child)
	if i < 0 {
		return false
	}
	n.Children = append(n.Children[:i:i], n.Children[i+1:]...)
	return true
}

// Clone returns a deep copy of n that keeps every node's identity.
func (n *Node) Clone() *Node {
	return n.clone(false)
}

// CloneFresh returns a deep copy of n in which every node gets a new identity.
func (n *Node) CloneFresh() *Node {
	return n.clone(true)
}

func (n *Node) clone(fresh bool) *Node {
	c := &Node{
		id:    n.id,
		Name:  n.Name,
		Kind:  n.Kind,
		Start: n.Start,
		End:   n.End,
		Style: CopyStyle(n.Style),
		Data:  CopyData(n.Data),
	}
	if fresh {
		c.id = uuid.NewString()
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone(fresh)
		}
	}
	return c
}

// String returns a compact description used in logs and test failures.
func (n *Node) String() string {
	if n.Kind == KindLeaf {
		return fmt.Sprintf("%s[%d,%d]%q", n.Name, n.Start, n.End, n.Text())
	}
	return fmt.Sprintf("%s[%d,%d](%d)", n.Name, n.Start, n.End, len(n.Children))
}

// CopyStyle returns a copy of a style map; nil becomes an empty map.
func CopyStyle(style map[string]string) map[string]string {
	out := make(map[string]string, len(style))
	for k, v := range style {
		out[k] = v
	}
	return out
}

// CopyData returns a deep copy of a payload map; nil becomes an empty map.
func CopyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CopyData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}

func ensureStyle(style map[string]string) map[string]string {
	if style == nil {
		return make(map[string]string)
	}
	return style
}

func ensureData(data map[string]any) map[string]any {
	if data == nil {
		return make(map[string]any)
	}
	return data
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
