// Package export renders a document tree as HTML or plain text.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/tree"
	"github.com/dshills/aditor/internal/engine/selection"
)

// Options controls HTML output.
type Options struct {
	// Keys adds an id to every element, keyed by the node's start position
	// the way selection.KeyResolver expects, so a view can map its native
	// selection back to positions.
	Keys bool
	// KeyPrefix overrides selection.DefaultKeyPrefix.
	KeyPrefix string
}

// HTML renders root's children as HTML. The root itself is not wrapped.
func HTML(root *node.Node, opts Options) string {
	if root == nil {
		return ""
	}
	r := renderer{opts: opts}
	if r.opts.KeyPrefix == "" {
		r.opts.KeyPrefix = selection.DefaultKeyPrefix
	}
	for _, c := range root.Children {
		r.node(c)
	}
	return r.b.String()
}

// Text renders the document as plain text, one line per top-level block.
func Text(root *node.Node) string {
	return (&tree.Tree{Root: root}).Text()
}

type renderer struct {
	b    strings.Builder
	opts Options
}

func (r *renderer) node(n *node.Node) {
	if n.IsLeaf() {
		r.leaf(n)
		return
	}

	switch n.Name {
	case "paragraph":
		r.open("p", n, nil)
		r.children(n)
		r.b.WriteString("</p>\n")
	case "heading":
		tag := "h" + strconv.Itoa(headingLevel(n))
		r.open(tag, n, nil)
		r.children(n)
		fmt.Fprintf(&r.b, "</%s>\n", tag)
	case "quote":
		r.open("blockquote", n, nil)
		r.b.WriteString("\n")
		r.children(n)
		r.b.WriteString("</blockquote>\n")
	default:
		// Unknown container type - render as a generic block.
		r.open("div", n, map[string]string{"class": n.Name})
		r.children(n)
		r.b.WriteString("</div>\n")
	}
}

func (r *renderer) children(n *node.Node) {
	for _, c := range n.Children {
		r.node(c)
	}
}

func (r *renderer) leaf(n *node.Node) {
	text := html.EscapeString(n.Text())
	if len(n.Style) == 0 && !r.opts.Keys {
		r.b.WriteString(text)
		return
	}
	var extra map[string]string
	if css := inlineCSS(n.Style); css != "" {
		extra = map[string]string{"style": css}
	}
	r.open("span", n, extra)
	r.b.WriteString(text)
	r.b.WriteString("</span>")
}

func (r *renderer) open(tag string, n *node.Node, attrs map[string]string) {
	r.b.WriteString("<" + tag)
	if r.opts.Keys {
		fmt.Fprintf(&r.b, ` id="%s%d"`, r.opts.KeyPrefix, n.Start)
	}
	for _, k := range sortedKeys(attrs) {
		fmt.Fprintf(&r.b, ` %s="%s"`, k, html.EscapeString(attrs[k]))
	}
	r.b.WriteString(">")
}

// headingLevel reads style.level, clamped to 1..6.
func headingLevel(n *node.Node) int {
	level, err := strconv.Atoi(n.Style["level"])
	if err != nil || level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

func inlineCSS(style map[string]string) string {
	parts := make([]string, 0, len(style))
	for _, k := range sortedKeys(style) {
		parts = append(parts, k+": "+style[k])
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Outline renders one line per node, indented by depth, with its interval.
func Outline(root *node.Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	tree.Walk(root, func(n *node.Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.String())
		if len(n.Style) > 0 {
			b.WriteString(" {" + inlineCSS(n.Style) + "}")
		}
		b.WriteString("\n")
		return true
	})
	return b.String()
}
