// Package paste turns clipboard HTML into detached document nodes ready for
// an insert-nodes transaction.
//
// Block elements map to containers (p and li to paragraph, h1 to h6 to
// heading, blockquote to quote). Inline elements contribute style to the
// text leaves beneath them. Wrapper elements such as div and ul are
// transparent. Text that appears outside any block is returned as bare
// leaves so it lands inline at the caret.
package paste

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/logging"
)

// ErrParse is returned when the clipboard markup cannot be read.
var ErrParse = errors.New("paste: parse failed")

// Parser converts pasted markup into nodes.
type Parser interface {
	Parse(src string) ([]*node.Node, error)
}

// Block container names used by the HTML parser.
const (
	ParagraphName = "paragraph"
	HeadingName   = "heading"
	QuoteName     = "quote"
)

// HTMLParser is the default Parser. It builds every node through a
// registry, so the type names above must be registered.
type HTMLParser struct {
	registry *node.Registry
	logger   *logging.Logger
}

// Option configures an HTMLParser.
type Option func(*HTMLParser)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *HTMLParser) {
		if l != nil {
			p.logger = l.WithComponent("paste")
		}
	}
}

// NewHTMLParser creates a parser that builds nodes through reg.
func NewHTMLParser(reg *node.Registry, opts ...Option) *HTMLParser {
	if reg == nil {
		reg = node.DefaultRegistry()
	}
	p := &HTMLParser{registry: reg, logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse implements Parser.
func (p *HTMLParser) Parse(src string) ([]*node.Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	frags, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var out []*node.Node
	for _, f := range frags {
		nodes, err := p.visit(f, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	p.logger.Debug("parsed %d nodes from %d bytes", len(out), len(src))
	return out, nil
}

func (p *HTMLParser) visit(h *html.Node, style map[string]string) ([]*node.Node, error) {
	switch h.Type {
	case html.TextNode:
		text := collapseSpace(h.Data)
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		leaf, err := p.text(text, style)
		if err != nil {
			return nil, err
		}
		return []*node.Node{leaf}, nil
	case html.ElementNode:
		return p.element(h, style)
	case html.DocumentNode:
		return p.children(h, style)
	}
	return nil, nil
}

func (p *HTMLParser) children(h *html.Node, style map[string]string) ([]*node.Node, error) {
	var out []*node.Node
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		nodes, err := p.visit(c, style)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (p *HTMLParser) element(h *html.Node, style map[string]string) ([]*node.Node, error) {
	switch h.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Meta, atom.Link, atom.Br:
		return nil, nil
	case atom.P, atom.Li, atom.Pre:
		return p.block(h, ParagraphName, nil, style)
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := strconv.Itoa(int(h.Data[1] - '0'))
		return p.block(h, HeadingName, map[string]string{"level": level}, style)
	case atom.Blockquote:
		return p.quote(h, style)
	}
	return p.children(h, inherit(style, h))
}

// block builds a paragraph-like container. Nested blocks are flattened into
// their text leaves.
func (p *HTMLParser) block(h *html.Node, name string, blockStyle, style map[string]string) ([]*node.Node, error) {
	kids, err := p.children(h, inherit(style, h))
	if err != nil {
		return nil, err
	}
	c, err := p.registry.Create(name, blockStyle, nil)
	if err != nil {
		return nil, err
	}
	for _, k := range kids {
		for _, leaf := range leaves(k) {
			c.AppendChild(leaf)
		}
	}
	return []*node.Node{c}, nil
}

// quote builds a quote container. Loose text inside it is wrapped in
// paragraphs.
func (p *HTMLParser) quote(h *html.Node, style map[string]string) ([]*node.Node, error) {
	kids, err := p.children(h, inherit(style, h))
	if err != nil {
		return nil, err
	}
	q, err := p.registry.Create(QuoteName, nil, nil)
	if err != nil {
		return nil, err
	}
	var run *node.Node
	for _, k := range kids {
		if k.IsContainer() {
			run = nil
			q.AppendChild(k)
			continue
		}
		if run == nil {
			run, err = p.registry.Create(ParagraphName, nil, nil)
			if err != nil {
				return nil, err
			}
			q.AppendChild(run)
		}
		run.AppendChild(k)
	}
	return []*node.Node{q}, nil
}

func (p *HTMLParser) text(text string, style map[string]string) (*node.Node, error) {
	leaf, err := p.registry.Create(p.registry.TextName(), style, map[string]any{node.TextKey: text})
	if err != nil {
		return nil, err
	}
	if !leaf.IsLeaf() {
		return nil, fmt.Errorf("%w: %q is not a leaf type", node.ErrKindMismatch, leaf.Name)
	}
	return leaf, nil
}

func leaves(n *node.Node) []*node.Node {
	if n.IsLeaf() {
		return []*node.Node{n}
	}
	var out []*node.Node
	for _, c := range n.Children {
		out = append(out, leaves(c)...)
	}
	return out
}

// inherit returns style extended with whatever h contributes. The input map
// is never modified.
func inherit(style map[string]string, h *html.Node) map[string]string {
	add := inlineStyle(h)
	if len(add) == 0 {
		return style
	}
	out := node.CopyStyle(style)
	for k, v := range add {
		out[k] = v
	}
	return out
}

func inlineStyle(h *html.Node) map[string]string {
	out := make(map[string]string)
	switch h.DataAtom {
	case atom.B, atom.Strong:
		out["font-weight"] = "bold"
	case atom.I, atom.Em:
		out["font-style"] = "italic"
	case atom.U, atom.Ins:
		out["text-decoration"] = "underline"
	case atom.S, atom.Del, atom.Strike:
		out["text-decoration"] = "line-through"
	case atom.Code, atom.Kbd, atom.Samp:
		out["font-family"] = "monospace"
	}
	for _, a := range h.Attr {
		if a.Key == "style" {
			for k, v := range parseStyleAttr(a.Val) {
				out[k] = v
			}
		}
	}
	return out
}

// parseStyleAttr reads "prop: value; prop: value" pairs.
func parseStyleAttr(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// collapseSpace folds runs of HTML whitespace into single spaces.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			if !space {
				b.WriteByte(' ')
			}
			space = true
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return b.String()
}
