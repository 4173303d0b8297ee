package paste

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/aditor/internal/document/node"
)

func parse(t *testing.T, src string) []*node.Node {
	t.Helper()
	nodes, err := NewHTMLParser(nil).Parse(src)
	require.NoError(t, err)
	return nodes
}

func TestParse_Blocks(t *testing.T) {
	nodes := parse(t, "<p>Hello <b>World</b></p><h2>Title</h2><blockquote>said</blockquote>")
	require.Len(t, nodes, 3)

	p := nodes[0]
	assert.Equal(t, ParagraphName, p.Name)
	require.Len(t, p.Children, 2)
	assert.Equal(t, "Hello ", p.Children[0].Text())
	assert.Empty(t, p.Children[0].Style)
	assert.Equal(t, "World", p.Children[1].Text())
	assert.Equal(t, "bold", p.Children[1].Style["font-weight"])

	h := nodes[1]
	assert.Equal(t, HeadingName, h.Name)
	assert.Equal(t, "2", h.Style["level"])
	assert.Equal(t, "Title", h.PlainText())

	q := nodes[2]
	assert.Equal(t, QuoteName, q.Name)
	require.Len(t, q.Children, 1)
	assert.Equal(t, ParagraphName, q.Children[0].Name)
	assert.Equal(t, "said", q.Children[0].PlainText())
}

func TestParse_LooseTextStaysInline(t *testing.T) {
	nodes := parse(t, "just <i>text</i>")
	require.Len(t, nodes, 2)
	for _, n := range nodes {
		assert.True(t, n.IsLeaf())
	}
	assert.Equal(t, "just ", nodes[0].Text())
	assert.Equal(t, "italic", nodes[1].Style["font-style"])
}

func TestParse_WrappersAreTransparent(t *testing.T) {
	nodes := parse(t, "<div>\n  <p>a</p>\n  <ul><li>b</li><li>c</li></ul>\n</div>")
	require.Len(t, nodes, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, ParagraphName, nodes[i].Name)
		assert.Equal(t, want, nodes[i].PlainText())
	}
}

func TestParse_NestedBlocksFlatten(t *testing.T) {
	nodes := parse(t, "<h1>x<p>y</p></h1>")
	require.Len(t, nodes, 1)
	assert.Equal(t, HeadingName, nodes[0].Name)
	require.Len(t, nodes[0].Children, 2)
	assert.True(t, nodes[0].Children[1].IsLeaf())
	assert.Equal(t, "xy", nodes[0].PlainText())
}

func TestParse_StyleAttributeAndNesting(t *testing.T) {
	nodes := parse(t, `<p><span style="color: red; font-size:12px"><b>hot</b></span></p>`)
	require.Len(t, nodes, 1)
	leaf := nodes[0].Children[0]
	assert.Equal(t, map[string]string{
		"color":       "red",
		"font-size":   "12px",
		"font-weight": "bold",
	}, leaf.Style)
}

func TestParse_SkipsScriptsAndWhitespace(t *testing.T) {
	assert.Empty(t, parse(t, "<script>alert(1)</script>  \n <style>p{}</style>"))
	nodes := parse(t, "<p>a   \n  b</p>")
	assert.Equal(t, "a b", nodes[0].PlainText())
}

func TestParse_EmptyParagraph(t *testing.T) {
	nodes := parse(t, "<p></p>")
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].IsContainer())
	assert.Empty(t, nodes[0].Children)
}

func TestParse_UnknownTypeFails(t *testing.T) {
	reg := node.NewRegistry()
	reg.Register("text", node.LeafConstructor)

	_, err := NewHTMLParser(reg).Parse("<p>a</p>")
	assert.ErrorIs(t, err, node.ErrUnknownType)

	nodes, err := NewHTMLParser(reg).Parse("inline only")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestParseStyleAttr(t *testing.T) {
	assert.Equal(t, map[string]string{"color": "blue"}, parseStyleAttr(" Color : blue ; ; junk; x:"))
}
