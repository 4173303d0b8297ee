package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/aditor/internal/document/node"
)

func helloRecord() Record {
	return Record{
		Name: "root", Type: "child", Style: map[string]string{}, Data: map[string]any{},
		Children: []Record{{
			Name: "paragraph", Type: "child", Style: map[string]string{}, Data: map[string]any{},
			Children: []Record{{
				Name: "text", Type: "leaf",
				Style: map[string]string{"color": "red"},
				Data:  map[string]any{"text": "Hello"},
			}},
		}},
	}
}

func TestLoad_Hello(t *testing.T) {
	root, err := Load(helloRecord(), node.DefaultRegistry())
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	para := root.Children[0]
	require.Len(t, para.Children, 1)
	text := para.Children[0]

	assert.Equal(t, node.KindLeaf, text.Kind)
	assert.Equal(t, "Hello", text.Text())
	assert.Equal(t, "red", text.Style["color"])
	assert.Equal(t, [2]int{0, 10}, [2]int{root.Start, root.End})
	assert.Equal(t, [2]int{2, 8}, [2]int{text.Start, text.End})
}

func TestLoad_Errors(t *testing.T) {
	reg := node.DefaultRegistry()
	tests := []struct {
		name string
		rec  Record
		is   error
	}{
		{
			name: "unknown type",
			rec:  Record{Name: "root", Type: "child", Children: []Record{{Name: "table", Type: "child"}}},
			is:   node.ErrUnknownType,
		},
		{
			name: "kind mismatch",
			rec:  Record{Name: "root", Type: "child", Children: []Record{{Name: "text", Type: "child"}}},
			is:   node.ErrKindMismatch,
		},
		{
			name: "bad kind",
			rec:  Record{Name: "root", Type: "branch"},
		},
		{
			name: "leaf with children",
			rec:  Record{Name: "text", Type: "leaf", Children: []Record{{Name: "text", Type: "leaf"}}},
		},
		{
			name: "non-string text",
			rec:  Record{Name: "text", Type: "leaf", Data: map[string]any{"text": 42}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.rec, reg)
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoad_MissingTextBecomesEmpty(t *testing.T) {
	n, err := Load(Record{Name: "text", Type: "leaf"}, node.DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "", n.Text())
	assert.Equal(t, 1, n.End-n.Start)
}

func TestFromNode_RoundTrip(t *testing.T) {
	reg := node.DefaultRegistry()
	src := helloRecord()
	src.Children = append(src.Children, Record{
		Name: "quote", Type: "child", Style: map[string]string{"indent": "2"}, Data: map[string]any{},
		Children: []Record{{Name: "paragraph", Type: "child", Style: map[string]string{}, Data: map[string]any{}}},
	})

	root, err := Load(src, reg)
	require.NoError(t, err)

	again, err := Load(FromNode(root), reg)
	require.NoError(t, err)

	assert.Equal(t, FromNode(root), FromNode(again))
	assert.Equal(t, root.End, again.End)
	assert.NotEqual(t, root.ID(), again.ID())
}

func TestCodec_RoundTrip(t *testing.T) {
	reg := node.DefaultRegistry()
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(helloRecord(), f)
			require.NoError(t, err)

			rec, err := Decode(data, f)
			require.NoError(t, err)

			root, err := Load(rec, reg)
			require.NoError(t, err)
			assert.Equal(t, "Hello", root.PlainText())
			assert.Equal(t, "red", root.Children[0].Children[0].Style["color"])
			assert.Equal(t, 10, root.End)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"doc.json":      FormatJSON,
		"doc.YAML":      FormatYAML,
		"a/b/doc.yml":   FormatYAML,
		"notes.v1.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("doc.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("{not json"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(nil, Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNodes(t *testing.T) {
	reg := node.DefaultRegistry()
	nodes, err := Nodes([]Record{
		{Name: "paragraph", Type: "child", Children: []Record{{Name: "text", Type: "leaf", Data: map[string]any{"text": "a"}}}},
		{Name: "heading", Type: "child"},
	}, reg)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].PlainText())
	assert.Equal(t, "heading", nodes[1].Name)
}
