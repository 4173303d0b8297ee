package loader

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	fsys := fstest.MapFS{
		"aditor.toml": {Data: []byte("[editor]\ntext_node = \"span\"\ncomposition_delay = \"30ms\"\n")},
		"aditor.yml":  {Data: []byte("editor:\n  text_node: span\nschema:\n  rules:\n    root: [paragraph]\n")},
		"broken.toml": {Data: []byte("[editor\n")},
	}

	l, err := ForPath(fsys, "aditor.toml")
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "span", cfg["editor"].(map[string]any)["text_node"])

	l, err = ForPath(fsys, "aditor.yml")
	require.NoError(t, err)
	cfg, err = l.Load()
	require.NoError(t, err)
	rules := cfg["schema"].(map[string]any)["rules"].(map[string]any)
	assert.Equal(t, []any{"paragraph"}, rules["root"])

	l, err = ForPath(fsys, "missing.yaml")
	require.NoError(t, err)
	cfg, err = l.Load()
	assert.NoError(t, err)
	assert.Nil(t, cfg)

	l, err = ForPath(fsys, "broken.toml")
	require.NoError(t, err)
	_, err = l.Load()
	var perr *ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken.toml", perr.Path)

	_, err = ForPath(fsys, "aditor.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvLoader(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"ADITOR_EDITOR_COMPOSITION_DELAY=50ms",
			"ADITOR_EDITOR_METRICS=true",
			"ADITOR_LOG_LEVEL=debug",
			"ADITOR_LOG_MAX_SIZE_MB=5",
			"ADITOR_CONFIG=/etc/aditor.toml",
			"ADITOR_SIMPLE=x",
			"HOME=/root",
			"garbage",
		}
	}
	l.AddMapping("EDITOR_TEXT", "editor.text_node")
	l.environ = appendEnv(l.environ, "EDITOR_TEXT=span")

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"editor": map[string]any{
			"composition_delay": 50 * time.Millisecond,
			"metrics":           true,
			"text_node":         "span",
		},
		"log": map[string]any{
			"level":       "debug",
			"max_size_mb": int64(5),
		},
		"simple": "x",
	}, cfg)
}

func appendEnv(f func() []string, kv ...string) func() []string {
	return func() []string { return append(f(), kv...) }
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"Off", false},
		{"42", int64(42)},
		{"1", int64(1)},
		{"2.5", 2.5},
		{"1s", time.Second},
		{"hello", "hello"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), tt.in)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{"editor": map[string]any{"a": 1, "b": 2}, "x": 1}
	src := map[string]any{"editor": map[string]any{"b": 3}, "x": map[string]any{"y": 1}}
	assert.Equal(t, map[string]any{
		"editor": map[string]any{"a": 1, "b": 3},
		"x":      map[string]any{"y": 1},
	}, DeepMerge(dst, src))
	assert.Equal(t, map[string]any{}, DeepMerge(nil, nil))
}
