package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/aditor/internal/config"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/event"
	"github.com/dshills/aditor/internal/input"
)

// ============================================================================
// Helpers
// ============================================================================

func newApp(t *testing.T, configPath string) *Application {
	t.Helper()
	app, err := New(Options{
		ConfigPath:    configPath,
		LogLevel:      "error",
		ConfigOptions: []config.Option{config.WithoutEnv()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown() })
	return app
}

func doc(paras ...string) record.Record {
	root := record.Record{Name: "root", Type: "child"}
	for _, p := range paras {
		root.Children = append(root.Children, record.Record{
			Name: "paragraph", Type: "child",
			Children: []record.Record{{Name: "text", Type: "leaf", Data: map[string]any{"text": p}}},
		})
	}
	return root
}

func writeDoc(t *testing.T, app *Application, name string, rec record.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, app.Store().Save(path, rec))
	return path
}

// ============================================================================
// Bootstrap
// ============================================================================

func TestNew_Defaults(t *testing.T) {
	app := newApp(t, "")
	assert.Equal(t, "text", app.Registry().TextName())
	assert.True(t, app.Schema().Accepts("paragraph", "text"))
	assert.NotNil(t, app.Bus())
	assert.Equal(t, 20*time.Millisecond, app.Config().Editor.CompositionDelay)
}

func TestNew_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aditor.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[editor]
text_node = "span"
composition_delay = "0s"

[schema.rules]
paragraph = ["span"]
`), 0o644))

	app := newApp(t, path)
	assert.Equal(t, "span", app.Registry().TextName())
	assert.True(t, app.Registry().Has("span"))
	assert.True(t, app.Schema().Accepts("paragraph", "span"))

	d, err := app.NewDocument(record.Record{Name: "root", Type: "child", Children: []record.Record{
		{Name: "paragraph", Type: "child"},
	}})
	require.NoError(t, err)
	d.Engine.SetSelections(selection.Caret(1, 0))
	_, err = app.NewInputHandler(d).Handle(input.Event{Type: input.EventBeforeInput, InputType: input.InputInsertText, Data: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "hi", d.Engine.Text())
	assert.Equal(t, "span", d.Engine.Record().Children[0].Children[0].Name)
	assert.NoError(t, app.Validate(d))
}

func TestNew_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aditor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  text_node: \"\"\n"), 0o644))

	_, err := New(Options{ConfigPath: path, ConfigOptions: []config.Option{config.WithoutEnv()}})
	assert.ErrorIs(t, err, ErrInitialization)
	assert.ErrorIs(t, err, config.ErrValidationFailed)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, path, opErr.Target)
}

// ============================================================================
// Documents
// ============================================================================

func TestOpenEditSave(t *testing.T) {
	app := newApp(t, "")
	path := writeDoc(t, app, "note.yaml", doc("Hello"))

	var mu sync.Mutex
	var saved []Saved
	_, err := app.Bus().Subscribe(event.TopicSaved, func(ev event.Event) {
		mu.Lock()
		saved = append(saved, ev.Payload.(Saved))
		mu.Unlock()
	})
	require.NoError(t, err)

	d, err := app.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "note.yaml", d.Name)
	assert.False(t, d.IsModified())

	d.Engine.SetSelections(selection.Caret(2, 5))
	_, err = d.Engine.Insert("!")
	require.NoError(t, err)
	assert.True(t, d.IsModified())

	require.NoError(t, app.Save(d, ""))
	assert.False(t, d.IsModified())

	mu.Lock()
	assert.Equal(t, []Saved{{Path: path, Revision: 2}}, saved)
	mu.Unlock()

	again, err := app.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", again.Engine.Text())
}

func TestOpen_Errors(t *testing.T) {
	app := newApp(t, "")

	_, err := app.Open(filepath.Join(t.TempDir(), "missing.json"))
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "open", opErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := writeDoc(t, app, "bad.json", record.Record{Name: "table", Type: "child"})
	_, err = app.Open(path)
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "load", opErr.Op)
}

func TestSave_NoPath(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("a"))
	require.NoError(t, err)
	assert.Equal(t, "Untitled", d.Name)

	assert.ErrorIs(t, app.Save(d, ""), ErrNoPath)

	path := filepath.Join(t.TempDir(), "a.toml")
	require.NoError(t, app.Save(d, path))
	assert.Equal(t, path, d.Path)
	assert.Equal(t, "a.toml", d.Name)
}

func TestValidate(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(record.Record{Name: "root", Type: "child", Children: []record.Record{
		{Name: "paragraph", Type: "child", Children: []record.Record{
			{Name: "quote", Type: "child"},
		}},
		{Name: "text", Type: "leaf", Data: map[string]any{"text": "loose"}},
	}})
	require.NoError(t, err)

	err = app.Validate(d)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	var list *ErrorList
	require.ErrorAs(t, err, &list)
	assert.Equal(t, 2, list.Len())
}

// ============================================================================
// Export and scripts
// ============================================================================

func TestExport(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("a<b", "c"))
	require.NoError(t, err)

	tests := []struct {
		format string
		want   string
	}{
		{"html", "<p>a&lt;b</p>\n<p>c</p>\n"},
		{"text", "a<b\nc\n"},
		{"TXT", "a<b\nc\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, app.Export(d, tt.format, &buf), tt.format)
		assert.Equal(t, tt.want, buf.String(), tt.format)
	}

	for _, format := range []string{"json", "yaml", "toml"} {
		var buf bytes.Buffer
		require.NoError(t, app.Export(d, format, &buf), format)
		f, err := record.ParseFormat(format)
		require.NoError(t, err)
		rec, err := record.Decode(buf.Bytes(), f)
		require.NoError(t, err, format)
		assert.Len(t, rec.Children, 2, format)
	}

	var buf bytes.Buffer
	err = app.Export(d, "pdf", &buf)
	assert.ErrorIs(t, err, ErrUnknownExport)
	assert.Empty(t, buf.String())
}

func TestOutline(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("Hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, app.Outline(d, &buf))
	assert.Equal(t, "root[0,10](1)\n  paragraph[1,9](1)\n    text[2,8]\"Hello\"\n", buf.String())
}

func TestRunScript(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("Hello"))
	require.NoError(t, err)

	script := filepath.Join(t.TempDir(), "edit.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
doc.select(2, 5)
doc.insert(", world")
doc.enter()
doc.paste("<p>tail</p>")
print(doc.text())
`), 0o644))

	var out bytes.Buffer
	require.NoError(t, app.RunScript(context.Background(), d, script, &out))
	assert.Equal(t, "Hello, world\n\ntail", d.Engine.Text())
	assert.Equal(t, "Hello, world\n\ntail\n", out.String())
	assert.True(t, d.IsModified())

	bad := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(bad, []byte(`require("os")`), 0o644))
	err = app.RunScript(context.Background(), d, bad, &out)
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "run", opErr.Op)
}

func TestStats(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("Hello"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = app.Stats(d, &out)
	assert.ErrorIs(t, err, ErrMetricsDisabled)
	assert.Empty(t, out.String())

	app, err = New(Options{
		LogLevel:      "error",
		Metrics:       true,
		ConfigOptions: []config.Option{config.WithoutEnv()},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Shutdown() })
	d, err = app.NewDocument(doc("Hello"))
	require.NoError(t, err)

	d.Engine.SetSelections(selection.Caret(2, 5))
	_, err = d.Engine.Insert("!")
	require.NoError(t, err)
	_, err = d.Engine.Insert("?")
	require.NoError(t, err)
	d.Engine.SetSelections(selection.Caret(2, 0))
	_, err = d.Engine.Backspace()
	require.NoError(t, err)

	require.NoError(t, app.Stats(d, &out))
	got := out.String()
	for _, col := range []string{"ACTION", "COUNT", "COMMITTED", "NO-OP", "MEAN", "MAX"} {
		assert.Contains(t, got, col)
	}
	assert.Regexp(t, `insert\s+│\s+2\s+│\s+2\s+│\s+0\s`, got)
	assert.Regexp(t, `backspace\s+│\s+1\s+│\s+0\s+│\s+1\s`, got)
	assert.Less(t, strings.Index(got, "insert"), strings.Index(got, "backspace"))
	assert.True(t, strings.HasSuffix(got, "3 dispatches, 2 committed, 0 errors, 0 warnings, 0 panics\n"))
}

// ============================================================================
// Watching
// ============================================================================

func TestWatch(t *testing.T) {
	app := newApp(t, "")
	path := writeDoc(t, app, "live.json", doc("one"))
	d, err := app.Open(path)
	require.NoError(t, err)

	reloads := make(chan error, 4)
	require.NoError(t, app.Watch(d, func(_ *Document, err error) {
		select {
		case reloads <- err:
		default:
		}
	}))

	data, err := json.Marshal(doc("two"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	select {
	case err := <-reloads:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
	assert.Equal(t, "two", d.Engine.Text())
	assert.False(t, d.IsModified())
}

func TestWatch_Errors(t *testing.T) {
	app := newApp(t, "")
	d, err := app.NewDocument(doc("x"))
	require.NoError(t, err)
	assert.ErrorIs(t, app.Watch(d, nil), ErrNoPath)

	d.Path = writeDoc(t, app, "x.json", doc("x"))
	require.NoError(t, app.Shutdown())
	require.NoError(t, app.Shutdown())
	assert.ErrorIs(t, app.Watch(d, nil), ErrShutdown)
}

// ============================================================================
// Errors
// ============================================================================

func TestOperationError(t *testing.T) {
	err := NewOperationError("save", "a.json", os.ErrPermission).WithContext("atomic write")
	assert.Equal(t, "save a.json (atomic write): permission denied", err.Error())
	assert.ErrorIs(t, err, os.ErrPermission)

	assert.Equal(t, "save", NewOperationError("save", "", nil).Error())

	var nilErr *OperationError
	assert.Equal(t, "", nilErr.Error())
	assert.Nil(t, nilErr.WithContext("x"))
	assert.Nil(t, nilErr.Unwrap())
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	assert.NoError(t, list.AsError())

	list.Add(nil)
	list.Add(os.ErrClosed)
	assert.Equal(t, "file already closed", list.Error())

	list.Add(errors.New("second"))
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "2 errors: first: file already closed", list.Error())
	assert.ErrorIs(t, list.AsError(), os.ErrClosed)
	assert.Len(t, list.Errors(), 2)
}
