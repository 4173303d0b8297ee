package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/aditor/internal/document/record"
)

func sample(text string) record.Record {
	return record.Record{Name: "root", Type: "child", Children: []record.Record{{
		Name: "paragraph", Type: "child", Children: []record.Record{{
			Name: "text", Type: "leaf", Data: map[string]any{"text": text},
		}},
	}}}
}

func leafText(rec record.Record) any {
	return rec.Children[0].Children[0].Data["text"]
}

func TestFileStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := New()

	for _, name := range []string{"doc.json", "doc.yaml", "doc.yml", "doc.toml", "doc.aditor"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, s.Save(path, sample("hello")))

			rec, err := s.Load(path)
			require.NoError(t, err)
			assert.Equal(t, "root", rec.Name)
			assert.Equal(t, "hello", leafText(rec))
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "no temporary files left behind")
}

func TestFileStore_FormatFor(t *testing.T) {
	s := New(WithFormat(record.FormatYAML))
	assert.Equal(t, record.FormatTOML, s.FormatFor("a.toml"))
	assert.Equal(t, record.FormatYAML, s.FormatFor("a.txt"))
	assert.Equal(t, record.FormatJSON, New().FormatFor("a"))
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	s := New(WithMaxFileSize(8))

	_, err := s.Load(filepath.Join(dir, "missing.json"))
	var perr *PathError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = s.Load(dir)
	assert.ErrorIs(t, err, ErrIsDirectory)

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, []byte(`{"name":"root","type":"child"}`), 0o644))
	_, err = s.Load(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = New().Load(bad)
	assert.Error(t, err)
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	s := New()
	require.NoError(t, s.Save(path, sample("one")))

	var mu sync.Mutex
	var got []record.Record
	w, err := s.Watch(path, func(rec record.Record, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		got = append(got, rec)
		mu.Unlock()
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))
	require.NoError(t, s.Save(path, sample("two")))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && leafText(got[len(got)-1]) == "two"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, w.Path())
}

func TestWatcher_Close(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.toml")
	s := New()
	require.NoError(t, s.Save(path, sample("x")))

	w, err := s.Watch(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Close(), ErrWatcherClosed)

	_, err = s.Watch(filepath.Join(dir, "nope", "doc.toml"), nil)
	assert.Error(t, err)
}
