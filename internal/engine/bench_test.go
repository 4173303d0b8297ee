package engine

import (
	"strings"
	"testing"

	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine/selection"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, paras int) *Engine {
	b.Helper()
	line := strings.Repeat("x", 80)
	root := record.Record{Name: "root", Type: "child"}
	for i := 0; i < paras; i++ {
		root.Children = append(root.Children, record.Record{
			Name: "paragraph", Type: "child",
			Children: []record.Record{{Name: "text", Type: "leaf", Data: map[string]any{"text": line}}},
		})
	}
	e := New()
	if err := e.Load(root); err != nil {
		b.Fatal(err)
	}
	return e
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}

func BenchmarkEngineInsert(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.SetSelections(selection.Caret(2, 0))
		if _, err := e.Insert("a"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineEnterBackspace(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.SetSelections(selection.Caret(2, 40))
		if _, err := e.Enter(); err != nil {
			b.Fatal(err)
		}
		if _, err := e.Backspace(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineRecord(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Record()
	}
}
