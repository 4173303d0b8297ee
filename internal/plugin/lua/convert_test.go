package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine/selection"
)

func TestRecordTable(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	rec := record.Record{Name: "root", Type: "child", Children: []record.Record{
		{Name: "heading", Type: "child", Style: map[string]string{"level": "2"}, Children: []record.Record{
			{Name: "text", Type: "leaf", Data: map[string]any{
				"text":  "Title",
				"tags":  []any{"a", int64(1)},
				"meta":  map[string]any{"draft": true},
				"when":  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				"ratio": 0.5,
			}},
		}},
	}}
	tbl := recordTable(L, rec)

	assert.Equal(t, glua.LString("root"), tbl.RawGetString("name"))
	children := tbl.RawGetString("children").(*glua.LTable)
	require.Equal(t, 1, children.Len())

	heading := children.RawGetInt(1).(*glua.LTable)
	assert.Equal(t, glua.LString("2"), heading.RawGetString("style").(*glua.LTable).RawGetString("level"))

	leaf := heading.RawGetString("children").(*glua.LTable).RawGetInt(1).(*glua.LTable)
	assert.Equal(t, glua.LString("leaf"), leaf.RawGetString("type"))
	assert.Equal(t, 0, leaf.RawGetString("children").(*glua.LTable).Len())

	data := leaf.RawGetString("data").(*glua.LTable)
	assert.Equal(t, glua.LString("Title"), data.RawGetString("text"))
	assert.Equal(t, glua.LNumber(0.5), data.RawGetString("ratio"))
	assert.Equal(t, glua.LString("2024-05-01T00:00:00Z"), data.RawGetString("when"))
	tags := data.RawGetString("tags").(*glua.LTable)
	assert.Equal(t, glua.LNumber(1), tags.RawGetInt(2))
	assert.Equal(t, glua.LTrue, data.RawGetString("meta").(*glua.LTable).RawGetString("draft"))
}

func TestRangeTable_RoundTrip(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	r := selection.Range{Start: 2, StartOffset: 1, End: 8, EndOffset: 3}
	got, err := tableRange(rangeTable(L, r))
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestTableRange(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	tbl := func(fields map[string]glua.LValue) *glua.LTable {
		t := L.NewTable()
		for k, v := range fields {
			t.RawSetString(k, v)
		}
		return t
	}

	got, err := tableRange(tbl(map[string]glua.LValue{"start": glua.LNumber(5)}))
	require.NoError(t, err)
	assert.Equal(t, selection.Caret(5, 0), got)

	got, err = tableRange(tbl(map[string]glua.LValue{
		"start": glua.LNumber(2), "start_offset": glua.LNumber(1), "end": glua.LNumber(8),
	}))
	require.NoError(t, err)
	assert.Equal(t, selection.Range{Start: 2, StartOffset: 1, End: 8}, got)

	tests := []struct {
		name   string
		fields map[string]glua.LValue
		want   string
	}{
		{"missing start", map[string]glua.LValue{"end": glua.LNumber(1)}, `needs "start"`},
		{"fractional", map[string]glua.LValue{"start": glua.LNumber(1.5)}, "whole number"},
		{"wrong type", map[string]glua.LValue{"start": glua.LNumber(1), "end_offset": glua.LString("x"), "end": glua.LNumber(2)}, "number expected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tableRange(tbl(tt.fields))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
