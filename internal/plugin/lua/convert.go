package lua

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine/selection"
)

// Field names of a selection table.
const (
	fieldStart       = "start"
	fieldStartOffset = "start_offset"
	fieldEnd         = "end"
	fieldEndOffset   = "end_offset"
)

// recordTable builds {name, type, style, data, children} for rec. Children
// form a sequence, so rec.children[1] is the first child.
func recordTable(L *lua.LState, rec record.Record) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(rec.Name))
	t.RawSetString("type", lua.LString(rec.Type))

	style := L.NewTable()
	for k, v := range rec.Style {
		style.RawSetString(k, lua.LString(v))
	}
	t.RawSetString("style", style)

	data := L.NewTable()
	for k, v := range rec.Data {
		data.RawSetString(k, dataValue(L, v))
	}
	t.RawSetString("data", data)

	children := L.CreateTable(len(rec.Children), 0)
	for _, c := range rec.Children {
		children.Append(recordTable(L, c))
	}
	t.RawSetString("children", children)
	return t
}

// dataValue converts a decoded node data value. The codecs produce
// strings, booleans, numbers, lists, maps and TOML dates; anything else is
// shown as text.
func dataValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(val)
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case time.Time:
		return lua.LString(val.Format(time.RFC3339))
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, e := range val {
			t.Append(dataValue(L, e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			t.RawSetString(k, dataValue(L, e))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// rangeTable builds {start, start_offset, end, end_offset} for r.
func rangeTable(L *lua.LState, r selection.Range) *lua.LTable {
	t := L.CreateTable(0, 4)
	t.RawSetString(fieldStart, lua.LNumber(r.Start))
	t.RawSetString(fieldStartOffset, lua.LNumber(r.StartOffset))
	t.RawSetString(fieldEnd, lua.LNumber(r.End))
	t.RawSetString(fieldEndOffset, lua.LNumber(r.EndOffset))
	return t
}

// tableRange reads a selection table. start is required; the offsets
// default to zero and the end pair defaults to the start pair.
func tableRange(t *lua.LTable) (selection.Range, error) {
	start, ok, err := intField(t, fieldStart)
	if err != nil {
		return selection.Range{}, err
	}
	if !ok {
		return selection.Range{}, fmt.Errorf("selection table needs %q", fieldStart)
	}
	startOff, _, err := intField(t, fieldStartOffset)
	if err != nil {
		return selection.Range{}, err
	}
	r := selection.Caret(start, startOff)

	if end, ok, err := intField(t, fieldEnd); err != nil {
		return selection.Range{}, err
	} else if ok {
		r.End = end
		endOff, _, err := intField(t, fieldEndOffset)
		if err != nil {
			return selection.Range{}, err
		}
		r.EndOffset = endOff
	}
	return r, nil
}

func intField(t *lua.LTable, name string) (int, bool, error) {
	switch v := t.RawGetString(name).(type) {
	case *lua.LNilType:
		return 0, false, nil
	case lua.LNumber:
		if float64(v) != float64(int(v)) {
			return 0, false, fmt.Errorf("%s: %v is not a whole number", name, v)
		}
		return int(v), true, nil
	default:
		return 0, false, fmt.Errorf("%s: number expected, got %s", name, v.Type())
	}
}
