package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/aditor/internal/dispatcher"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/logging"
)

// ModuleName is the global the document module is installed as.
const ModuleName = "doc"

// Editor is the document surface scripts drive. *engine.Engine satisfies it.
type Editor interface {
	Text() string
	Record() record.Record
	Revision() uint64
	Selections() []selection.Range
	SetSelections(sels ...selection.Range)

	Insert(text string) (dispatcher.Result, error)
	Replace(text string) (dispatcher.Result, error)
	Backspace() (dispatcher.Result, error)
	Delete() (dispatcher.Result, error)
	Enter() (dispatcher.Result, error)
	PasteHTML(markup string) (dispatcher.Result, error)
}

// DocModule implements the doc table.
type DocModule struct {
	ed     Editor
	logger *logging.Logger
}

// NewDocModule creates a module bound to ed.
func NewDocModule(ed Editor, logger *logging.Logger) *DocModule {
	return &DocModule{ed: ed, logger: logging.OrNop(logger).WithComponent("lua")}
}

// Register installs the doc table into s.
func (m *DocModule) Register(s *State) {
	s.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"select":    m.selectRange,
		"selection": m.selection,
		"text":      m.text,
		"record":    m.record,
		"revision":  m.revision,
		"insert":    m.insert,
		"replace":   m.replace,
		"backspace": m.edit("backspace", m.ed.Backspace),
		"delete":    m.edit("delete", m.ed.Delete),
		"enter":     m.edit("enter", m.ed.Enter),
		"paste":     m.paste,
	})
}

// select(pos, off[, end_pos, end_off]) | select(sel)
// Sets a single selection. Without the end pair the selection is a caret.
// A table in the form returned by selection() is accepted too.
func (m *DocModule) selectRange(L *lua.LState) int {
	if t, ok := L.Get(1).(*lua.LTable); ok {
		r, err := tableRange(t)
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		m.ed.SetSelections(r)
		return 0
	}

	pos := L.CheckInt(1)
	off := L.CheckInt(2)
	endPos := L.OptInt(3, pos)
	endOff := L.OptInt(4, off)
	if L.GetTop() == 3 {
		L.ArgError(4, "end offset required with end position")
		return 0
	}
	m.ed.SetSelections(selection.Range{Start: pos, StartOffset: off, End: endPos, EndOffset: endOff})
	return 0
}

// selection() -> {start, start_offset, end, end_offset} | nil
// Returns the first current selection.
func (m *DocModule) selection(L *lua.LState) int {
	sels := m.ed.Selections()
	if len(sels) == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(rangeTable(L, sels[0]))
	return 1
}

// text() -> string
func (m *DocModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.ed.Text()))
	return 1
}

// record() -> table
// Returns the document as nested {name, type, style, data, children}.
func (m *DocModule) record(L *lua.LState) int {
	L.Push(recordTable(L, m.ed.Record()))
	return 1
}

// revision() -> number
func (m *DocModule) revision(L *lua.LState) int {
	L.Push(lua.LNumber(m.ed.Revision()))
	return 1
}

// insert(text) -> status, warnings
func (m *DocModule) insert(L *lua.LState) int {
	text := L.CheckString(1)
	return m.edit("insert", func() (dispatcher.Result, error) { return m.ed.Insert(text) })(L)
}

// replace(text) -> status, warnings
func (m *DocModule) replace(L *lua.LState) int {
	text := L.CheckString(1)
	return m.edit("replace", func() (dispatcher.Result, error) { return m.ed.Replace(text) })(L)
}

// paste(html) -> status, warnings
func (m *DocModule) paste(L *lua.LState) int {
	markup := L.CheckString(1)
	return m.edit("paste", func() (dispatcher.Result, error) { return m.ed.PasteHTML(markup) })(L)
}

// edit runs one transaction. A discarded transaction raises a Lua error;
// otherwise the status string and the warning count are returned.
func (m *DocModule) edit(name string, fn func() (dispatcher.Result, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		res, err := fn()
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		for _, w := range res.Warnings {
			m.logger.Warn("%s: %v", name, w)
		}
		L.Push(lua.LString(res.Status.String()))
		L.Push(lua.LNumber(len(res.Warnings)))
		return 2
	}
}
