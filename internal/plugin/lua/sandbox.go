package lua

import (
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// safeModules are the libraries require may return.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L   *lua.LState
	out io.Writer
}

// NewSandbox creates a sandbox for L that sends print output to out.
func NewSandbox(L *lua.LState, out io.Writer) *Sandbox {
	if out == nil {
		out = io.Discard
	}
	return &Sandbox{L: L, out: out}
}

// Install removes loaders and replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installRequire()
}

// installPrint writes tab separated arguments and a newline to out.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		_, _ = io.WriteString(s.out, strings.Join(parts, "\t")+"\n")
		return 0
	}))
}

// installRequire only resolves the libraries already opened.
func (s *Sandbox) installRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}
