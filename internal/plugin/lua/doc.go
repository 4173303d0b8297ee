// Package lua runs edit scripts against a document.
//
// A State is a gopher-lua runtime with the unsafe parts of the standard
// library removed. A DocModule installs the global doc table, which drives
// an editor one transaction per call:
//
//	state, err := lua.NewState(lua.WithOutput(os.Stdout))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	lua.NewDocModule(eng, logger).Register(state)
//	err = state.DoFile(ctx, "edit.lua")
//
// A script then reads and edits the document:
//
//	doc.select(2, 5)
//	doc.insert(" world")
//	doc.enter()
//	print(doc.text())
//
// # Sandbox
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, require resolves only the
// opened libraries, and print writes to the State's output writer.
//
// # Values
//
// doc.record() returns nested {name, type, style, data, children} tables
// with children as a sequence. doc.selection() returns
// {start, start_offset, end, end_offset}, and doc.select accepts that table
// back.
package lua
