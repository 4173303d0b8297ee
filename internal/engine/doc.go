// Package engine is the document facade for aditor.
//
// An Engine owns one live document tree together with the position
// selections of its view. Every edit runs through the dispatcher as a single
// transaction against a private copy of the tree; only a successful
// transaction replaces the live content.
//
// # Architecture
//
// The engine is built on several packages:
//
//   - document/node: node types, the node factory and the edit algorithms
//   - document/tree: the position pass and tree navigation
//   - document/schema: the nesting rule used by paste
//   - dispatcher: transactional application of edit actions
//   - engine/selection: position and node selections, anchor translation
//   - paste: the HTML parser feeding insert-nodes
//   - event: commit notifications
//
// # Thread Safety
//
// Engine methods are safe for concurrent use. Edits are serialized by a
// mutex held across the whole clone-mutate-commit cycle, so at most one
// transaction is in flight at a time. Reads take the same lock in shared
// mode.
//
// # Basic Usage
//
//	e := engine.New()
//	_ = e.Load(record.Record{Name: "root", Type: "child", Children: ...})
//
//	e.SetSelections(selection.Caret(2, 5))
//	res, err := e.Insert("X")
//	if err != nil {
//		// the live document is unchanged
//	}
//	fmt.Println(e.Text(), res.Selections)
//
// # Selection Restore
//
// After each commit the new selections are queued. A view that renders the
// document asynchronously calls RestoreSelections once the content is on
// screen; the engine translates the queued positions to anchors through its
// selection.Resolver and clears the queue.
package engine
