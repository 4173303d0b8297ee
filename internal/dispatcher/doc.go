// Package dispatcher runs user-facing edit actions as transactions over a
// document tree.
//
// # Transaction
//
// Every Dispatch call performs one copy-mutate-commit cycle:
//
//  1. Pre-dispatch hooks run (any may cancel the request)
//  2. The live tree is deep-cloned; all work happens on the clone
//  3. Each position selection is resolved to node references in the clone
//     (entries that do not resolve are skipped with a warning)
//  4. The action procedure runs once per resolved entry
//  5. Positions are recomputed
//  6. The structural parent of each resulting caret is self-merged
//  7. The live root adopts the clone's children
//  8. Node selections are converted back to position selections
//  9. Post-dispatch hooks run and metrics are recorded
//
// A fatal error or a recovered panic discards the clone, so the live tree
// is either fully updated or untouched.
//
// # Actions
//
//	delete        remove the selected range
//	insert        type text at the caret (a range is replaced)
//	replace       delete the range, then type text
//	backspace     delete the range, or the unit before a caret
//	enter         split the caret's block into two
//	insert-nodes  paste externally built nodes at the caret
//
// Recoverable problems (unresolved selections, incompatible merges, nodes
// the nesting rule rejects) are logged and returned in Result.Warnings.
package dispatcher
