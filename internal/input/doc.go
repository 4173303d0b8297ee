// Package input turns raw view events into engine edits.
//
// A view forwards keydown, beforeinput, composition and paste events to a
// Handler, which maps each to one transaction:
//
//	insertText              insert, or replace when a selection is a range
//	deleteContentBackward   backspace (also the Backspace key)
//	deleteContentForward    delete, ranges only (also deleteByCut and the Delete key)
//	insertParagraph         enter (also the Enter key)
//	insertFromPaste         paste HTML (also the paste event)
//
// While an IME composition is active text input is ignored. The text
// reported by compositionend is inserted as one edit once the composition
// delay passes without another composition starting. Any other event
// flushes a pending composition first, so edits keep their order.
package input
