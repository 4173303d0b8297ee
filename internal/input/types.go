package input

import (
	"github.com/dshills/aditor/internal/engine/selection"
)

// EventType identifies a raw view event.
type EventType uint8

const (
	// EventKeyDown is a keydown event; Key holds the key name.
	EventKeyDown EventType = iota
	// EventBeforeInput is a beforeinput event; InputType and Data are set.
	EventBeforeInput
	// EventCompositionStart begins an IME composition.
	EventCompositionStart
	// EventCompositionEnd ends a composition; Data holds the final text.
	EventCompositionEnd
	// EventPaste is a paste event; HTML holds the clipboard markup.
	EventPaste
)

// String returns the DOM name of the event type.
func (t EventType) String() string {
	switch t {
	case EventKeyDown:
		return "keydown"
	case EventBeforeInput:
		return "beforeinput"
	case EventCompositionStart:
		return "compositionstart"
	case EventCompositionEnd:
		return "compositionend"
	case EventPaste:
		return "paste"
	default:
		return "unknown"
	}
}

// Input types of beforeinput events the handler acts on.
const (
	InputInsertText            = "insertText"
	InputInsertCompositionText = "insertCompositionText"
	InputDeleteBackward        = "deleteContentBackward"
	InputDeleteForward         = "deleteContentForward"
	InputDeleteByCut           = "deleteByCut"
	InputInsertParagraph       = "insertParagraph"
	InputInsertFromPaste       = "insertFromPaste"
)

// Key names of keydown events the handler acts on.
const (
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyEnter     = "Enter"
)

// Event is one raw event from the view.
type Event struct {
	Type      EventType
	Key       string
	InputType string
	Data      string
	HTML      string

	// Selections, when set, replace the engine's selections before the
	// event is handled. Views fill it from the native selection.
	Selections []selection.Range
}

// Intent is the edit an event maps to.
type Intent uint8

const (
	// IntentNone means the event causes no edit.
	IntentNone Intent = iota
	IntentInsert
	IntentReplace
	IntentBackspace
	IntentDelete
	IntentEnter
	IntentPaste
)

// String returns a string representation of the intent.
func (i Intent) String() string {
	switch i {
	case IntentInsert:
		return "insert"
	case IntentReplace:
		return "replace"
	case IntentBackspace:
		return "backspace"
	case IntentDelete:
		return "delete"
	case IntentEnter:
		return "enter"
	case IntentPaste:
		return "paste"
	default:
		return "none"
	}
}
