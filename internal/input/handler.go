package input

import (
	"sync"
	"time"

	"github.com/dshills/aditor/internal/dispatcher"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/logging"
)

// DefaultCompositionDelay is the wait between compositionend and the insert.
const DefaultCompositionDelay = 20 * time.Millisecond

// Config configures the input handler.
type Config struct {
	// CompositionDelay defers the insert of composed text. Zero inserts
	// on compositionend.
	CompositionDelay time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{CompositionDelay: DefaultCompositionDelay}
}

// Editor is the edit surface the handler drives. *engine.Engine satisfies it.
type Editor interface {
	Selections() []selection.Range
	SetSelections(sels ...selection.Range)

	Insert(text string) (dispatcher.Result, error)
	Replace(text string) (dispatcher.Result, error)
	Backspace() (dispatcher.Result, error)
	Delete() (dispatcher.Result, error)
	Enter() (dispatcher.Result, error)
	PasteHTML(markup string) (dispatcher.Result, error)
}

// Handler maps view events to edits. It is safe for concurrent use; hooks
// run with the handler locked and must not call back into it.
type Handler struct {
	mu sync.Mutex

	config Config
	ed     Editor
	logger *logging.Logger
	hooks  *HookManager

	composing bool
	pending   *Event
	timer     *time.Timer
	// gen identifies the newest scheduled insert; older timers are stale.
	gen uint64

	closed bool
}

// NewHandler creates a handler for ed.
func NewHandler(ed Editor, config Config, logger *logging.Logger) *Handler {
	return &Handler{
		config: config,
		ed:     ed,
		logger: logging.OrNop(logger).WithComponent("input"),
		hooks:  NewHookManager(),
	}
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Composing reports whether an IME composition is active.
func (h *Handler) Composing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.composing
}

// Pending reports whether composed text awaits insertion.
func (h *Handler) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

// Handle processes one event. Events that cause no edit, and
// compositionend with a delay, return a no-op result.
func (h *Handler) Handle(ev Event) (dispatcher.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errorResult(), ErrClosed
	}
	if h.hooks.RunPreEvent(&ev) {
		return noOp(), nil
	}

	switch ev.Type {
	case EventCompositionStart:
		if _, err := h.flushLocked(); err != nil {
			h.logger.Warn("composition flush: %v", err)
		}
		h.composing = true
		return noOp(), nil

	case EventCompositionEnd:
		h.composing = false
		if ev.Data == "" {
			return noOp(), nil
		}
		if _, err := h.flushLocked(); err != nil {
			h.logger.Warn("composition flush: %v", err)
		}
		if len(ev.Selections) > 0 {
			h.ed.SetSelections(ev.Selections...)
			ev.Selections = nil
		}
		h.pending = &ev
		if h.config.CompositionDelay <= 0 {
			return h.flushLocked()
		}
		h.gen++
		gen := h.gen
		h.timer = time.AfterFunc(h.config.CompositionDelay, func() { h.fire(gen) })
		return noOp(), nil
	}

	if h.composing {
		h.logger.Debug("ignored %s during composition", ev.Type)
		return noOp(), nil
	}
	if _, err := h.flushLocked(); err != nil {
		h.logger.Warn("composition flush: %v", err)
	}
	return h.apply(ev, intentFor(ev))
}

// Flush inserts pending composed text now.
func (h *Handler) Flush() (dispatcher.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errorResult(), ErrClosed
	}
	return h.flushLocked()
}

// Close flushes pending composed text and stops the handler.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	_, err := h.flushLocked()
	h.closed = true
	return err
}

// fire runs when the timer for generation gen expires. A timer that
// expired while a newer composition replaced its pending text is ignored.
func (h *Handler) fire(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || gen != h.gen {
		return
	}
	if _, err := h.flushLocked(); err != nil {
		h.logger.Warn("composition insert: %v", err)
	}
}

func (h *Handler) flushLocked() (dispatcher.Result, error) {
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	if h.pending == nil {
		return noOp(), nil
	}
	ev := *h.pending
	h.pending = nil
	return h.apply(ev, IntentInsert)
}

// intentFor maps an event to an edit without looking at the selection.
func intentFor(ev Event) Intent {
	switch ev.Type {
	case EventKeyDown:
		switch ev.Key {
		case KeyBackspace:
			return IntentBackspace
		case KeyDelete:
			return IntentDelete
		case KeyEnter:
			return IntentEnter
		}
	case EventBeforeInput:
		switch ev.InputType {
		case InputInsertText:
			return IntentInsert
		case InputDeleteBackward:
			return IntentBackspace
		case InputDeleteForward, InputDeleteByCut:
			return IntentDelete
		case InputInsertParagraph:
			return IntentEnter
		case InputInsertFromPaste:
			return IntentPaste
		}
	case EventPaste:
		return IntentPaste
	}
	return IntentNone
}

func (h *Handler) apply(ev Event, intent Intent) (dispatcher.Result, error) {
	if intent == IntentNone {
		return noOp(), nil
	}
	if len(ev.Selections) > 0 {
		h.ed.SetSelections(ev.Selections...)
	}

	// Plain text paste types like insertText.
	if intent == IntentPaste && ev.HTML == "" {
		intent = IntentInsert
	}
	if intent == IntentInsert && hasRange(h.ed.Selections()) {
		intent = IntentReplace
	}

	var (
		res dispatcher.Result
		err error
	)
	switch intent {
	case IntentInsert:
		if ev.Data == "" {
			return noOp(), nil
		}
		res, err = h.ed.Insert(ev.Data)
	case IntentReplace:
		res, err = h.ed.Replace(ev.Data)
	case IntentBackspace:
		res, err = h.ed.Backspace()
	case IntentDelete:
		if !hasRange(h.ed.Selections()) {
			return noOp(), nil
		}
		res, err = h.ed.Delete()
	case IntentEnter:
		res, err = h.ed.Enter()
	case IntentPaste:
		res, err = h.ed.PasteHTML(ev.HTML)
	}

	if err != nil {
		h.logger.Warn("%s from %s: %v", intent, ev.Type, err)
	} else {
		h.logger.Debug("%s from %s: %s", intent, ev.Type, res.Status)
	}
	h.hooks.RunPostEvent(ev, intent, res, err)
	return res, err
}

func hasRange(sels []selection.Range) bool {
	for _, r := range sels {
		if !r.IsCollapsed() {
			return true
		}
	}
	return false
}

func noOp() dispatcher.Result {
	return dispatcher.Result{Status: dispatcher.StatusNoOp}
}

func errorResult() dispatcher.Result {
	return dispatcher.Result{Status: dispatcher.StatusError}
}
