package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/aditor/internal/dispatcher"
	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/document/tree"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/event"
	"github.com/dshills/aditor/internal/logging"
	"github.com/dshills/aditor/internal/paste"
)

// Re-export commonly used types for convenience.
type (
	// Range is a selection by position.
	Range = selection.Range

	// Result is the outcome of one transaction.
	Result = dispatcher.Result

	// Request is one edit request.
	Request = dispatcher.Request
)

// Commit is the payload published on event.TopicCommitted.
type Commit struct {
	Revision   uint64
	Action     dispatcher.Action
	Selections []Range
}

// Loaded is the payload published on event.TopicLoaded.
type Loaded struct {
	Revision uint64
	Length   int
}

// Engine is the main facade for one document.
type Engine struct {
	mu sync.RWMutex

	registry   *node.Registry
	schema     *schema.Schema
	logger     *logging.Logger
	bus        *event.Bus
	resolver   selection.Resolver
	parser     paste.Parser
	dispatcher *dispatcher.Dispatcher

	live       *tree.Tree
	selections []Range
	pending    []Range
	revision   uint64

	dispatchConfig dispatcher.Config
	initRecord     *record.Record
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:       node.DefaultRegistry(),
		schema:         schema.Default(),
		logger:         logging.Nop(),
		resolver:       selection.NewKeyResolver(),
		dispatchConfig: dispatcher.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("engine")
	if e.parser == nil {
		e.parser = paste.NewHTMLParser(e.registry, paste.WithLogger(e.logger))
	}
	e.dispatcher = dispatcher.New(e.dispatchConfig,
		dispatcher.WithRegistry(e.registry),
		dispatcher.WithSchema(e.schema),
		dispatcher.WithLogger(e.logger),
	)
	if e.initRecord != nil {
		if err := e.Load(*e.initRecord); err != nil {
			e.logger.Error("initial document: %v", err)
		}
		e.initRecord = nil
	}
	return e
}

// Dispatcher returns the dispatcher, for registering hooks.
func (e *Engine) Dispatcher() *dispatcher.Dispatcher {
	return e.dispatcher
}

// Registry returns the node factory.
func (e *Engine) Registry() *node.Registry {
	return e.registry
}

// Schema returns the nesting rule.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}

// Metrics returns dispatcher metrics, or nil when disabled.
func (e *Engine) Metrics() *dispatcher.Metrics {
	return e.dispatcher.Metrics()
}

// ============================================================================
// Document
// ============================================================================

// Load replaces the document with one built from rec. The selection moves
// to the start of the first leaf.
func (e *Engine) Load(rec record.Record) error {
	root, err := record.Load(rec, e.registry)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.live = tree.New(root)
	e.revision++
	rev := e.revision
	first := tree.DeepestLeftmost(root)
	e.selections = []Range{selection.Caret(first.Start, 0)}
	e.pending = nil
	e.mu.Unlock()

	e.logger.Debug("loaded document: %d units, revision %d", root.Length(), rev)
	e.publish(event.TopicLoaded, Loaded{Revision: rev, Length: root.Length()})
	return nil
}

// Loaded reports whether a document is present.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live != nil
}

// Record returns the document as a record.
func (e *Engine) Record() record.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.live == nil {
		return record.Record{}
	}
	return record.FromNode(e.live.Root)
}

// Root returns a deep copy of the document root with current positions.
func (e *Engine) Root() *node.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.live == nil {
		return nil
	}
	return e.live.Root.Clone()
}

// Text returns the plain text of the document, one line per top-level block.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.live == nil {
		return ""
	}
	return e.live.Text()
}

// Revision returns the number of loads and commits so far.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// Check reports position and nesting violations in the live document.
func (e *Engine) Check() ([]tree.Violation, []schema.Violation) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.live == nil {
		return nil, nil
	}
	return e.live.Check(), e.schema.Check(e.live.Root)
}

// ============================================================================
// Selections
// ============================================================================

// SetSelections replaces the current selections.
func (e *Engine) SetSelections(sels ...Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selections = append([]Range(nil), sels...)
}

// Selections returns the current selections.
func (e *Engine) Selections() []Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Range(nil), e.selections...)
}

// PendingSelections returns the selections queued for the view.
func (e *Engine) PendingSelections() []Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Range(nil), e.pending...)
}

// CaptureSelections sets the current selections from view anchors.
func (e *Engine) CaptureSelections(anchors ...selection.AnchorRange) error {
	sels := make([]Range, 0, len(anchors))
	for _, a := range anchors {
		r, err := selection.FromAnchors(e.resolver, a)
		if err != nil {
			return err
		}
		sels = append(sels, r)
	}
	e.SetSelections(sels...)
	return nil
}

// RestoreSelections translates the queued selections to view anchors and
// clears the queue. The view calls it once the committed content is
// rendered.
func (e *Engine) RestoreSelections() ([]selection.AnchorRange, error) {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	if len(pending) == 0 {
		return nil, ErrNothingPending
	}
	out := make([]selection.AnchorRange, 0, len(pending))
	for _, r := range pending {
		a, err := selection.ToAnchors(e.resolver, r)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// ============================================================================
// Edits
// ============================================================================

// Apply runs req as one transaction. When req carries no selections the
// current ones are used. On commit the revision advances, the new
// selections become current and pending, and event.TopicCommitted is
// published.
func (e *Engine) Apply(ctx context.Context, req Request) (Result, error) {
	res, rev, err := e.dispatch(req)
	if err != nil {
		e.logger.Warn("%s discarded: %v", req.Action, err)
		return res, err
	}
	for _, w := range res.Warnings {
		e.publishCtx(ctx, event.TopicWarning, w)
	}
	if rev > 0 {
		e.publishCtx(ctx, event.TopicCommitted, Commit{
			Revision:   rev,
			Action:     req.Action,
			Selections: res.Selections,
		})
	}
	return res, nil
}

// dispatch runs req against the live tree with the engine locked and
// returns the new revision, or zero when nothing committed.
func (e *Engine) dispatch(req Request) (Result, uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live == nil {
		return Result{Action: req.Action, Status: dispatcher.StatusError}, 0, ErrNoDocument
	}
	if len(req.Selections) == 0 {
		req.Selections = append([]Range(nil), e.selections...)
	}
	if len(req.Selections) == 0 {
		return Result{Action: req.Action, Status: dispatcher.StatusError}, 0, ErrNoSelection
	}

	res, err := e.dispatcher.Dispatch(e.live, req)
	if err != nil || !res.Committed() {
		return res, 0, err
	}
	e.revision++
	e.selections = append([]Range(nil), res.Selections...)
	e.pending = append([]Range(nil), res.Selections...)
	return res, e.revision, nil
}

// Delete removes the selected content.
func (e *Engine) Delete() (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionDelete})
}

// Insert types text at each selection, replacing ranges.
func (e *Engine) Insert(text string) (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionInsert, Text: text})
}

// Replace replaces each selection with text.
func (e *Engine) Replace(text string) (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionReplace, Text: text})
}

// Backspace deletes each range, or the unit before each caret.
func (e *Engine) Backspace() (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionBackspace})
}

// Enter splits the block at each caret.
func (e *Engine) Enter() (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionEnter})
}

// InsertNodes pastes copies of nodes at each selection.
func (e *Engine) InsertNodes(nodes []*node.Node) (Result, error) {
	return e.Apply(context.Background(), Request{Action: dispatcher.ActionInsertNodes, Nodes: nodes})
}

// PasteHTML parses markup with the engine's parser and pastes the result.
func (e *Engine) PasteHTML(markup string) (Result, error) {
	nodes, err := e.parser.Parse(markup)
	if err != nil {
		return Result{Action: dispatcher.ActionInsertNodes, Status: dispatcher.StatusError}, fmt.Errorf("paste: %w", err)
	}
	return e.InsertNodes(nodes)
}

func (e *Engine) publish(topic event.Topic, payload any) {
	e.publishCtx(context.Background(), topic, payload)
}

func (e *Engine) publishCtx(ctx context.Context, topic event.Topic, payload any) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, topic, Source, payload); err != nil {
		e.logger.Debug("publish %s: %v", topic, err)
	}
}
