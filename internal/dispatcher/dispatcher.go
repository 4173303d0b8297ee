package dispatcher

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/document/tree"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/logging"
)

// Dispatcher applies edit requests to a tree transactionally.
// Dispatch itself is not synchronized; callers serialize transactions.
type Dispatcher struct {
	mu sync.RWMutex

	registry *node.Registry
	schema   *schema.Schema
	logger   *logging.Logger

	config  Config
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRegistry sets the node factory used to fabricate nodes.
func WithRegistry(r *node.Registry) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.registry = r
		}
	}
}

// WithSchema sets the nesting rule used by insert-nodes.
func WithSchema(s *schema.Schema) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.schema = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l.WithComponent("dispatcher")
		}
	}
}

// New creates a dispatcher with the given configuration.
func New(config Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: node.DefaultRegistry(),
		schema:   schema.Default(),
		logger:   logging.Nop(),
		config:   config,
	}
	for _, opt := range opts {
		opt(d)
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	if config.MaxSelections > 0 {
		d.preHooks = append(d.preHooks, SelectionLimitHook{Max: config.MaxSelections})
	}
	return d
}

// NewWithDefaults creates a dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// Registry returns the node factory.
func (d *Dispatcher) Registry() *node.Registry {
	return d.registry
}

// Schema returns the nesting rule.
func (d *Dispatcher) Schema() *schema.Schema {
	return d.schema
}

// Config returns the configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Metrics returns the metrics collector, or nil when disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// AddPreHook registers a pre-dispatch hook.
func (d *Dispatcher) AddPreHook(h PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, h)
}

// AddPostHook registers a post-dispatch hook.
func (d *Dispatcher) AddPostHook(h PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, h)
}

func (d *Dispatcher) hooks() ([]PreDispatchHook, []PostDispatchHook) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	pre := append([]PreDispatchHook(nil), d.preHooks...)
	post := append([]PostDispatchHook(nil), d.postHooks...)
	return pre, post
}

// Dispatch runs req against live as one transaction.
//
// On success the live root adopts the edited children and the result holds
// the post-edit selections. On error the live tree is untouched.
func (d *Dispatcher) Dispatch(live *tree.Tree, req Request) (res Result, err error) {
	started := time.Now()
	res = Result{Action: req.Action, Status: StatusNoOp}
	pre, post := d.hooks()

	defer func() {
		if d.config.RecoverFromPanic {
			if r := recover(); r != nil {
				d.logger.Error("panic in %s: %v\n%s", req.Action, r, debug.Stack())
				if d.metrics != nil {
					d.metrics.RecordPanic()
				}
				err = fmt.Errorf("%w: %v", ErrPanic, r)
				res.Status = StatusError
				res.Selections = nil
			}
		}
		res.Duration = time.Since(started)
		for _, h := range post {
			h.PostDispatch(req, &res)
		}
		if d.metrics != nil {
			d.metrics.RecordDispatch(res)
		}
	}()

	for _, h := range pre {
		if !h.PreDispatch(&req) {
			res.Status = StatusCancelled
			return res, ErrActionCancelled
		}
	}
	if !req.Action.Valid() {
		res.Status = StatusError
		return res, fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
	}
	if live == nil || live.Root == nil {
		res.Status = StatusError
		return res, ErrNoTree
	}

	tx := &txn{
		tree:     live.Clone(),
		registry: d.registry,
		schema:   d.schema,
		logger:   d.logger.WithField("action", string(req.Action)),
	}
	tx.tree.Recalculate()

	sels := make([]selection.NodeRange, 0, len(req.Selections))
	for _, r := range req.Selections {
		nr, rerr := selection.Resolve(tx.tree, r)
		if rerr != nil {
			tx.warn(rerr)
			res.Skipped++
			continue
		}
		sels = append(sels, nr)
	}

	applied := make([]selection.NodeRange, 0, len(sels))
	for i := range sels {
		sel := sels[i]
		// An earlier entry may have removed this one's nodes.
		if !tx.tree.Attached(sel.StartNode) || !tx.tree.Attached(sel.EndNode) {
			tx.warn(fmt.Errorf("%w: entry %d removed by an earlier entry", selection.ErrUnresolved, i))
			res.Skipped++
			continue
		}
		if err := tx.apply(req, &sel); err != nil {
			res.Status = StatusError
			res.Warnings = tx.warnings
			return res, err
		}
		tx.tree.Recalculate()
		applied = append(applied, sel)
		res.Applied++
	}
	res.Warnings = tx.warnings
	if res.Applied == 0 {
		return res, nil
	}

	for _, sel := range applied {
		tx.normalizeAround(sel)
	}
	tx.tree.Recalculate()

	if d.config.ValidatePositions {
		if verr := tx.tree.Validate(); verr != nil {
			res.Status = StatusError
			return res, verr
		}
	}

	res.Selections = make([]selection.Range, len(applied))
	for i, sel := range applied {
		res.Selections[i] = sel.ToRange()
	}
	live.Commit(tx.tree)
	res.Status = StatusOK
	return res, nil
}

// txn is the working state of one transaction.
type txn struct {
	tree     *tree.Tree
	registry *node.Registry
	schema   *schema.Schema
	logger   *logging.Logger
	warnings []error
}

func (x *txn) warn(err error) {
	x.warnings = append(x.warnings, err)
	x.logger.Warn("%v", err)
}

func (x *txn) apply(req Request, sel *selection.NodeRange) error {
	switch req.Action {
	case ActionDelete:
		return x.deleteRange(sel)
	case ActionInsert:
		return x.insert(sel, req.Text)
	case ActionReplace:
		return x.replace(sel, req.Text)
	case ActionBackspace:
		return x.backspace(sel)
	case ActionEnter:
		return x.enter(sel)
	case ActionInsertNodes:
		return x.insertNodes(sel, req.Nodes)
	}
	return fmt.Errorf("%w: %q", ErrInvalidAction, req.Action)
}

// normalizeAround self-merges the container holding the caret over the
// caret node's own span, so only runs touching the caret node coalesce.
// The root is never self-merged so sibling blocks stay separate.
func (x *txn) normalizeAround(sel selection.NodeRange) {
	n := sel.StartNode
	if n == nil || !x.tree.Attached(n) {
		return
	}
	parent := x.tree.ParentOf(n)
	if parent == nil || parent == x.tree.Root {
		return
	}
	parent.SelfMerge(n.Start, n.End)
}

// isWarning reports whether err is recoverable within one entry.
func isWarning(err error) bool {
	return errors.Is(err, node.ErrIncompatibleMerge) ||
		errors.Is(err, schema.ErrRejected) ||
		errors.Is(err, ErrNoParent)
}
