package engine

import (
	"github.com/dshills/aditor/internal/dispatcher"
	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/engine/selection"
	"github.com/dshills/aditor/internal/event"
	"github.com/dshills/aditor/internal/logging"
	"github.com/dshills/aditor/internal/paste"
)

// Source is the event source name used for engine notifications.
const Source = "engine"

// Option configures an Engine during creation.
type Option func(*Engine)

// WithRegistry sets the node factory.
func WithRegistry(r *node.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithSchema sets the nesting rule.
func WithSchema(s *schema.Schema) Option {
	return func(e *Engine) {
		if s != nil {
			e.schema = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBus sets the bus that receives document events.
func WithBus(b *event.Bus) Option {
	return func(e *Engine) {
		e.bus = b
	}
}

// WithResolver sets the collaborator that maps positions to view anchors.
func WithResolver(r selection.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithParser sets the paste parser.
func WithParser(p paste.Parser) Option {
	return func(e *Engine) {
		if p != nil {
			e.parser = p
		}
	}
}

// WithDispatcherConfig sets the dispatcher configuration.
func WithDispatcherConfig(c dispatcher.Config) Option {
	return func(e *Engine) {
		e.dispatchConfig = c
	}
}

// WithRecord loads rec when the engine is created. A record that fails to
// load is logged and leaves the engine empty.
func WithRecord(rec record.Record) Option {
	return func(e *Engine) {
		e.initRecord = &rec
	}
}
