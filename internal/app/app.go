package app

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/aditor/internal/config"
	"github.com/dshills/aditor/internal/document/node"
	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/document/schema"
	"github.com/dshills/aditor/internal/engine"
	"github.com/dshills/aditor/internal/event"
	"github.com/dshills/aditor/internal/input"
	"github.com/dshills/aditor/internal/logging"
	"github.com/dshills/aditor/internal/store"
)

// Source is the event source name used for application notifications.
const Source = "app"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses defaults
	// and the environment only.
	ConfigPath string

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Metrics enables dispatch statistics regardless of configuration.
	Metrics bool

	// ConfigOptions are passed to config.Load.
	ConfigOptions []config.Option
}

// Application is the central coordinator for all aditor components.
type Application struct {
	mu sync.Mutex

	config   *config.Config
	logger   *logging.Logger
	registry *node.Registry
	schema   *schema.Schema
	bus      *event.Bus
	store    *store.FileStore

	watchers []*store.Watcher
	closed   bool
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{}
	if err := app.bootstrap(opts); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	cfg, err := config.Load(opts.ConfigPath, opts.ConfigOptions...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, NewOperationError("load config", opts.ConfigPath, err))
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Metrics {
		cfg.Editor.Metrics = true
	}
	app.config = cfg

	app.logger = logging.New(cfg.Logging())
	app.logger.Debug("configuration loaded from %q", opts.ConfigPath)

	app.registry = node.DefaultRegistry()
	if !app.registry.Has(cfg.Editor.TextNode) {
		app.registry.Register(cfg.Editor.TextNode, node.LeafConstructor)
	}
	app.registry.SetTextName(cfg.Editor.TextNode)
	app.schema = cfg.NestingRules()

	app.bus = event.NewBus(event.WithLogger(app.logger.WithComponent("event")))

	format, err := record.ParseFormat(cfg.Store.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	app.store = store.New(store.WithFormat(format), store.WithLogger(app.logger))
	return nil
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// Bus returns the event bus shared by all documents.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Store returns the record store.
func (app *Application) Store() *store.FileStore {
	return app.store
}

// Registry returns the node factory.
func (app *Application) Registry() *node.Registry {
	return app.registry
}

// Schema returns the nesting rule.
func (app *Application) Schema() *schema.Schema {
	return app.schema
}

// NewEngine creates an engine wired to the application's collaborators.
// Extra options are applied last.
func (app *Application) NewEngine(opts ...engine.Option) *engine.Engine {
	base := []engine.Option{
		engine.WithRegistry(app.registry),
		engine.WithSchema(app.schema),
		engine.WithLogger(app.logger),
		engine.WithBus(app.bus),
		engine.WithDispatcherConfig(app.config.Dispatcher()),
	}
	return engine.New(append(base, opts...)...)
}

// NewInputHandler creates an input handler for doc using the configured
// composition delay.
func (app *Application) NewInputHandler(doc *Document) *input.Handler {
	return input.NewHandler(doc.Engine, input.Config{
		CompositionDelay: app.config.Editor.CompositionDelay,
	}, app.logger)
}

// Shutdown stops watchers and closes the log file. Later calls do nothing.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	if app.closed {
		app.mu.Unlock()
		return nil
	}
	app.closed = true
	watchers := app.watchers
	app.watchers = nil
	app.mu.Unlock()

	errs := NewErrorList()
	for _, w := range watchers {
		errs.Add(w.Close())
	}
	errs.Add(app.logger.Close())
	return errs.AsError()
}

// exportFormats lists the names Export accepts.
var exportFormats = []string{"html", "text", "json", "yaml", "toml"}

// ExportFormats returns the supported export format names.
func ExportFormats() string {
	return strings.Join(exportFormats, ", ")
}
