package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/dshills/aditor/internal/document/record"
	"github.com/dshills/aditor/internal/engine"
	"github.com/dshills/aditor/internal/event"
	"github.com/dshills/aditor/internal/export"
	"github.com/dshills/aditor/internal/plugin/lua"
	"github.com/dshills/aditor/internal/store"
)

// Document is a document file with its engine.
type Document struct {
	// Path is the file the document was opened from or saved to. Empty for
	// documents that were never saved.
	Path string

	// Name is the display name (file name or "Untitled").
	Name string

	Engine *engine.Engine

	// saved is the engine revision at the last load or save.
	saved atomic.Uint64
}

// Saved is the payload published on event.TopicSaved.
type Saved struct {
	Path     string
	Revision uint64
}

// Reloaded is the payload published on event.TopicReloaded.
type Reloaded struct {
	Path     string
	Revision uint64
}

func newDocument(path string, eng *engine.Engine) *Document {
	name := "Untitled"
	if path != "" {
		name = filepath.Base(path)
	}
	doc := &Document{Path: path, Name: name, Engine: eng}
	doc.markSaved()
	return doc
}

func (d *Document) markSaved() {
	d.saved.Store(d.Engine.Revision())
}

// IsModified reports whether the engine committed edits since the last
// load or save.
func (d *Document) IsModified() bool {
	return d.Engine.Revision() != d.saved.Load()
}

// Open loads the document file at path.
func (app *Application) Open(path string) (*Document, error) {
	rec, err := app.store.Load(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	return app.load(path, rec)
}

// NewDocument creates an unsaved document from rec.
func (app *Application) NewDocument(rec record.Record) (*Document, error) {
	return app.load("", rec)
}

func (app *Application) load(path string, rec record.Record) (*Document, error) {
	eng := app.NewEngine()
	if err := eng.Load(rec); err != nil {
		return nil, NewOperationError("load", path, err)
	}
	app.logger.Info("opened %s (%d top-level blocks)", displayPath(path), len(rec.Children))
	return newDocument(path, eng), nil
}

// Save writes doc to path, or to doc.Path when path is empty.
func (app *Application) Save(doc *Document, path string) error {
	if path == "" {
		path = doc.Path
	}
	if path == "" {
		return NewOperationError("save", doc.Name, ErrNoPath)
	}
	if err := app.store.Save(path, doc.Engine.Record()); err != nil {
		return NewOperationError("save", path, err)
	}
	if doc.Path == "" {
		doc.Path = path
		doc.Name = filepath.Base(path)
	}
	doc.markSaved()

	if err := app.bus.Publish(context.Background(), event.TopicSaved, Source, Saved{
		Path:     path,
		Revision: doc.Engine.Revision(),
	}); err != nil {
		app.logger.Debug("publish %s: %v", event.TopicSaved, err)
	}
	return nil
}

// Validate checks doc's positions and nesting. The returned error wraps
// ErrInvalidDocument and an *ErrorList with one entry per violation.
func (app *Application) Validate(doc *Document) error {
	positions, nesting := doc.Engine.Check()
	errs := NewErrorList()
	for _, v := range positions {
		errs.Add(errors.New(v.String()))
	}
	for _, v := range nesting {
		errs.Add(v)
	}
	if !errs.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDocument, errs)
}

// Export writes doc to w as html, text, json, yaml or toml.
func (app *Application) Export(doc *Document, format string, w io.Writer) error {
	var out []byte
	switch strings.ToLower(format) {
	case "html":
		out = []byte(export.HTML(doc.Engine.Root(), export.Options{}))
	case "text", "txt":
		out = []byte(export.Text(doc.Engine.Root()) + "\n")
	default:
		f, err := record.ParseFormat(format)
		if err != nil {
			return NewOperationError("export", doc.Name, fmt.Errorf("%w %q (want %s)", ErrUnknownExport, format, ExportFormats()))
		}
		out, err = record.Encode(doc.Engine.Record(), f)
		if err != nil {
			return NewOperationError("export", doc.Name, err)
		}
	}
	if _, err := w.Write(out); err != nil {
		return NewOperationError("export", doc.Name, err)
	}
	return nil
}

// Outline writes doc's node tree with positions to w.
func (app *Application) Outline(doc *Document, w io.Writer) error {
	_, err := io.WriteString(w, export.Outline(doc.Engine.Root()))
	return err
}

// RunScript runs the Lua file at path against doc. print output goes to out.
func (app *Application) RunScript(ctx context.Context, doc *Document, path string, out io.Writer) error {
	state, err := lua.NewState(lua.WithOutput(out))
	if err != nil {
		return NewOperationError("run", path, err)
	}
	defer state.Close()

	lua.NewDocModule(doc.Engine, app.logger).Register(state)
	before := doc.Engine.Revision()
	if err := state.DoFile(ctx, path); err != nil {
		return NewOperationError("run", path, err)
	}
	app.logger.Info("ran %s: %d commits", path, doc.Engine.Revision()-before)
	return nil
}

// Watch reloads doc whenever its file changes on disk and then calls
// onReload. Watchers stop at Shutdown.
func (app *Application) Watch(doc *Document, onReload func(*Document, error)) error {
	if doc.Path == "" {
		return NewOperationError("watch", doc.Name, ErrNoPath)
	}
	w, err := app.store.Watch(doc.Path, func(rec record.Record, err error) {
		if err == nil {
			err = doc.Engine.Load(rec)
		}
		if err == nil {
			doc.markSaved()
			if perr := app.bus.Publish(context.Background(), event.TopicReloaded, Source, Reloaded{
				Path:     doc.Path,
				Revision: doc.Engine.Revision(),
			}); perr != nil {
				app.logger.Debug("publish %s: %v", event.TopicReloaded, perr)
			}
		} else {
			app.logger.Warn("reload %s: %v", doc.Path, err)
		}
		if onReload != nil {
			onReload(doc, err)
		}
	}, store.WithDebounce(app.config.Store.WatchDebounce))
	if err != nil {
		return NewOperationError("watch", doc.Path, err)
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return errors.Join(NewOperationError("watch", doc.Path, ErrShutdown), w.Close())
	}
	app.watchers = append(app.watchers, w)
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "untitled document"
	}
	return path
}
