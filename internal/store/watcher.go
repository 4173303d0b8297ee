package store

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/aditor/internal/document/record"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives a freshly decoded record, or the error that
// prevented decoding it.
type ReloadFunc func(rec record.Record, err error)

// Watcher reloads one document file whenever it changes on disk.
//
// The parent directory is watched rather than the file so replacements by
// rename, as Save does, are still seen.
type Watcher struct {
	store    *FileStore
	path     string
	debounce time.Duration
	onReload ReloadFunc

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup

	events  atomic.Int64
	reloads atomic.Int64
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for changes to settle.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// Watch starts watching path and calls onReload after each change.
func (s *FileStore) Watch(path string, onReload ReloadFunc, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &PathError{Op: "watch", Path: path, Err: err}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &PathError{Op: "watch", Path: path, Err: err}
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, &PathError{Op: "watch", Path: path, Err: err}
	}

	w := &Watcher{
		store:    s,
		path:     abs,
		debounce: DefaultDebounce,
		onReload: onReload,
		fsw:      fsw,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	s.logger.Info("watching %s", abs)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns how many reloads have been delivered.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.store.logger.Warn("watch %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if filepath.Clean(ev.Name) != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
		return
	}
	w.events.Add(1)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	rec, err := w.store.Load(w.path)
	if err != nil {
		w.store.logger.Warn("reload %s: %v", w.path, err)
	}
	w.reloads.Add(1)
	if w.onReload != nil {
		w.onReload(rec, err)
	}
}
