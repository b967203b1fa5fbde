package config

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when operating on a closed watcher.
var ErrWatcherClosed = errors.New("config watcher closed")

// ReloadHandler receives the newly loaded configuration, or the load
// error when the changed file no longer parses.
type ReloadHandler func(cfg *Config, err error)

// Watcher reloads the configuration when its file changes on disk.
// Rapid successive writes (editors often truncate then write) are
// debounced into one reload.
type Watcher struct {
	loader   *Loader
	handler  ReloadHandler
	debounce time.Duration

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload debounce window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// NewWatcher starts watching the loader's file. The handler runs on
// the watcher's goroutine.
func NewWatcher(loader *Loader, handler ReloadHandler, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		loader:   loader,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	// Watch the directory rather than the file: editors replace the
	// file on save, which drops a direct file watch.
	dir := filepath.Dir(loader.Path())
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	target, _ := filepath.Abs(w.loader.Path())

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			path, err := filepath.Abs(ev.Name)
			if err != nil || path != target {
				continue
			}
			w.scheduleReload()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	cfg, err := w.loader.Load()
	w.handler(cfg, err)
}

// Close stops watching. Pending reloads are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
