package mapping

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
	"github.com/msto63/hl7view/pkg/core/logging"
)

// DefaultDebounce collapses the bursts of events editors produce on save
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc is called after the watched file was learned and swapped in
type ReloadFunc func(t *Table, generation uint64)

// Watcher re-learns a mapping file whenever it changes and swaps the
// result into a Store
type Watcher struct {
	path     string
	loader   Loader
	store    *Store
	debounce time.Duration
	logger   *logging.Logger
	onReload ReloadFunc
	onError  func(error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithLoader sets the loader used for re-learning
func WithLoader(l Loader) WatcherOption {
	return func(w *Watcher) { w.loader = l }
}

// WithDebounce sets the quiet period before a reload
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger
func WithLogger(l *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnReload registers a callback for successful reloads
func OnReload(fn ReloadFunc) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// OnError registers a callback for failed reloads
func OnError(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher creates a watcher for the mapping file at path
func NewWatcher(path string, store *Store, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		debounce: DefaultDebounce,
		logger:   logging.New("mapping"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

// Start watches the directory of the file so that replace-on-save editors
// are seen too. It returns once the watch is registered.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIOError).
			WithOperation("mapping.Watcher.Start")
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return mdwerror.Wrap(err, "failed to watch mapping directory").
			WithCode(mdwerror.CodeMappingRead).
			WithOperation("mapping.Watcher.Start").
			WithDetail("file", w.path)
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.logger.Info("watching mapping file", "file", w.path, "debounce", w.debounce.String())

	go w.watchLoop(ctx, fsw, w.stopCh, w.doneCh)
	return nil
}

// Stop ends watching and waits for the loop to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopCh)
	done := w.doneCh
	w.mu.Unlock()

	<-done
}

// Reload learns the file now and swaps it in. On failure the current
// table stays in place.
func (w *Watcher) Reload() error {
	t, err := w.loader.LoadFile(w.path)
	if err != nil {
		w.logger.Warn("mapping reload failed, keeping current table", "file", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return err
	}

	gen := w.store.Swap(t)
	w.logger.Info("mapping reloaded", "file", w.path, "mappings", t.Len(), "generation", gen)
	if w.onReload != nil {
		w.onReload(t, gen)
	}
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopping mapping watcher (context cancelled)")
			w.markStopped()
			return

		case <-stopCh:
			w.logger.Debug("stopping mapping watcher (stop signal)")
			return

		case event, ok := <-fsw.Events:
			if !ok {
				w.markStopped()
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Trace("mapping file event", "file", w.path, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = w.Reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				w.markStopped()
				return
			}
			w.logger.Error("mapping watcher error", "error", err)
		}
	}
}

func (w *Watcher) markStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}
