// Package watch re-runs generation when the input document or the config changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// DefaultDebounce coalesces the burst of events one editor save produces
const DefaultDebounce = 300 * time.Millisecond

// ChangeCallback is called once per debounced burst with the last changed file
type ChangeCallback func(path string) error

// Watcher watches a set of files for changes and triggers callbacks.
// Parent directories are watched so files replaced by rename are still seen.
type Watcher struct {
	files   map[string]bool
	watcher *fsnotify.Watcher

	mu             sync.Mutex
	callbacks      []ChangeCallback
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
	lastChanged    string

	log *zap.SugaredLogger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce overrides the debounce period
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncePeriod = d }
}

// WithLogger overrides the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(w *Watcher) { w.log = log }
}

// New creates a watcher for paths. Empty paths are ignored.
func New(paths []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	w := &Watcher{
		files:          make(map[string]bool),
		watcher:        fw,
		debouncePeriod: DefaultDebounce,
		log:            logger.ComponentLogger("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	if len(w.files) == 0 {
		fw.Close()
		return nil, errors.New("nothing to watch")
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}
	return w, nil
}

// OnChange registers a callback
func (w *Watcher) OnChange(callback ChangeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Run monitors file system events until ctx is done. It closes the watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugw("Watcher detected change",
				logger.FieldFile, event.Name,
				"op", event.Op.String())
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("Watcher error", logger.FieldError, err)
		}
	}
}

// relevant reports whether event is a write or create of a watched file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	if am.IsBackupFile(event.Name) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return w.files[abs]
}

// schedule debounces rapid file changes and triggers callbacks
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastChanged = path
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	path := w.lastChanged
	callbacks := make([]ChangeCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.log.Infow("Change detected, regenerating", logger.FieldFile, path)
	for _, callback := range callbacks {
		if err := callback(path); err != nil {
			// Continue calling other callbacks even if one fails
			w.log.Warnw("Change callback failed",
				logger.FieldFile, path,
				logger.FieldError, err)
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}
