// Package watcher re-imports a call graph whenever the analyzer writes a
// fresh CSV dump into the watched directory.
package watcher

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a dump directory and triggers a reload after the burst
// of writes that makes up one dump has settled.
type Watcher struct {
	dir       string
	fsWatcher *fsnotify.Watcher

	debounceDelay time.Duration
	debounceMu    sync.Mutex
	debounceTimer *time.Timer
	closed        bool
	reloads       sync.WaitGroup

	onReload func()
	onError  func(error)

	done chan struct{}
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay sets how long the directory must stay quiet before a
// reload fires. The analyzer writes three files per dump, so firing on
// the first event would import a half-written dump.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnError sets the callback for watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher on dir. onReload is called after each settled
// change to the directory's CSV files.
func New(dir string, onReload func(), opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:           dir,
		fsWatcher:     fsWatcher,
		debounceDelay: 500 * time.Millisecond,
		onReload:      onReload,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	return w, nil
}

// Start processes events until Close is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases its resources. It blocks until an
// in-flight reload has finished, so callers may tear down whatever the
// reload callback uses as soon as Close returns.
func (w *Watcher) Close() error {
	w.debounceMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.done)
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
	}
	w.debounceMu.Unlock()
	w.reloads.Wait()
	return w.fsWatcher.Close()
}

func (w *Watcher) schedule() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.closed {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.runReload)
}

// runReload is the debounce timer callback. The closed check and the
// WaitGroup add happen under the same lock Close takes, so a reload either
// runs to completion before Close returns or not at all.
func (w *Watcher) runReload() {
	w.debounceMu.Lock()
	if w.closed {
		w.debounceMu.Unlock()
		return
	}
	w.reloads.Add(1)
	w.debounceMu.Unlock()

	defer w.reloads.Done()
	w.onReload()
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".csv") {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename)
}
