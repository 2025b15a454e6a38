// Package watch provides file system monitoring for an externally managed
// Things database file.
//
// The Things app owns the database and writes to it at any time. Watching
// the file (and its SQLite WAL siblings) lets long-running consumers refresh
// their view without polling. Bursts of writes are coalesced: the app
// touches the WAL several times per save, so raw events are debounced into
// a single Change per quiet period.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period required before a Change is emitted.
const DefaultDebounce = 500 * time.Millisecond

// Change indicates the database file was written. Path is the database file,
// not the WAL sibling that may have triggered the event.
type Change struct {
	Path string
	At   time.Time
}

// Watcher monitors one database file for writes. It watches the containing
// directory, because SQLite swaps WAL files in and out and the app may
// replace the database wholesale.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	names    map[string]bool
	debounce time.Duration

	events chan Change
	errors chan error
	done   chan struct{}

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New creates a watcher for the database file at path. A non-positive
// debounce falls back to DefaultDebounce. The watcher must be started with
// Start() before it emits events.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	base := filepath.Base(path)
	return &Watcher{
		watcher:  fsw,
		path:     path,
		debounce: debounce,
		names: map[string]bool{
			base:          true,
			base + "-wal": true,
			base + "-shm": true,
		},
		events: make(chan Change, 16),
		errors: make(chan error, 10),
		done:   make(chan struct{}),
	}, nil
}

// Start begins watching the database file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch database directory %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop stops watching and cleans up resources. It blocks until the event
// processing goroutine has exited; the Events and Errors channels are closed
// before Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()

	close(w.events)
	close(w.errors)
	return nil
}

// Events returns the channel that emits debounced Change notifications.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Errors returns the channel that emits watcher errors.
// The channel is closed when the watcher is stopped.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// IsRunning reports whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// processEvents is the main loop: it converts raw fsnotify events to
// debounced Change notifications.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if !timer.Stop() && armed {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			armed = true

		case <-timer.C:
			armed = false
			select {
			case w.events <- Change{Path: w.path, At: time.Now()}:
			case <-w.done:
				return
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		}
	}
}

// relevant reports whether a raw event concerns the database file or one of
// its WAL siblings. Chmod-only events are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.names[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}
