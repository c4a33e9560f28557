package store

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay coalesces the events of a single atomic write.
const DefaultDebounceDelay = 100 * time.Millisecond

// Watcher reports changes to documents of a FileStore made by any process.
// Atomic writes arrive as a rename onto the document, so creates, writes and
// removals of a watched document all count as a change.
type Watcher struct {
	watcher *fsnotify.Watcher
	changes chan string
	errors  chan error
	done    chan struct{}
	keys    map[string]string // document path -> key

	mu            sync.Mutex
	debounceDelay time.Duration
	debounceMap   map[string]*time.Timer
	closed        bool
}

// Watch starts watching the documents stored under keys.
func (f *FileStore) Watch(keys ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: start watcher: %v", ErrUnavailable, err)
	}

	w := &Watcher{
		watcher:       fw,
		changes:       make(chan string, 16),
		errors:        make(chan error, 4),
		done:          make(chan struct{}),
		keys:          make(map[string]string, len(keys)),
		debounceDelay: DefaultDebounceDelay,
		debounceMap:   make(map[string]*time.Timer),
	}
	for _, k := range keys {
		w.keys[filepath.Clean(f.path(k))] = k
	}

	if err := fw.Add(f.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("%w: watch %s: %v", ErrUnavailable, f.dir, err)
	}

	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	key, ok := w.keys[filepath.Clean(event.Name)]
	if !ok {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.debounce(key)
}

// debounce reports key once its events have been quiet for debounceDelay.
func (w *Watcher) debounce(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, exists := w.debounceMap[key]; exists {
		timer.Stop()
	}
	w.debounceMap[key] = time.AfterFunc(w.debounceDelay, func() {
		w.mu.Lock()
		delete(w.debounceMap, key)
		w.mu.Unlock()

		select {
		case w.changes <- key:
		case <-w.done:
		default:
			// A change for this burst is already queued
		}
	})
}

// Changes delivers the key of each changed document.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors delivers watcher failures. Full buffers drop errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// SetDebounceDelay changes the quiet period. Call before the first change.
func (w *Watcher) SetDebounceDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDelay = d
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.debounceMap {
		timer.Stop()
	}
	w.debounceMap = nil
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
