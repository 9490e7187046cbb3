// Package watcher notifies about changes to individual files.
//
// Files are watched through their parent directory so that editors which
// save by writing a temp file and renaming it over the original are still
// seen. Bursts of events for the same file are debounced into one.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
)

// Op describes what happened to a file. Ops are combined when events are
// debounced.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op includes other.
func (op Op) Has(other Op) bool {
	return op&other != 0
}

// String returns the operation names.
func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpChmod, "chmod"},
	}
	s := ""
	for _, n := range names {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Event represents a (debounced) change to a watched file.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is every operation seen during the debounce window.
	Op Op

	// Time is when the last underlying event occurred.
	Time time.Time
}

// Handler is called when a watched file changes.
type Handler func(event Event)

// Watcher monitors a set of files.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler

	debounce time.Duration
	pending  map[string]*pendingEvent
	dispatch sync.Mutex

	errors      chan error
	totalEvents int64

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

type pendingEvent struct {
	op    Op
	at    time.Time
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		errors:   make(chan error, 16),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch adds a file. The file may not exist yet; its directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// SetDebounce changes the debounce duration for events that arrive from
// now on. Negative durations are ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Debounce returns the current debounce duration.
func (w *Watcher) Debounce() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.debounce
}

// OnChange registers a handler. Handlers run one at a time.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Errors returns errors reported by the underlying watcher.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// TotalEvents returns the number of dispatched events.
func (w *Watcher) TotalEvents() int64 {
	return atomic.LoadInt64(&w.totalEvents)
}

// Close stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	close(w.errors)
	return w.fsw.Close()
}

// processLoop handles incoming fsnotify events.
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
			w.handleFSEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// handleFSEvent records an event for a watched file and (re)arms its timer.
func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}

	path, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || !w.files[path] {
		return
	}

	now := time.Now()
	if p, ok := w.pending[path]; ok {
		p.op |= op
		p.at = now
		p.timer.Reset(w.debounce)
		return
	}

	w.pending[path] = &pendingEvent{
		op: op,
		at: now,
		timer: time.AfterFunc(w.debounce, func() {
			w.fire(path)
		}),
	}
}

// fire dispatches the pending event for path.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	event := Event{Path: path, Op: p.op, Time: p.at}
	atomic.AddInt64(&w.totalEvents, 1)

	w.dispatch.Lock()
	defer w.dispatch.Unlock()
	for _, h := range handlers {
		h(event)
	}
}

// convertOp converts fsnotify.Op to Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
