// Package watcher reports changes to script files so runs can be repeated
// whenever a script is saved.
//
// It watches files or directories with fsnotify, keeps only names matching
// a glob pattern, and coalesces bursts of changes to one path into a single
// event after a quiet period.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/match"

	"github.com/dshills/idxtree/internal/logging"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("path does not exist")
)

// DefaultDelay is the quiet period used when Config.Delay is zero.
const DefaultDelay = 100 * time.Millisecond

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was written to.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a debounced change to one path.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string
	// Op combines every operation seen during the quiet period.
	Op Op
	// Timestamp is when the event was delivered.
	Timestamp time.Time
}

// Config configures a Watcher.
type Config struct {
	// Pattern is a glob matched against base names of files in watched
	// directories, such as "*.lua". Empty matches everything. Files
	// watched directly are always reported.
	Pattern string
	// Delay is the quiet period before an event is delivered.
	Delay time.Duration
	// Logger receives dropped-event warnings. Nil discards them.
	Logger *logging.Logger
}

// Watcher delivers debounced, filtered file change events.
type Watcher struct {
	fsw     *fsnotify.Watcher
	pattern string
	delay   time.Duration
	log     *logging.Logger

	mu      sync.Mutex
	dirs    map[string]bool
	files   map[string]bool
	pending map[string]*pendingEvent
	closed  bool

	events   chan Event
	errors   chan error
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// pendingEvent tracks a debounced event.
type pendingEvent struct {
	ops   Op
	timer *time.Timer
}

// New creates a watcher. Call Watch to add paths.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Null()
	}

	w := &Watcher{
		fsw:     fsw,
		pattern: cfg.Pattern,
		delay:   cfg.Delay,
		log:     log.WithComponent("watcher"),
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, 16),
		errors:  make(chan error, 16),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch adds a file or directory. A file is watched through its parent
// directory so that editors which save by renaming are still seen.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	dir := absPath
	if !info.IsDir() {
		dir = filepath.Dir(absPath)
		w.files[absPath] = true
	} else {
		w.dirs[absPath] = true
	}
	return w.fsw.Add(dir)
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Pending events are dropped.
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

	w.closedWg.Wait()
	err := w.fsw.Close()
	close(w.events)
	close(w.errors)
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.log.Warn("dropping watch error: %v", err)
			}
		}
	}
}

// handle filters an fsnotify event and schedules its delivery.
func (w *Watcher) handle(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.matches(fsEvent.Name) {
		return
	}

	if p, ok := w.pending[fsEvent.Name]; ok {
		p.ops |= op
		p.timer.Reset(w.delay)
		return
	}
	path := fsEvent.Name
	p := &pendingEvent{ops: op}
	p.timer = time.AfterFunc(w.delay, func() { w.fire(path) })
	w.pending[path] = p
}

// matches reports whether path is a watched file or a pattern match in a
// watched directory. Callers hold w.mu.
func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	if !w.dirs[filepath.Dir(path)] {
		return false
	}
	return w.pattern == "" || match.Match(filepath.Base(path), w.pattern)
}

// fire delivers the pending event for path.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	ev := Event{Path: path, Op: p.ops, Timestamp: time.Now()}

	// Send while holding the lock so Close cannot close the channel
	// underneath us.
	select {
	case w.events <- ev:
	default:
		w.log.Warn("event channel full, dropping %s", path)
	}
	w.mu.Unlock()
}

// convertOp converts fsnotify.Op to Op. Chmod alone is not a change.
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
	return op
}
