// Package watcher reports changes to documents under a data directory so open
// editor sessions can drop match sets computed against stale text.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var ErrWatcherClosed = errors.New("watcher closed")

// Op describes what happened to a path.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

func (op Op) String() string {
	var parts []string
	if op&OpCreate != 0 {
		parts = append(parts, "create")
	}
	if op&OpWrite != 0 {
		parts = append(parts, "write")
	}
	if op&OpRemove != 0 {
		parts = append(parts, "remove")
	}
	if op&OpRename != 0 {
		parts = append(parts, "rename")
	}
	return strings.Join(parts, "|")
}

// Event is a change to a file, with Path relative to the watched root and
// slash separated.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Config controls which paths produce events.
type Config struct {
	// Extensions limits events to files with these suffixes. Empty means all.
	Extensions []string
	// IgnoreDirs are directory names skipped at any depth.
	IgnoreDirs []string
	// IgnoreHidden skips files and directories starting with a dot.
	IgnoreHidden bool
	// BufferSize is the capacity of the event channel.
	BufferSize int
}

// DefaultConfig watches markdown files and skips hidden paths.
func DefaultConfig() Config {
	return Config{
		Extensions:   []string{".md"},
		IgnoreHidden: true,
		BufferSize:   100,
	}
}

// Watcher is a recursive fsnotify watcher rooted at one directory.
type Watcher struct {
	mu      sync.Mutex
	root    string
	config  Config
	watcher *fsnotify.Watcher
	events  chan Event
	errors  chan error
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New watches root and every directory below it.
func New(root string, config Config) (*Watcher, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	bufSize := config.BufferSize
	if bufSize <= 0 {
		bufSize = 100
	}

	w := &Watcher{
		root:    absRoot,
		config:  config,
		watcher: fsw,
		events:  make(chan Event, bufSize),
		errors:  make(chan error, bufSize),
		closeCh: make(chan struct{}),
	}

	if err := w.addRecursive(absRoot); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Events returns the event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run calls handle for every event until ctx is cancelled, then closes the
// watcher. Errors from fsnotify are passed to onError when it is not nil.
func (w *Watcher) Run(ctx context.Context, handle func(Event), onError func(error)) error {
	defer func() { _ = w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.events:
			if !ok {
				return ErrWatcherClosed
			}
			handle(event)
		case err, ok := <-w.errors:
			if !ok {
				return ErrWatcherClosed
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && w.ignoreDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	rel, err := filepath.Rel(w.root, fsEvent.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	rel = filepath.ToSlash(rel)

	// New directories are watched as they appear
	if op&OpCreate != 0 {
		if info, err := os.Stat(fsEvent.Name); err == nil && info.IsDir() {
			if !w.ignorePath(rel, true) {
				if err := w.addRecursive(fsEvent.Name); err != nil {
					w.sendError(err)
				}
			}
			return
		}
	}

	if w.ignorePath(rel, false) {
		return
	}

	w.sendEvent(Event{Path: rel, Op: op, Timestamp: time.Now()})
}

func (w *Watcher) ignoreDir(name string) bool {
	if w.config.IgnoreHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return slices.Contains(w.config.IgnoreDirs, name)
}

func (w *Watcher) ignorePath(rel string, isDir bool) bool {
	parts := strings.Split(rel, "/")
	dirs := parts[:len(parts)-1]
	if isDir {
		dirs = parts
	}
	for _, dir := range dirs {
		if w.ignoreDir(dir) {
			return true
		}
	}
	if isDir {
		return false
	}

	base := parts[len(parts)-1]
	if w.config.IgnoreHidden && strings.HasPrefix(base, ".") {
		return true
	}
	if len(w.config.Extensions) == 0 {
		return false
	}
	return !slices.Contains(w.config.Extensions, filepath.Ext(base))
}

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

// sendEvent drops the event when the channel is full
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
	default:
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
