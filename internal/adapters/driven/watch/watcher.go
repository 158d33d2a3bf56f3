// Package watch observes a directory tree for document changes and
// emits debounced events, so rapid editor write bursts collapse into a
// single re-ingestion.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corpora-labs/corpora-cli/internal/logger"
)

// DefaultDebounce is the quiet period before staged events are
// emitted.
const DefaultDebounce = 500 * time.Millisecond

// EventType classifies what happened to a file.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event is a single debounced file change.
type Event struct {
	Type EventType
	Path string
}

// Config holds watcher configuration.
type Config struct {
	// Debounce is the quiet period before staged events are emitted.
	// Defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher emits debounced file change events for a directory tree.
// A Watcher supports one active Watch at a time.
type Watcher struct {
	debounce time.Duration

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool
}

// NewWatcher creates a debounced filesystem watcher.
func NewWatcher(cfg Config) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch observes root and all its subdirectories until ctx is
// cancelled, then closes the returned channel. Hidden files and
// directories are ignored. Events for the same path arriving within
// the debounce window are coalesced.
func (w *Watcher) Watch(ctx context.Context, root string) (<-chan Event, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s: not a directory", root)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("watcher is closed")
	}
	if w.fsw != nil {
		return nil, fmt.Errorf("watch already active")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, root, nil); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	w.fsw = fsw

	out := make(chan Event)
	go w.run(ctx, fsw, out)
	return out, nil
}

// Close stops the active watch and prevents new ones.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	defer func() {
		w.mu.Lock()
		if w.fsw == fsw {
			w.fsw = nil
		}
		w.mu.Unlock()
		fsw.Close() //nolint:errcheck
		close(out)
	}()

	pending := make(map[string]EventType)
	var flushC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.stage(fsw, ev, pending)
			if len(pending) > 0 {
				flushC = time.After(w.debounce)
			}

		case <-flushC:
			flushC = nil
			for _, e := range drain(pending) {
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// stage translates a raw fsnotify event into the pending set. New
// directories are added to the watch and their contents staged as
// created, since files may land before the watch takes effect.
func (w *Watcher) stage(fsw *fsnotify.Watcher, ev fsnotify.Event, pending map[string]EventType) {
	if isHidden(ev.Name) {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			if err := addTree(fsw, ev.Name, func(path string) {
				pending[path] = coalesce(pending[path], EventCreated)
			}); err != nil {
				logger.Warn("watch new directory %s: %v", ev.Name, err)
			}
			return
		}
		pending[ev.Name] = coalesce(pending[ev.Name], EventCreated)

	case ev.Op.Has(fsnotify.Write):
		pending[ev.Name] = coalesce(pending[ev.Name], EventUpdated)

	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		next := coalesce(pending[ev.Name], EventDeleted)
		if next == "" {
			// Created and deleted inside one window, net nothing.
			delete(pending, ev.Name)
			return
		}
		pending[ev.Name] = next
	}
}

// coalesce merges a new event type into whatever is already staged for
// the path. An empty result means the path nets out to no change.
func coalesce(staged, next EventType) EventType {
	switch {
	case staged == "":
		return next
	case staged == EventCreated && next == EventUpdated:
		return EventCreated
	case staged == EventCreated && next == EventDeleted:
		return ""
	case staged == EventDeleted && next == EventCreated:
		return EventUpdated
	default:
		return next
	}
}

// drain empties the pending set into a path-ordered event slice.
func drain(pending map[string]EventType) []Event {
	events := make([]Event, 0, len(pending))
	for path, typ := range pending {
		events = append(events, Event{Type: typ, Path: path})
		delete(pending, path)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}

// addTree registers root and every non-hidden subdirectory with the
// watcher. When stage is non-nil it is called for each regular file
// found along the way.
func addTree(fsw *fsnotify.Watcher, root string, stage func(path string)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return fsw.Add(path)
		}
		if stage != nil && d.Type().IsRegular() {
			stage(path)
		}
		return nil
	})
}

// isHidden reports whether the path's base name starts with a dot.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
