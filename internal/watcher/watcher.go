// Package watcher bridges the filesystem to the engine (C7): it watches
// workspace folders for create/modify/remove events, debounces bursts of
// writes from editors and build tools, and reports coalesced batches of
// changed/removed paths to the caller. Grounded on the LSP server's
// fs_watcher + on_insert/on_remove flow, translated from notify's
// poll-interval watcher to fsnotify's native, non-recursive one.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval coalesces rapid-fire events for the same path -- editors
// commonly emit several writes per save -- into a single callback, mirroring
// the 500ms poll interval the LSP server configures its filesystem watcher
// with.
const debounceInterval = 500 * time.Millisecond

// Watcher recursively watches a set of root folders and reports batches of
// changed and removed file paths through the callbacks given to New. Not
// safe to use after Close.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onInsert func(paths []string)
	onRemove func(paths []string)

	mu     sync.Mutex
	timers map[string]*time.Timer
	dirty  map[string]bool // true = upsert, false = remove

	trackedMu sync.RWMutex
	tracked   map[string]struct{}

	done chan struct{}
}

// New creates a Watcher and starts its event loop. onInsert is called with
// every batch of paths that were created or modified; onRemove with every
// batch of paths that were deleted. WatchDir and UnwatchDir call them on
// the caller's goroutine; debounced event batches call them on a timer
// goroutine, so they may run concurrently with each other.
func New(onInsert, onRemove func(paths []string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		onInsert: onInsert,
		onRemove: onRemove,
		timers:   make(map[string]*time.Timer),
		dirty:    make(map[string]bool),
		tracked:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Track records that path is known to the engine, so future fsnotify
// events for it are processed even if its extension would otherwise be
// filtered out (a tracked file with a .log extension, for instance).
func (w *Watcher) Track(path string) {
	w.trackedMu.Lock()
	w.tracked[path] = struct{}{}
	w.trackedMu.Unlock()
}

// Untrack removes path from the tracked set. Safe to call for a path that
// was never tracked.
func (w *Watcher) Untrack(path string) {
	w.trackedMu.Lock()
	delete(w.tracked, path)
	w.trackedMu.Unlock()
}

func (w *Watcher) isTracked(path string) bool {
	w.trackedMu.RLock()
	defer w.trackedMu.RUnlock()
	_, ok := w.tracked[path]
	return ok
}

// WatchDir adds root and every directory beneath it to the watch set and
// reports every regular file currently under it as an insert batch.
// fsnotify has no recursive mode, so every directory is registered
// individually; new directories created later are picked up as Create
// events arrive for them.
func (w *Watcher) WatchDir(root string) error {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) > 0 {
		w.onInsert(files)
	}
	return nil
}

// UnwatchDir removes root and every directory beneath it from the watch
// set and reports every regular file that was under it as a remove batch.
func (w *Watcher) UnwatchDir(root string) error {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			_ = w.fsw.Remove(path)
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) > 0 {
		w.onRemove(files)
	}
	return nil
}

// Clear stops watching everything. The caller is responsible for telling
// the engine to drop every file (RemoveAll), since Clear no longer knows
// which paths were under which root.
func (w *Watcher) Clear() {
	for _, name := range w.fsw.WatchList() {
		_ = w.fsw.Remove(name)
	}
}

// Close stops the event loop and releases the underlying OS watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.shouldProcess(event.Name) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(event.Name)
			return
		}
		w.schedule(event.Name, true)
	case event.Has(fsnotify.Write):
		w.schedule(event.Name, true)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.schedule(event.Name, false)
	}
}

// shouldProcess mirrors the "extension is not .log, or the path is already
// tracked" filter the LSP server applies before touching the engine: scratch
// and log output from build tools is excluded by default, but a tracked
// file keeps being processed even through an extension-less rename.
func (w *Watcher) shouldProcess(path string) bool {
	if filepath.Ext(path) != ".log" {
		return true
	}
	return w.isTracked(path)
}

func (w *Watcher) schedule(path string, upsert bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.dirty[path] = upsert

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(debounceInterval, func() { w.flush(path) })
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	upsert, ok := w.dirty[path]
	if !ok {
		w.mu.Unlock()
		return
	}
	delete(w.dirty, path)
	delete(w.timers, path)
	w.mu.Unlock()

	if upsert {
		w.onInsert([]string{path})
	} else {
		w.onRemove([]string{path})
	}
}
