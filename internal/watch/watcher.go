// Package watch re-runs audits when catalog files change on disk.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"i18ncheck/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called once per settled batch of catalog changes.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher watches <dir>/<lang>/<file> catalogs. Rapid saves are batched:
// onChange fires once every pending change has been quiet for the debounce
// window.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	file        string
	debounceDur time.Duration
	pending     map[string]time.Time
	onChange    ChangeFunc
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Batches       int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// NewWatcher creates a watcher for the catalog root dir.
func NewWatcher(dir, file string, debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch: onChange is required")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		dir:         dir,
		file:        file,
		debounceDur: debounce,
		pending:     make(map[string]time.Time),
		onChange:    onChange,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start watches the catalog root and each language directory under it. It
// does not block; events are handled on a background goroutine until Stop or
// ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	log := logging.Get(logging.CategoryWatch)

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		if cerr := w.watcher.Close(); cerr != nil {
			log.Warnw("error closing watcher", "error", cerr)
		}
		return err
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		log.Warnw("failed to list catalog directory", "dir", w.dir, "error", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addDir(filepath.Join(w.dir, e.Name()))
		}
	}
	log.Infow("watching catalogs", "dir", w.dir, "file", w.file)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Warnw("error closing watcher", "error", err)
	}
	logging.Get(logging.CategoryWatch).Debugw("watcher stopped")
}

func (w *Watcher) addDir(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryWatch).Warnw("failed to watch directory", "dir", dir, "error", err)
		return
	}
	logging.Get(logging.CategoryWatch).Debugw("watching directory", "dir", dir)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 2
	if tick <= 0 || tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	log := logging.Get(logging.CategoryWatch)

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
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
			log.Warnw("watcher error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// A new language directory appearing under the root.
	if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == filepath.Clean(w.dir) {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			w.addDir(event.Name)
			if _, err := os.Stat(filepath.Join(event.Name, w.file)); err == nil {
				w.record(filepath.Join(event.Name, w.file))
			}
			return
		}
	}

	if filepath.Base(event.Name) != w.file {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	logging.Get(logging.CategoryWatch).Debugw("catalog changed", "path", event.Name, "op", event.Op.String())
	w.record(event.Name)
}

func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.pending[path] = now
	w.stats.Events++
	w.stats.LastEventTime = now
	w.stats.LastEventPath = path
}

// flush fires onChange when every pending change is older than the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	now := time.Now()
	for _, at := range w.pending {
		if now.Sub(at) < w.debounceDur {
			w.mu.Unlock()
			return
		}
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]time.Time)
	w.stats.Batches++
	w.mu.Unlock()

	sort.Strings(paths)
	logging.Get(logging.CategoryWatch).Infow("catalogs changed", "count", len(paths))
	w.onChange(ctx, paths)
}

// GetStats returns the current watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the watcher is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedDirs returns the directories being watched.
func (w *Watcher) WatchedDirs() []string {
	dirs := w.watcher.WatchList()
	sort.Strings(dirs)
	return dirs
}
