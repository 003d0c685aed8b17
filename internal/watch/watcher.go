// Package watch reports changes to .desktop files in the application
// directories.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the quiet period before a batch is emitted
const DefaultInterval = 100 * time.Millisecond

// Watcher watches application directories (not recursively)
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer

	mu   sync.Mutex
	dirs map[string]bool
}

// New creates a watcher over dirs. Directories that do not exist yet are
// skipped; call Add once they are created.
func New(interval time.Duration, dirs ...string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(interval),
		dirs:      make(map[string]bool),
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("Not watching directory")
		}
	}
	return w, nil
}

// Add starts watching dir. Adding a directory twice is a no-op.
func (w *Watcher) Add(dir string) error {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.dirs[dir] = true
	log.Debug().Str("dir", dir).Msg("Watching directory")
	return nil
}

// Watching reports whether dir is being watched
func (w *Watcher) Watching(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[filepath.Clean(dir)]
}

// Events returns the channel of debounced batches
func (w *Watcher) Events() <-chan []Event {
	return w.debouncer.Output()
}

// Start processes file system events until the watcher is closed.
// Call it in a goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".desktop") {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(event.Name, op)
}

// Close stops the watcher and releases resources
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
