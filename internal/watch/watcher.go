// Package watch reports changes to the image files under a directory tree.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imgview/internal/log"
	"imgview/internal/scan"

	"github.com/fsnotify/fsnotify"
)

// Change is delivered once a burst of filesystem events has gone quiet.
type Change struct {
	Paths     []string // paths touched during the burst, in arrival order
	Timestamp time.Time
}

// Watcher monitors a directory tree for image files appearing, disappearing
// or being renamed. fsnotify only watches single directories, so every
// directory in the tree is registered and new ones are added as they show up.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration

	// Directories being watched
	dirs map[string]bool

	changes  chan Change
	stopChan chan struct{}
	done     chan struct{}

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher that waits debounce after the last relevant event
// before reporting a Change.
func New(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		dirs:      make(map[string]bool),
		changes:   make(chan Change, 1),
	}, nil
}

// AddTree watches root and every directory beneath it.
func (w *Watcher) AddTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.dirs[dir] {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}
	w.dirs[dir] = true
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

func (w *Watcher) forgetDir(dir string) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.dirs[dir] {
		return false
	}
	delete(w.dirs, dir)
	return true
}

// Changes returns the channel that delivers debounced changes. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins processing events in a separate goroutine. A stopped watcher
// cannot be started again.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.closed || w.stopChan != nil {
		return fmt.Errorf("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop()

	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	var pending []string
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			pending = append(pending, event.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: pending, Timestamp: time.Now()}
			pending = nil
			// a change already waiting covers this one too
			select {
			case w.changes <- change:
			default:
				log.Debug("Change already pending, coalesced")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err.Error())).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// relevant keeps the directory registry in sync and reports whether the
// event can change the image set.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.AddTree(event.Name); err != nil {
				log.LogWithFields(log.F("directory", event.Name), log.F("error", err.Error())).Warn("Cannot watch new directory")
			}
			return true
		}
	}
	if event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		if w.forgetDir(event.Name) {
			return true
		}
	}
	if !scan.IsImage(event.Name) {
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename)
}

// Stop halts the watcher, waits for the event loop to exit and releases the
// fsnotify handle. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	wasRunning := w.running
	if wasRunning {
		w.running = false
		close(w.stopChan)
	}
	closed := w.closed
	w.closed = true
	w.mutex.Unlock()

	if wasRunning {
		<-w.done
	}
	if closed {
		return
	}
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err.Error())).Error("Error closing fsnotify watcher")
	}
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		dirs = append(dirs, d)
	}
	return dirs
}
