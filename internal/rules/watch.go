package rules

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/fsnotify.v1"
)

// Store holds the rule table currently in effect for a long-running process.
type Store struct {
	current atomic.Pointer[Set]
}

// NewStore returns a Store serving s.
func NewStore(s *Set) *Store {
	st := &Store{}
	st.current.Store(s)
	return st
}

// Load returns the active rule table.
func (st *Store) Load() *Set {
	return st.current.Load()
}

// Swap installs s as the active rule table.
func (st *Store) Swap(s *Set) {
	st.current.Store(s)
}

// Watcher reloads a rules file into a Store whenever it changes on disk.
// A file that fails to parse is logged and the previous table stays active.
type Watcher struct {
	path     string
	store    *Store
	log      *slog.Logger
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	done     chan struct{}
}

// Watch starts watching path. The directory is watched rather than the file
// so editors that replace the file on save are still seen.
func Watch(path string, store *Store, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		log:      log,
		watcher:  fw,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Stop ends the watch loop and releases the watcher.
func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.done
	w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("rules watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.log.Error("rules reload failed, keeping previous rules", "path", w.path, "error", err)
		return
	}
	w.store.Swap(s)
	w.log.Info("rules reloaded", "path", w.path)
}
