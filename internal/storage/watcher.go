// This file implements a file system watcher for the object bucket. Files
// removed out-of-band (a cleanup script, a disk migration) leave dangling
// references in series and profile rows; the watcher makes those removals
// visible in the logs so operators can reconcile them.

package storage

import (
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the bucket directories for external changes.
type Watcher struct {
	bucket   *Bucket
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
}

// NewWatcher creates a watcher over an existing bucket.
func NewWatcher(bucket *Bucket) *Watcher {
	return &Watcher{
		bucket:   bucket,
		stopChan: make(chan struct{}),
	}
}

// Start begins watching the bucket directories.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	for _, kind := range []Kind{KindCover, KindAvatar} {
		dir := filepath.Join(w.bucket.Root(), string(kind))
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return err
		}
	}

	log.Printf("Storage watcher started for bucket: %s", w.bucket.Root())
	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Storage watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Chmod events fire when files are merely read or browsed.
	if event.Op == fsnotify.Chmod {
		return
	}

	if event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename {
		rel, err := filepath.Rel(w.bucket.Root(), event.Name)
		if err != nil {
			rel = event.Name
		}
		log.Printf("Storage object removed outside the API: /storage/%s (references may now dangle)", filepath.ToSlash(rel))
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && !info.IsDir() {
			log.Printf("Storage object appeared outside the API: %s", event.Name)
		}
	}
}
