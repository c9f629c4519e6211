package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aldrinstellus/worksearch/internal/logger"
)

// debounce coalesces the bursts of events editors emit on save.
const debounce = 500 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files on save
	// and a watch on the old inode would go stale.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config dir: %w", err)
	}

	return &Watcher{path: path, watcher: w}, nil
}

// Start delivers reloaded configs to onChange until ctx is cancelled.
// Reload failures are logged and the previous config stays in effect.
func (w *Watcher) Start(ctx context.Context, onChange func(*Config)) {
	timer := time.NewTimer(0)
	<-timer.C

	go func() {
		defer w.watcher.Close()
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.relevant(event) {
					timer.Reset(debounce)
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error: %v", err)

			case <-timer.C:
				cfg, err := Load(w.path)
				if err != nil {
					logger.Warn("config reload failed, keeping previous config: %v", err)
					continue
				}
				logger.Info("config reloaded from %s", w.path)
				onChange(cfg)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// relevant reports whether an event concerns the config file itself.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}
