// Package watcher reports filesystem changes under a project root so the
// host layer can invalidate cached companion resolutions.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// IgnoreChecker filters paths that never affect companion resolution.
type IgnoreChecker interface {
	ShouldSkip(absolutePath string) bool
	ShouldSkipDir(absolutePath string) bool
}

// Watcher provides recursive, debounced change notification for a directory
// tree.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	rootDir       string
	logger        *slog.Logger
}

// NewWatcher registers every non-ignored directory under rootDir for
// watching.
func NewWatcher(rootDir string, ignoreChecker IgnoreChecker, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher:     fsWatcher,
		debouncer:     NewDebouncer(100 * time.Millisecond),
		ignoreChecker: ignoreChecker,
		rootDir:       rootDir,
		logger:        logger,
	}

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && ignoreChecker.ShouldSkipDir(path) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Changes returns the channel receiving debounced batches of changed paths.
func (w *Watcher) Changes() <-chan []string {
	return w.debouncer.Output()
}

// Start consumes filesystem events until the watcher is closed. Run it in a
// goroutine.
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
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Newly created directories join the watch set; their creation alone is
	// not a change that affects resolution.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.ignoreChecker.ShouldSkipDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	// .gitignore edits must reach the host layer even though the matcher
	// would normally skip dotfiles.
	if filepath.Base(path) != ".gitignore" && w.ignoreChecker.ShouldSkip(path) {
		return
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.debouncer.Add(path)
	}
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
