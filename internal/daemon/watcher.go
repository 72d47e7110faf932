package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/gtmdocs/internal/logfields"
)

// DefaultDebounce coalesces the burst of events editors and exporters
// produce when replacing a file.
const DefaultDebounce = 2 * time.Second

// FileWatcher calls a function after a watched file changes. Bursts of
// events within the debounce window result in one call.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func(context.Context)
	watcher  *fsnotify.Watcher
}

// NewFileWatcher watches path. A debounce of zero uses DefaultDebounce.
func NewFileWatcher(path string, debounce time.Duration, onChange func(context.Context)) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watched path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory (more reliable than watching the file directly)
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(absPath), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{path: absPath, debounce: debounce, onChange: onChange, watcher: w}, nil
}

// Run blocks until ctx is done. onChange is never called concurrently
// with itself.
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer func() {
		if err := fw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	slog.Info("Watching file", logfields.Path(fw.path))

	name := filepath.Base(fw.path)
	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				if event.Op&fsnotify.Remove != 0 {
					slog.Warn("Watched file removed", logfields.Path(event.Name))
				}
				continue
			}
			slog.Debug("Watched file changed", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(fw.debounce)
		case <-timer.C:
			fw.onChange(ctx)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}
