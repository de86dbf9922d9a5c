package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/montrey/shelf/catalog"
	"github.com/montrey/shelf/search"
)

// Watch calls onChange after catalog files under path change and then stay
// quiet for delay. path may be a catalog file or a catalog directory. Watch
// blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, delay time.Duration, logger *slog.Logger, onChange func()) error {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat catalog: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	var relevant func(name string) bool
	if info.IsDir() {
		if err := addDirs(w, path); err != nil {
			return err
		}
		relevant = func(name string) bool {
			return catalog.IsCatalogFile(name) || filepath.Base(name) == catalog.IgnoreFile
		}
	} else {
		// Watch the parent so editors that replace the file are still seen
		target := filepath.Clean(path)
		if err := w.Add(filepath.Dir(target)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
		}
		relevant = func(name string) bool {
			return filepath.Clean(name) == target
		}
	}

	debounce := search.NewDebouncer(delay)
	defer debounce.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if info.IsDir() && ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !hidden(ev.Name) {
					if err := addDirs(w, ev.Name); err != nil {
						logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
					}
				}
			}
			if !relevant(ev.Name) {
				continue
			}
			logger.Debug("catalog change", "path", ev.Name, "op", ev.Op.String())
			fired := debounce.Schedule()
			go func() {
				if <-fired {
					onChange()
				}
			}()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// addDirs watches root and every non-hidden directory below it.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
