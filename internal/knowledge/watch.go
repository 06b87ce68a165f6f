package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 250 * time.Millisecond

// Watch reloads lib from dir whenever a record file in dir changes. Bursts of
// events are collapsed into a single reload. Watch returns once the watcher
// is running; it stops when ctx is cancelled.
func Watch(ctx context.Context, dir string, lib *Library, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("watching behavior library", "dir", dir)

	go func() {
		defer watcher.Close()

		timer := time.NewTimer(debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isRecordFile(event.Name) || event.Op == fsnotify.Chmod {
					continue
				}
				logger.Debug("behavior library changed", "file", filepath.Base(event.Name), "op", event.Op.String())
				timer.Reset(debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("behavior library watcher error", "error", err)

			case <-timer.C:
				entries, err := Load(dir, logger)
				if err != nil {
					logger.Error("reload behavior library", "error", err)
					continue
				}
				lib.Replace(entries)
				logger.Info("behavior library reloaded", "entries", len(entries))
			}
		}
	}()

	return nil
}

func isRecordFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
