package file

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/threadlight/internal/logger"
)

// reloadDebounce collapses the burst of events a single save produces.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the config file whenever it changes on disk and sends on
// the returned channel after each successful reload. The channel is closed
// when ctx is done.
//
// The directory is watched rather than the file so that editors which
// replace the file by rename are still observed.
func (s *ConfigStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.filePath), err)
	}

	reloaded := make(chan struct{}, 1)

	go func() {
		defer close(reloaded)
		defer watcher.Close()

		var pending <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if s.affects(event) {
					pending = time.After(reloadDebounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher: %v", err)

			case <-pending:
				pending = nil
				if err := s.Load(); err != nil {
					logger.Warn("config reload failed, keeping previous values: %v", err)
					continue
				}
				logger.Info("reloaded %s", s.filePath)
				select {
				case reloaded <- struct{}{}:
				default:
				}
			}
		}
	}()

	return reloaded, nil
}

// affects reports whether event changed the config file's content.
func (s *ConfigStore) affects(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(s.filePath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
