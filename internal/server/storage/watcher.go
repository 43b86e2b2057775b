package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/filex"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of filesystem events a single snapshot
// rewrite produces (create of the temp file, write, rename) into one reload.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the store whenever the snapshot file changes on disk, until
// ctx is cancelled. It is meant for processes that read a snapshot some other
// process writes (auto-save off); running it alongside auto-save would make
// the store reload its own writes.
//
// The parent directory is watched rather than the file itself, because the
// atomic-rename save replaces the inode the file watch would be bound to.
func (s *Store) Watch(ctx context.Context) error {
	// Read once under the lock; a later SetPath does not retarget a running
	// watch.
	path := s.Path()
	if path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating snapshot watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if _, err := filex.EnsureDir(dir); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	s.logger.Info(ctx, "watching snapshot", "path", path)

	var debounce *time.Timer
	var reload <-chan time.Time

	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
			} else {
				debounce.Reset(watchDebounce)
			}
			reload = debounce.C

		case <-reload:
			reload = nil
			if err := s.Load(ctx); err != nil {
				s.logger.Error(ctx, "snapshot reload failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(ctx, "snapshot watcher error", "error", err)
		}
	}
}
