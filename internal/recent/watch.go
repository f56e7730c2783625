package recent

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/raphi011/recents/internal/log"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 200 * time.Millisecond

// Watch refreshes whenever a record file changes and reports each refresh
// to onRefresh. It blocks until ctx is done.
//
// Directories are watched instead of files because record files are
// replaced by rename.
func (s *Service) Watch(ctx context.Context, onRefresh func(RefreshResult, error)) error {
	sources, err := s.Sources(ctx)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	l := log.FromContext(ctx)
	files := make(map[string]bool, len(sources))
	for _, src := range sources {
		files[filepath.Clean(src.Path)] = true
		dir := filepath.Dir(src.Path)
		if err := watcher.Add(dir); err != nil {
			l.Debug("watch failed", "dir", dir, "err", err)
		}
	}
	if len(watcher.WatchList()) == 0 {
		return ErrNoInstances
	}

	var (
		mu       sync.Mutex
		timer    *time.Timer
		inflight sync.WaitGroup
	)
	refresh := func() {
		defer inflight.Done()
		if ctx.Err() != nil {
			return
		}
		onRefresh(s.Refresh(ctx))
	}
	// A scheduled refresh counts as in flight until it ran or was stopped.
	defer func() {
		mu.Lock()
		if timer != nil && timer.Stop() {
			inflight.Done()
		}
		mu.Unlock()
		inflight.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			if timer != nil && timer.Stop() {
				inflight.Done()
			}
			inflight.Add(1)
			timer = time.AfterFunc(watchDebounce, refresh)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.Debug("watcher error", "err", err)
		}
	}
}
