package filekv

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"invoicedesk/internal/core/kv"
	"invoicedesk/pkg/logger"
)

// Watch reports changes to keys in the directory, including those written by
// other processes. The channel is closed when ctx is done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan kv.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	events := make(chan kv.Event, 16)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				out, ok := translate(ev)
				if !ok {
					continue
				}
				select {
				case events <- out:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn(ctx, "storage watcher error", "dir", s.dir, "error", err)
			}
		}
	}()

	return events, nil
}

func translate(ev fsnotify.Event) (kv.Event, bool) {
	key, ok := keyFromPath(ev.Name)
	if !ok {
		return kv.Event{}, false
	}
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return kv.Event{Key: key, Deleted: true}, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return kv.Event{Key: key}, true
	}
	return kv.Event{}, false
}
