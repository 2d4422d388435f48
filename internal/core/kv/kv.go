// Package kv defines the local storage area: a process-wide key/value space
// shared by every instance that points at the same backing store.
//
// Implementations live in internal/infrastructure/storage. Domain code depends
// only on the interfaces declared here.
package kv

import (
	"context"
	"errors"
)

// ErrAborted is returned by an UpdateFunc to leave the stored value untouched.
var ErrAborted = errors.New("kv: update aborted")

// Store is the minimal key/value contract.
//
// Get reports found=false for an absent key; that is not an error.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// UpdateFunc receives the current value and returns the replacement.
// Returning ErrAborted skips the write without failing Update.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Updater is implemented by stores that can run a read-modify-write as one
// atomic step with respect to other writers of the same key.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Update runs fn atomically when s implements Updater, otherwise as a plain
// read followed by a write. In the fallback case two concurrent callers can
// both read the same value and the later write wins.
func Update(ctx context.Context, s Store, key string, fn UpdateFunc) error {
	if u, ok := s.(Updater); ok {
		return u.Update(ctx, key, fn)
	}

	current, found, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	next, err := fn(current, found)
	if errors.Is(err, ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next)
}

// Event describes a change to a key made through the backing store.
type Event struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

// Watcher is implemented by stores that can report changes made by other
// processes sharing the same backing store.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
