package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/internal/core/kv"
	"invoicedesk/pkg/logger"
)

// CorruptSuffix names the key that keeps a corrupted value replaced by a
// lenient append: "invoices" is copied to "invoices.corrupt".
const CorruptSuffix = ".corrupt"

// Store persists ordered collections of T under storage keys.
//
// A value that does not decode as a JSON array is treated as an empty
// collection unless strict decoding is enabled, in which case reads fail with
// CORRUPTED_COLLECTION. JSON null decodes as empty in both modes.
type Store[T any] struct {
	area   kv.Store
	strict bool
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	strict bool
}

// WithStrictDecoding makes corrupted values surface as errors.
func WithStrictDecoding(strict bool) StoreOption {
	return func(o *storeOptions) {
		o.strict = strict
	}
}

// NewStore creates a collection store over the given storage area.
func NewStore[T any](area kv.Store, opts ...StoreOption) *Store[T] {
	var o storeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{area: area, strict: o.strict}
}

// Read returns the collection stored at key. A missing key yields an empty,
// non-nil slice.
func (s *Store[T]) Read(ctx context.Context, key string) ([]T, error) {
	raw, found, err := s.area.Get(ctx, key)
	if err != nil {
		return nil, apperror.NewStorage("read", key, err)
	}
	if !found {
		return []T{}, nil
	}
	items, _, err := s.decode(ctx, key, raw)
	return items, err
}

// Write replaces the collection stored at key.
func (s *Store[T]) Write(ctx context.Context, key string, items []T) error {
	raw, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.area.Set(ctx, key, raw); err != nil {
		return apperror.NewStorage("write", key, err)
	}
	return nil
}

// Append adds item to the end of the collection at key.
func (s *Store[T]) Append(ctx context.Context, key string, item T) error {
	_, err := s.AppendFunc(ctx, key, func([]T) (T, error) {
		return item, nil
	})
	return err
}

// AppendFunc builds the next item from the current collection and appends it.
// When the storage area implements kv.Updater the read, build and write happen
// as one atomic step; otherwise a concurrent append to the same key may be lost.
func (s *Store[T]) AppendFunc(ctx context.Context, key string, build func(existing []T) (T, error)) (T, error) {
	var (
		appended  T
		discarded []byte
	)

	err := kv.Update(ctx, s.area, key, func(current []byte, found bool) ([]byte, error) {
		discarded = nil
		items := []T{}
		if found {
			decoded, corrupt, err := s.decode(ctx, key, current)
			if err != nil {
				return nil, err
			}
			if corrupt {
				discarded = current
			}
			items = decoded
		}

		next, err := build(items)
		if err != nil {
			return nil, err
		}
		appended = next
		return encode(append(items, next))
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return appended, err
		}
		return appended, apperror.NewStorage("append", key, err)
	}
	if len(discarded) > 0 {
		s.keepCorrupted(ctx, key, discarded)
	}
	return appended, nil
}

// keepCorrupted copies a value overwritten by a lenient append to
// key+CorruptSuffix, replacing any earlier copy.
func (s *Store[T]) keepCorrupted(ctx context.Context, key string, raw []byte) {
	backup := key + CorruptSuffix
	if err := s.area.Set(ctx, backup, raw); err != nil {
		logger.Error(ctx, "corrupted collection lost",
			"key", key,
			"bytes", len(raw),
			"error", err,
		)
		return
	}
	logger.Warn(ctx, "corrupted collection replaced, previous value kept",
		"key", key,
		"backup_key", backup,
		"bytes", len(raw),
	)
}

// decode reports corrupt=true when a lenient store read raw as empty
// because it is not a JSON array.
func (s *Store[T]) decode(ctx context.Context, key string, raw []byte) (items []T, corrupt bool, err error) {
	if err := json.Unmarshal(raw, &items); err != nil {
		if s.strict {
			return nil, false, apperror.NewCorruptedCollection(key, err)
		}
		logger.Warn(ctx, "corrupted collection treated as empty",
			"key", key,
			"error", err,
		)
		return []T{}, true, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, false, nil
}

func encode[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}
