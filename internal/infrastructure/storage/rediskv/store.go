package rediskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"invoicedesk/internal/core/kv"
	"invoicedesk/pkg/logger"
)

const (
	// DefaultPrefix namespaces storage keys inside a shared Redis database.
	DefaultPrefix = "invoicedesk:ls:"

	defaultMaxRetries = 16
)

var (
	_ kv.Store   = (*Store)(nil)
	_ kv.Updater = (*Store)(nil)
)

// Store maps storage keys to Redis strings under a prefix.
type Store struct {
	client     redis.UniversalClient
	prefix     string
	maxRetries int
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithMaxRetries bounds optimistic retries in Update.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// New creates a Store on top of an existing client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:     client,
		prefix:     DefaultPrefix,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return get(ctx, s.client, s.prefix+key)
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// ErrTooManyConflicts is returned when Update keeps losing the optimistic race.
var ErrTooManyConflicts = errors.New("rediskv: too many concurrent updates")

// Update runs fn under WATCH and commits with MULTI/EXEC. A concurrent write
// to the key aborts the transaction and fn runs again on the fresh value.
func (s *Store) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	full := s.prefix + key

	txf := func(tx *redis.Tx) error {
		current, found, err := get(ctx, tx, full)
		if err != nil {
			return err
		}
		next, err := fn(current, found)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, full, next, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, full)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, kv.ErrAborted):
			return nil
		case errors.Is(err, redis.TxFailedErr):
			logger.Debug(ctx, "redis update conflict, retrying", "key", key, "attempt", attempt)
			continue
		default:
			return err
		}
	}
	return fmt.Errorf("update %s: %w", key, ErrTooManyConflicts)
}

func get(ctx context.Context, c redis.Cmdable, key string) ([]byte, bool, error) {
	v, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}
