package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoicedesk/internal/core/kv"
	"invoicedesk/pkg/logger"
)

const listenRetryDelay = time.Second

// channel is the NOTIFY channel for changes to the table.
func (s *KVStore) channel() string {
	return s.table + "_changed"
}

// notify publishes a change. Inside a transaction it is delivered on commit.
func (s *KVStore) notify(ctx context.Context, ev kv.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, "SELECT pg_notify($1, $2)", s.channel(), string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", ev.Key, err)
	}
	return nil
}

// Watch streams changes made by any process writing to the same table.
// It holds one pooled connection for LISTEN and reconnects after failures.
// The channel is closed when ctx is done.
func (s *KVStore) Watch(ctx context.Context) (<-chan kv.Event, error) {
	events := make(chan kv.Event, 16)
	go func() {
		defer close(events)
		s.listenLoop(ctx, events)
	}()
	return events, nil
}

func (s *KVStore) listenLoop(ctx context.Context, events chan<- kv.Event) {
	for ctx.Err() == nil {
		conn, err := s.txm.pool.Acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "failed to acquire connection for LISTEN", "error", err)
			sleepCtx(ctx, listenRetryDelay)
			continue
		}

		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{s.channel()}.Sanitize()); err != nil {
			conn.Release()
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "failed to LISTEN", "channel", s.channel(), "error", err)
			sleepCtx(ctx, listenRetryDelay)
			continue
		}

		logger.Debug(ctx, "listening for storage changes", "channel", s.channel())
		s.waitForNotifications(ctx, conn, events)

		// The connection may still be subscribed; drop it instead of
		// returning it to the pool.
		_ = conn.Conn().Close(context.Background())
		conn.Release()
	}
}

func (s *KVStore) waitForNotifications(ctx context.Context, conn *pgxpool.Conn, events chan<- kv.Event) {
	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn(ctx, "storage notification wait failed", "error", err)
			}
			return
		}

		var ev kv.Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil || ev.Key == "" {
			logger.Warn(ctx, "ignoring malformed storage notification", "payload", notification.Payload)
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
