package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/core/kv"
)

func newTestKV(t *testing.T) *KVStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	cfg := DefaultPoolConfig(dsn)
	cfg.MinConns = 0
	pool, err := NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	table := fmt.Sprintf("kv_test_%d", os.Getpid())
	_, err = pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY, value BYTEA NOT NULL,
		compression TEXT NOT NULL DEFAULT 'none', updated_at TIMESTAMPTZ NOT NULL DEFAULT now())`, table))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
	})

	codec, err := NewCodec(32)
	require.NoError(t, err)
	return NewKVStore(NewTxManager(pool), codec, table)
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	_, found, err := s.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "invoices", []byte(`[{"name":"Acme","total":100},{"name":"Beta","total":50}]`)))

	v, found, err := s.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"name":"Acme","total":100},{"name":"Beta","total":50}]`, string(v))

	require.NoError(t, s.Delete(ctx, "invoices"))
	_, found, err = s.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVStore_LargeValueIsCompressed(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	value := []byte(`["` + strings.Repeat("a", 500) + `"]`)
	require.NoError(t, s.Set(ctx, "quotations", value))

	var algo string
	err := s.txm.GetQuerier(ctx).QueryRow(ctx, "SELECT compression FROM "+s.table+" WHERE key = $1", "quotations").Scan(&algo)
	require.NoError(t, err)
	assert.Equal(t, string(CompressionZstd), algo)

	got, _, err := s.Get(ctx, "quotations")
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestKVStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestKV(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Update(ctx, "counter", func(cur []byte, found bool) ([]byte, error) {
				return append(cur, 'x'), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, _, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Len(t, v, 10)

	err = s.Update(ctx, "counter", func([]byte, bool) ([]byte, error) { return nil, kv.ErrAborted })
	require.NoError(t, err)
}

func TestKVStore_WatchSeesWrites(t *testing.T) {
	s := newTestKV(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, err := s.Watch(ctx)
	require.NoError(t, err)

	// LISTEN is issued asynchronously, so keep writing until one is seen.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "watch closed before an event arrived")
			assert.Equal(t, kv.Event{Key: "receipts"}, ev)
			return
		case <-ticker.C:
			require.NoError(t, s.Set(ctx, "receipts", []byte(`[]`)))
		case <-ctx.Done():
			t.Fatal("no storage event received")
		}
	}
}
