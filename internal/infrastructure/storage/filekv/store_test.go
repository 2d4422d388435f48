package filekv

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/core/kv"
)

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, found, err := s.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "invoices", []byte(`[{"name":"Acme"}]`)))
	v, found, err := s.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"name":"Acme"}]`, string(v))

	onDisk, err := os.ReadFile(filepath.Join(s.Dir(), "invoices.json"))
	require.NoError(t, err)
	assert.Equal(t, v, onDisk)

	require.NoError(t, s.Delete(ctx, "invoices"))
	require.NoError(t, s.Delete(ctx, "invoices"), "deleting a missing key is not an error")
	_, found, _ = s.Get(ctx, "invoices")
	assert.False(t, found)
}

func TestStore_SharedDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := New(dir)
	require.NoError(t, err)
	b, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "adminAuthenticated", []byte("true")))
	v, found, err := b.Get(ctx, "adminAuthenticated")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", string(v))
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b", ".hidden", "with space"} {
		assert.Error(t, s.Set(ctx, key, []byte("x")), key)
		_, _, err := s.Get(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestStore_UpdateSerializesInProcess(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, "log", func(cur []byte, _ bool) ([]byte, error) {
				return append(cur, '.'), nil
			}))
		}()
	}
	wg.Wait()

	v, _, err := s.Get(ctx, "log")
	require.NoError(t, err)
	assert.Len(t, v, 20)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_UpdateAbort(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "k", func([]byte, bool) ([]byte, error) { return nil, kv.ErrAborted }))
	_, found, _ := s.Get(ctx, "k")
	assert.False(t, found)
}

func TestStore_WatchSeesOtherWriter(t *testing.T) {
	dir := t.TempDir()
	watcherStore, err := New(dir)
	require.NoError(t, err)
	writer, err := New(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := watcherStore.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, writer.Set(context.Background(), "receipts", []byte("[]")))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "channel closed early")
			if ev.Key == "receipts" && !ev.Deleted {
				cancel()
				return
			}
		case <-deadline:
			t.Fatal("no change event for receipts")
		}
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		ev     fsnotify.Event
		want   kv.Event
		wantOK bool
	}{
		{name: "create", ev: fsnotify.Event{Name: "/d/invoices.json", Op: fsnotify.Create}, want: kv.Event{Key: "invoices"}, wantOK: true},
		{name: "write", ev: fsnotify.Event{Name: "/d/invoices.json", Op: fsnotify.Write}, want: kv.Event{Key: "invoices"}, wantOK: true},
		{name: "remove", ev: fsnotify.Event{Name: "/d/invoices.json", Op: fsnotify.Remove}, want: kv.Event{Key: "invoices", Deleted: true}, wantOK: true},
		{name: "temp file", ev: fsnotify.Event{Name: "/d/.tmp-123", Op: fsnotify.Create}},
		{name: "foreign file", ev: fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Write}},
		{name: "chmod only", ev: fsnotify.Event{Name: "/d/invoices.json", Op: fsnotify.Chmod}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.ev)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
