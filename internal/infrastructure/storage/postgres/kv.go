package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"invoicedesk/internal/core/kv"
)

// DefaultKVTable holds the storage area when it is backed by PostgreSQL.
const DefaultKVTable = "sys_local_storage"

var (
	_ kv.Store   = (*KVStore)(nil)
	_ kv.Updater = (*KVStore)(nil)
	_ kv.Watcher = (*KVStore)(nil)
)

type kvRow struct {
	Value       []byte `db:"value"`
	Compression string `db:"compression"`
}

// KVStore implements the storage area on a table
// (key text primary key, value bytea, compression text, updated_at timestamptz).
//
// Update serializes writers of the same key with a transaction-scoped
// advisory lock, which also covers keys that do not exist yet.
type KVStore struct {
	txm   *TxManager
	codec *Codec
	table string
}

// NewKVStore creates a storage area over table. An empty table name uses DefaultKVTable.
func NewKVStore(txm *TxManager, codec *Codec, table string) *KVStore {
	if table == "" {
		table = DefaultKVTable
	}
	return &KVStore{txm: txm, codec: codec, table: table}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (s *KVStore) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.get(ctx, key)
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return s.put(ctx, key, value)
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	sql, args, err := s.Builder().
		Delete(s.table).
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return s.notify(ctx, kv.Event{Key: key, Deleted: true})
}

// Update runs fn under a per-key lock inside one transaction.
func (s *KVStore) Update(ctx context.Context, key string, fn kv.UpdateFunc) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := s.txm.GetQuerier(ctx)
		if _, err := q.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", s.table+":"+key); err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}

		current, found, err := s.get(ctx, key)
		if err != nil {
			return err
		}

		next, err := fn(current, found)
		if errors.Is(err, kv.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.put(ctx, key, next)
	})
}

func (s *KVStore) get(ctx context.Context, key string) ([]byte, bool, error) {
	sql, args, err := s.Builder().
		Select("value", "compression").
		From(s.table).
		Where(squirrel.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build query: %w", err)
	}

	var row kvRow
	if err := pgxscan.Get(ctx, s.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	value, err := s.codec.Decode(row.Value, CompressionAlgo(row.Compression))
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

func (s *KVStore) put(ctx context.Context, key string, value []byte) error {
	data, algo := s.codec.Encode(value)

	sql, args, err := s.Builder().
		Insert(s.table).
		Columns("key", "value", "compression", "updated_at").
		Values(key, data, string(algo), time.Now().UTC()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, compression = EXCLUDED.compression, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return s.notify(ctx, kv.Event{Key: key})
}
