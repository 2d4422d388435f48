// Package storage opens the configured local storage area and the optional
// directory database.
package storage

import (
	"context"
	"errors"
	"fmt"

	"invoicedesk/internal/config"
	"invoicedesk/internal/core/kv"
	"invoicedesk/internal/domain/auth"
	"invoicedesk/internal/infrastructure/storage/filekv"
	"invoicedesk/internal/infrastructure/storage/postgres"
	"invoicedesk/internal/infrastructure/storage/rediskv"
	"invoicedesk/pkg/logger"
)

// Resources are the opened backends. Close releases all of them.
type Resources struct {
	Area kv.Store

	// Pool and TxManager are set when DATABASE_URL is configured.
	Pool      *postgres.Pool
	TxManager *postgres.TxManager

	Checks map[string]func(ctx context.Context) error

	closers []func()
}

// Close releases connections in reverse order of opening.
func (r *Resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Open connects the storage area selected by cfg.Storage.Backend and, when a
// database URL is present, the Postgres pool used by the directory.
func Open(ctx context.Context, cfg config.Config) (*Resources, error) {
	res := &Resources{Checks: make(map[string]func(ctx context.Context) error)}

	if cfg.DatabaseURL != "" {
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		if cfg.DBMaxConns > 0 {
			poolCfg.MaxConns = int32(cfg.DBMaxConns)
		}
		// The directory alone tolerates a database that is down at startup.
		if cfg.Storage.Backend != config.BackendPostgres {
			poolCfg.MinConns = 0
			poolCfg.AllowUnreachable = true
		}
		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		res.Pool = pool
		res.TxManager = postgres.NewTxManager(pool)
		res.Checks["database"] = pool.Health
		res.closers = append(res.closers, pool.Close)
	}

	area, err := openArea(ctx, cfg, res)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.Area = area
	res.Checks["storage"] = func(ctx context.Context) error {
		_, _, err := area.Get(ctx, auth.FlagKey)
		return err
	}

	logger.Info(ctx, "storage area opened", "backend", cfg.Storage.Backend)
	return res, nil
}

func openArea(ctx context.Context, cfg config.Config, res *Resources) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil

	case config.BackendFile:
		return filekv.New(cfg.Storage.Dir)

	case config.BackendPostgres:
		if res.TxManager == nil {
			return nil, errors.New("postgres backend requires DATABASE_URL")
		}
		codec, err := postgres.NewCodec(postgres.DefaultCompressThreshold)
		if err != nil {
			return nil, err
		}
		return postgres.NewKVStore(res.TxManager, codec, postgres.DefaultKVTable), nil

	case config.BackendRedis:
		client, err := rediskv.NewClient(ctx, rediskv.ClientConfig{URL: cfg.Storage.RedisURL})
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		res.Checks["redis"] = client.Health
		res.closers = append(res.closers, func() { _ = client.Close() })
		return rediskv.New(client.Client,
			rediskv.WithPrefix(cfg.Storage.RedisPrefix),
			rediskv.WithMaxRetries(cfg.Storage.RedisMaxRetries),
		), nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
