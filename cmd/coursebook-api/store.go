package main

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/pkg/cache"
	"github.com/noah-isme/coursebook-api/pkg/config"
	"github.com/noah-isme/coursebook-api/pkg/database"
	"github.com/noah-isme/coursebook-api/pkg/kvstore"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openBackend returns the record backend selected by cfg.Store.Backend. The
// Redis client is returned as well when one was dialled so the overview cache
// can share it.
func openBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) (kvstore.Backend, *redis.Client, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendMemory:
		logr.Warn("using in-memory record store; data is lost on restart")
		return kvstore.NewMemory(), nil, closerFunc(func() error { return nil }), nil
	case config.StoreBackendRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		return kvstore.NewRedis(client), client, client, nil
	case config.StoreBackendSQLite, "":
		db, err := database.NewSQLite(ctx, cfg.SQLite)
		if err != nil {
			return nil, nil, nil, err
		}
		backend := kvstore.NewSQL(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("prepare sqlite schema: %w", err)
		}
		return backend, nil, db, nil
	case config.StoreBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		backend := kvstore.NewSQL(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("prepare postgres schema: %w", err)
		}
		return backend, nil, db, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
