package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/config"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
	"github.com/veerspeaks/digitalsherpa-travelmate/migrations"
)

// openStore builds the key-value backend named by cfg.StoreDriver. The
// returned close func releases its connections and is never nil.
func openStore(ctx context.Context, cfg config.Config) (repo.KV, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return repo.NewMemoryKV(), func() {}, nil

	case config.DriverPostgres:
		// pgxpool.New does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo.NewPostgresKV(pool), pool.Close, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return repo.NewRedisKV(client, cfg.RedisKeyPrefix), func() { client.Close() }, nil

	default:
		kv, err := repo.NewFileKV(cfg.StoreDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open store dir: %w", err)
		}
		return kv, func() {}, nil
	}
}

// migrate applies the embedded goose migrations over a database/sql view of pool.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
