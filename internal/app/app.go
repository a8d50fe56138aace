// Package app opens the configured storage backends.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pmhscreen/internal/cache"
	"pmhscreen/internal/config"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
)

const connectTimeout = 5 * time.Second

// Stores holds the repositories for the configured driver
type Stores struct {
	Screenings repository.ScreeningRepo
	Users      repository.UserRepo

	closers []func(context.Context) error
}

// OpenStores connects to the store selected by cfg.Driver
func OpenStores(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, log)
	case config.DriverSQLite:
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openMongo(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*Stores, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	if err := repository.EnsureScreeningIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("screening indexes: %w", err)
	}
	if err := repository.EnsureUserIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	log.Info("connected to mongo", "database", cfg.MongoDB)

	return &Stores{
		Screenings: repository.NewScreeningRepo(db, log),
		Users:      repository.NewUserRepo(db),
		closers:    []func(context.Context) error{client.Disconnect},
	}, nil
}

func openSQLite(cfg config.StoreConfig, log *logger.Logger) (*Stores, error) {
	db, err := repository.OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Info("opened sqlite store", "path", cfg.SQLitePath)

	return &Stores{
		Screenings: repository.NewSQLiteScreeningRepo(db, log),
		Users:      repository.NewSQLiteUserRepo(db),
		closers:    []func(context.Context) error{closeDB(db)},
	}, nil
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

// Close releases every backend connection
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for _, c := range s.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// OpenResultCache connects to Redis. An empty URI disables the cache and returns nil.
func OpenResultCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (cache.ResultCache, func() error, error) {
	if cfg.Redis.URI == "" {
		log.Info("redis not configured, latest-result cache disabled")
		return nil, func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("connected to redis", "addr", cfg.RedisAddr())

	return cache.NewResultCache(rdb, cfg.Redis.ResultTTL), rdb.Close, nil
}
