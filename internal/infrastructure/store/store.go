// Package store opens the persistence backends selected by configuration and
// exposes them through the core ports.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stockroom/inventory-system/internal/core/ports"
	mongostore "github.com/stockroom/inventory-system/internal/infrastructure/db/mongo"
	redisstore "github.com/stockroom/inventory-system/internal/infrastructure/db/redis"
	"github.com/stockroom/inventory-system/internal/infrastructure/db/sqlite"
	"github.com/stockroom/inventory-system/internal/pkg/config"
)

// Store bundles the repositories of one backend. Idempotency is nil when
// Redis is disabled.
type Store struct {
	Users       ports.CredentialStore
	Items       ports.ItemRepository
	Requests    ports.RequestRepository
	Idempotency ports.IdempotencyStore

	// Probes maps dependency names to connectivity checks.
	Probes map[string]func(context.Context) error

	closers []func(context.Context) error
}

// Open connects the configured backend and, when enabled, Redis.
func Open(ctx context.Context, cfg *config.Config, ids ports.IDGenerator, log zerolog.Logger) (*Store, error) {
	s := &Store{Probes: make(map[string]func(context.Context) error)}

	var err error
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		err = s.openSQLite(ctx, cfg, ids, log)
	case config.DriverMongo:
		err = s.openMongo(ctx, cfg, ids)
	default:
		err = fmt.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, errors.Join(err, s.Close(ctx))
		}
		s.useRedis(client)
	}

	log.Info().
		Str("driver", cfg.Store.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Msg("store opened")
	return s, nil
}

func (s *Store) openSQLite(ctx context.Context, cfg *config.Config, ids ports.IDGenerator, log zerolog.Logger) error {
	db, err := sqlite.Open(ctx, log, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	s.useSQLite(db, ids)
	return nil
}

func (s *Store) useSQLite(db *sql.DB, ids ports.IDGenerator) {
	s.Users = sqlite.NewUserRepository(db, ids)
	s.Items = sqlite.NewItemRepository(db)
	s.Requests = sqlite.NewRequestRepository(db)
	s.Probes["sqlite"] = db.PingContext
	s.closers = append(s.closers, func(context.Context) error { return db.Close() })
}

func (s *Store) openMongo(ctx context.Context, cfg *config.Config, ids ports.IDGenerator) error {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return errors.Join(fmt.Errorf("mongo indexes: %w", err), client.Disconnect(ctx))
	}
	s.useMongo(client, db, ids)
	return nil
}

func (s *Store) useMongo(client *mongo.Client, db *mongo.Database, ids ports.IDGenerator) {
	s.Users = mongostore.NewUserRepository(db, ids)
	s.Items = mongostore.NewItemRepository(db)
	s.Requests = mongostore.NewRequestRepository(db)
	s.Probes["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	s.closers = append(s.closers, client.Disconnect)
}

func (s *Store) useRedis(client *goredis.Client) {
	s.Idempotency = redisstore.NewIdempotencyStore(client)
	s.Probes["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })
}

// Close releases every backend in reverse order of opening.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}
