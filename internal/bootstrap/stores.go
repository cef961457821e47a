package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/folio-works/portfolio-api/config"
	"github.com/folio-works/portfolio-api/internal/projects/repository"
)

// OpenPrimaryStore connects the configured record store. A server that is down
// at startup is logged and the store is still returned: the resolver serves
// fallback data until it answers. The returned func releases the connection.
func OpenPrimaryStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case config.DriverRedis:
		client, err := OpenRedis(ctx, cfg.RedisURL, 0)
		if err := tolerateUnreachable(err, logger); err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.DriverPostgres:
		pool, err := OpenDB(ctx, DBOptions{
			DSN:      cfg.URL,
			MaxConns: int32(cfg.MaxConns),
			MinConns: int32(cfg.MinConns),
		})
		if err := tolerateUnreachable(err, logger); err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(pool)
		if err == nil {
			if err := store.EnsureSchema(ctx); err != nil {
				logger.Warn("could not create schema, retrying on next ping", zap.Error(err))
			}
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func tolerateUnreachable(err error, logger *zap.Logger) error {
	var unreachable *UnreachableError
	if errors.As(err, &unreachable) {
		logger.Warn("primary store unreachable at startup, serving fallback data until it recovers",
			zap.String("service", unreachable.Service),
			zap.Error(unreachable.Err),
		)
		return nil
	}
	return err
}
