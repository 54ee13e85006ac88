package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	gratax "github.com/set-night/gratax"
	"github.com/set-night/gratax/internal/config"
	"github.com/set-night/gratax/internal/domain"
	"github.com/set-night/gratax/internal/repository"
)

// Open builds the backend selected by cfg.StorageDriver and wraps it so
// backend failures degrade to defaults instead of surfacing to callers.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Tolerant, error) {
	var (
		backend Storage
		err     error
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		backend = NewMemory()
	case config.StorageBolt:
		backend, err = NewBolt(cfg.BoltPath)
	case config.StorageRedis:
		backend, err = NewRedis(ctx, cfg.RedisURL)
	case config.StoragePostgres:
		backend, err = openPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrStorageDriver, cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("storage opened", "driver", cfg.StorageDriver)
	return NewTolerant(backend, logger), nil
}

func openPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(gratax.MigrationsFS, "migrations")
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	if err := repository.RunMigrations(databaseURL, migrationsFS); err != nil {
		pool.Close()
		return nil, err
	}
	return NewPostgres(pool), nil
}
