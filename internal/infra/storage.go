package infra

import (
	"context"
	"fmt"

	"impact/internal/domain"
	"impact/internal/storage/jsonfile"
	"impact/internal/storage/postgres"
	"impact/internal/storage/sqlite"
)

// OpenStore opens the storage backend selected by the configuration.
func OpenStore(ctx context.Context, cfg *Config) (domain.Store, error) {
	switch cfg.StorageDriver {
	case DriverSQLite:
		return sqlite.Open(cfg.StoragePath)
	case DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	case DriverJSONFile:
		return jsonfile.Open(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
