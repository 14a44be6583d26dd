package slot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Supported slot drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config selects and configures the slot backend.
type Config struct {
	// Driver is one of "memory", "sqlite", "postgres", "redis".
	Driver string

	SQLite   SQLiteConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

// Open creates the slot backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (Slot, error) {
	logger = logger.With().Str("slot_driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case DriverMemory:
		return NewMemorySlot(), nil
	case DriverSQLite:
		return NewSQLiteSlot(ctx, cfg.SQLite, logger)
	case DriverPostgres:
		return NewPostgresSlot(ctx, cfg.Postgres, logger)
	case DriverRedis:
		return NewRedisSlot(ctx, cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("unknown slot driver %q", cfg.Driver)
	}
}
