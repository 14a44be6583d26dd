package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS session_slot (
	slot_key   TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	// DSN is the connection string, e.g.
	// "host=localhost port=5432 user=castellan dbname=castellan sslmode=prefer".
	DSN string

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration
}

// PostgresSlot stores the session record in a PostgreSQL table. Useful
// when several demo processes should see the same restored session.
type PostgresSlot struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresSlot connects to PostgreSQL and ensures the slot table
// exists.
func NewPostgresSlot(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (*PostgresSlot, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	connCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(connCtx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if _, err := pool.Exec(connCtx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create session_slot table: %w", err)
	}

	logger.Info().Msg("opened PostgreSQL session slot")

	return &PostgresSlot{pool: pool, logger: logger}, nil
}

// Load implements Slot.
func (s *PostgresSlot) Load(ctx context.Context) (*domain.User, error) {
	var record string
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM session_slot WHERE slot_key = $1`, slotKey,
	).Scan(&record)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session slot: %w", err)
	}
	return decode([]byte(record))
}

// Save implements Slot.
func (s *PostgresSlot) Save(ctx context.Context, u *domain.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO session_slot (slot_key, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot_key) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		slotKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to write session slot: %w", err)
	}
	return nil
}

// Clear implements Slot.
func (s *PostgresSlot) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM session_slot WHERE slot_key = $1`, slotKey,
	); err != nil {
		return fmt.Errorf("failed to clear session slot: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *PostgresSlot) Close() error {
	s.pool.Close()
	return nil
}

var _ Slot = (*PostgresSlot)(nil)
