package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/domain"
)

// SQLite is the default durable backend: a pure Go driver, no CGO, one
// file next to the binary. The slot is a single fixed-key row.

// slotKey is the primary key of the only row the slot ever writes.
const slotKey = "current"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_slot (
	slot_key   TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLiteConfig holds SQLite connection settings.
type SQLiteConfig struct {
	// Path is the path to the database file. Use ":memory:" for an
	// in-memory database.
	Path string

	// JournalMode sets the SQLite journal mode (WAL recommended).
	JournalMode string

	// BusyTimeout sets the busy timeout in milliseconds.
	BusyTimeout int

	// SynchronousMode sets the synchronous mode (NORMAL, FULL, OFF).
	SynchronousMode string
}

// DefaultSQLiteConfig returns a default SQLite configuration.
func DefaultSQLiteConfig(path string) SQLiteConfig {
	return SQLiteConfig{
		Path:            path,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		SynchronousMode: "NORMAL",
	}
}

// SQLiteSlot stores the session record in a SQLite database.
type SQLiteSlot struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteSlot opens the database, applies pragmas, and ensures the
// slot table exists.
func NewSQLiteSlot(ctx context.Context, cfg SQLiteConfig, logger zerolog.Logger) (*SQLiteSlot, error) {
	connStr := fmt.Sprintf(
		"%s?_journal_mode=%s&_busy_timeout=%d&_synchronous=%s",
		cfg.Path, cfg.JournalMode, cfg.BusyTimeout, cfg.SynchronousMode,
	)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session_slot table: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Str("journal_mode", cfg.JournalMode).
		Msg("opened SQLite session slot")

	return &SQLiteSlot{db: db, logger: logger}, nil
}

// Load implements Slot.
func (s *SQLiteSlot) Load(ctx context.Context) (*domain.User, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM session_slot WHERE slot_key = ?`, slotKey,
	).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session slot: %w", err)
	}
	return decode([]byte(record))
}

// Save implements Slot.
func (s *SQLiteSlot) Save(ctx context.Context, u *domain.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_slot (slot_key, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		slotKey, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write session slot: %w", err)
	}
	return nil
}

// Clear implements Slot.
func (s *SQLiteSlot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM session_slot WHERE slot_key = ?`, slotKey,
	); err != nil {
		return fmt.Errorf("failed to clear session slot: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

var _ Slot = (*SQLiteSlot)(nil)
