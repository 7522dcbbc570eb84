// Package sqlite implements the repository interfaces on an embedded SQLite
// database using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mk-hx/cadence/internal/repository"
)

//go:embed schema.sql
var schemaSQL string

// dropSQL tears the schema down in dependency order: junction rows first,
// then playlists, then the leaf tables.
const dropSQL = `
DROP TABLE IF EXISTS playlist_songs;
DROP TABLE IF EXISTS playlists;
DROP TABLE IF EXISTS songs;
DROP TABLE IF EXISTS users;
`

// Config holds SQLite connection configuration.
type Config struct {
	// Path is the database file path, or ":memory:" for tests.
	Path string

	// JournalMode is the SQLite journal mode (WAL recommended).
	JournalMode string

	// BusyTimeout is the lock wait timeout in milliseconds.
	BusyTimeout int

	// CacheSize is the SQLite cache size (negative = KB).
	CacheSize int

	// SynchronousMode is the SQLite synchronous mode (NORMAL recommended for WAL).
	SynchronousMode string
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig(dbPath string) Config {
	return Config{
		Path:            dbPath,
		JournalMode:     "WAL",
		BusyTimeout:     5000,
		CacheSize:       -2000,
		SynchronousMode: "NORMAL",
	}
}

// DB wraps the process's single SQLite handle with logging and transaction
// helpers. It is constructed once by process wiring and injected into
// repositories; no package-level instance exists. All access serializes on
// the one underlying connection.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
	path   string
}

// NewDB opens the database, applies the connection pragmas and verifies the
// connection. Foreign-key enforcement is always enabled; the pool is pinned
// to one physical connection, both because SQLite allows a single writer and
// because an in-memory database vanishes with its connection.
func NewDB(ctx context.Context, cfg Config, logger zerolog.Logger) (*DB, error) {
	connStr := fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(%s)&_pragma=busy_timeout(%d)&_pragma=cache_size(%d)&_pragma=synchronous(%s)",
		cfg.Path, cfg.JournalMode, cfg.BusyTimeout, cfg.CacheSize, cfg.SynchronousMode,
	)

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Str("path", cfg.Path).
		Str("journal_mode", cfg.JournalMode).
		Int("busy_timeout_ms", cfg.BusyTimeout).
		Msg("connected to SQLite")

	return &DB{
		db:     db,
		logger: logger,
		path:   cfg.Path,
	}, nil
}

// Close closes the database connection. Safe to call more than once.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.logger.Info().Str("path", d.path).Msg("database connection closed")
	return nil
}

// Ping checks the database connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Health checks the database connection health.
func (d *DB) Health(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// InitSchema creates the four tables and their indices if they do not
// exist. Safe to call on every process start.
func (d *DB) InitSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	d.logger.Debug().Msg("schema initialized")
	return nil
}

// DropSchema removes all four tables in dependency order. Destructive;
// intended for test teardown and the migrate binary only.
func (d *DB) DropSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	d.logger.Debug().Msg("schema dropped")
	return nil
}

// ExecContext executes a write statement against the shared handle.
// Single statements auto-commit; multi-table writes go through WithTx.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.logQuery(query, start, err)
	return res, err
}

// QueryContext executes a read statement against the shared handle.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.logQuery(query, start, err)
	return rows, err
}

// QueryRowContext executes a read statement expected to return one row.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.logQuery(query, start, nil)
	return row
}

// WithTx executes a function within a transaction.
// If the function returns an error or panics, the transaction is rolled
// back and no statement takes effect. Otherwise the transaction is committed.
func (d *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *DB) logQuery(query string, start time.Time, err error) {
	if d.logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	event := d.logger.Debug().
		Str("sql", query).
		Dur("duration", time.Since(start))
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("query executed")
}

// Ensure DB satisfies the lifecycle interface used by cmd wiring.
var _ repository.DatabaseHealth = (*DB)(nil)
