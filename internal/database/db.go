// Package database stores regional Gregorian adoption dates in SQLite.
//
// The adoption table is small and read far more often than written: the API
// and the julian command open it to resolve --region and region query
// parameters, and cmd/import or PUT /api/v1/regions/{code} change it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// =============================================================================
// Database Connection
// =============================================================================

// DB wraps the standard sql.DB with adoption queries.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or MemoryPath
	MaxOpenConns    int           // SQLite allows one writer, so 1
	MaxIdleConns    int           // default 1
	ConnMaxLifetime time.Duration // default 1 hour
	BusyTimeout     time.Duration // how long a writer waits for a lock
}

// DefaultConfig returns defaults for a SQLite file at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// dsn builds the go-sqlite3 connection string. In-memory databases have no
// journal file, so WAL is only requested for files.
func (c Config) dsn() string {
	params := url.Values{}
	params.Set("_foreign_keys", "ON")
	params.Set("_busy_timeout", fmt.Sprint(c.BusyTimeout.Milliseconds()))
	if c.Path != MemoryPath {
		params.Set("_journal_mode", "WAL")
	}
	return c.Path + "?" + params.Encode()
}

// Open connects to the adoption database, creating the file's directory if
// needed. Call Migrate before querying a new database.
//
// The caller is responsible for calling Close() when done.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("database connected", slog.String("path", cfg.Path))

	return &DB{DB: db, logger: logger}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Debug("closing database connection")
	return db.DB.Close()
}

// Health pings the database and checks the adoptions table is readable.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM adoptions").Scan(&n); err != nil {
		return fmt.Errorf("database query failed: %w", err)
	}
	return nil
}

// =============================================================================
// Migrations
// =============================================================================

// Migrate applies pending migrations in version order inside one
// transaction and returns how many were applied. Applied versions are
// recorded in schema_migrations.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	count := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`)
		if err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		current, err := schemaVersion(ctx, tx)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.version <= current {
				continue
			}

			db.logger.Info("applying migration",
				slog.Int("version", m.version),
				slog.String("name", m.name),
			)
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("execute migration %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		db.logger.Info("migrations complete",
			slog.Int("applied", count),
			slog.Int("total", len(migrations)),
		)
	}
	return count, nil
}

// SchemaVersion returns the highest applied migration, 0 for a new database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return schemaVersion(ctx, db)
}

type rowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func schemaVersion(ctx context.Context, q rowQueryer) (int, error) {
	var version int
	err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// Tx is a transaction with the adoption write helpers.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a new transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing if it returns nil and rolling
// back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
