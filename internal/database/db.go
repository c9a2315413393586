// Package database stores exported calendar runs in SQLite. The engine never
// reads from it; an export is a file the user asks for.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory store.
const MemoryPath = ":memory:"

// DB wraps the standard sql.DB with export-store methods.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or MemoryPath
	MaxOpenConns    int           // keep at 1: exports have a single writer
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	BusyTimeout     time.Duration // wait this long on a locked file
}

// DefaultConfig returns settings for an export file at path.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		BusyTimeout:     5 * time.Second,
	}
}

// dsn builds the connection string. Exports use the rollback journal so the
// result is one self-contained file with no -wal or -shm companions.
func (cfg Config) dsn() string {
	return fmt.Sprintf("file:%s?_journal_mode=DELETE&_foreign_keys=ON&_busy_timeout=%d",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
}

// Open opens or creates the export file, creating its directory if needed.
// The caller is responsible for calling Close() when done.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}

	if cfg.Path != MemoryPath {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create export directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open export file: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping export file: %w", err)
	}

	logger.Debug("export store opened", slog.String("path", cfg.Path))

	return &DB{
		DB:     db,
		path:   cfg.Path,
		logger: logger,
	}, nil
}

// Path returns the file the store was opened on.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.logger.Debug("export store closed", slog.String("path", db.path))
	return db.DB.Close()
}

// Health checks the connection and that the schema is current.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if latest := latestVersion(); version != latest {
		return fmt.Errorf("schema at version %d, want %d", version, latest)
	}
	return nil
}

// SchemaVersion returns the highest applied migration, or 0 on a new file.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'",
	).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}

// Compact rebuilds the file to drop free pages, typically after deleting runs.
func (db *DB) Compact(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// =============================================================================
// Migrations
// =============================================================================

func latestVersion() int {
	return slices.Max(slices.Collect(maps.Keys(migrationsSQL)))
}

// Migrate applies pending migrations in version order inside one
// transaction and returns how many it applied.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	var count int
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS schema_migrations (
				version INTEGER PRIMARY KEY,
				applied_at TEXT NOT NULL DEFAULT (datetime('now'))
			)
		`); err != nil {
			return fmt.Errorf("create schema_migrations table: %w", err)
		}

		applied, err := appliedVersions(ctx, tx)
		if err != nil {
			return err
		}

		for _, version := range slices.Sorted(maps.Keys(migrationsSQL)) {
			if applied[version] {
				continue
			}
			db.logger.Debug("applying migration", slog.Int("version", version))

			if _, err := tx.ExecContext(ctx, migrationsSQL[version]); err != nil {
				return fmt.Errorf("execute migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version) VALUES (?)", version,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		db.logger.Info("export schema migrated",
			slog.String("path", db.path),
			slog.Int("applied", count),
			slog.Int("version", latestVersion()),
		)
	}
	return count, nil
}

func appliedVersions(ctx context.Context, q querier) (map[int]bool, error) {
	rows, err := q.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// =============================================================================
// Transaction Helpers
// =============================================================================

// Tx is an export-store transaction.
type Tx struct {
	*sql.Tx
}

// querier is satisfied by both *DB and *Tx, so queries run the same way
// inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
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

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a requested run or date doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a run ID or run date is stored twice.
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
