// Package sqlite implements the store interfaces on top of an embedded
// sqlite database accessed through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/notumhq/notum/internal/store"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB wraps the sqlite connection with an open/closed guard so operations
// against a closed handle fail with store.ErrNotOpen instead of a bare
// driver error. It implements store.DBTX and store.TxBeginner.
type DB struct {
	sql    *sql.DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// Ensure DB implements the store access interfaces.
var (
	_ store.DBTX       = (*DB)(nil)
	_ store.TxBeginner = (*DB)(nil)
)

// Open opens (creating if necessary) the database file at path and brings
// the schema up to date via the embedded goose migrations. The goose version
// table doubles as the schema-version marker; upgrades are additive.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "sqlite"))

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer; one connection sidesteps
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database opened", slog.String("path", path))

	return &DB{sql: db, logger: logger}, nil
}

// migrate applies all pending embedded migrations.
func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database. Further operations fail with store.ErrNotOpen.
func (d *DB) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.logger.Info("database closed")
	return d.sql.Close()
}

// guard returns store.ErrNotOpen when the handle has been closed.
func (d *DB) guard() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return store.ErrNotOpen
	}
	return nil
}

// ExecContext implements store.DBTX.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sql.ExecContext(ctx, query, args...)
}

// PrepareContext implements store.DBTX.
func (d *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sql.PrepareContext(ctx, query)
}

// QueryContext implements store.DBTX.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sql.QueryContext(ctx, query, args...)
}

// QueryRowContext implements store.DBTX. sql.Row carries its error
// internally; a closed handle surfaces through MapError at Scan time.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sql.QueryRowContext(ctx, query, args...)
}

// BeginTx implements store.TxBeginner.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	if err := d.guard(); err != nil {
		return nil, err
	}
	return d.sql.BeginTx(ctx, opts)
}
