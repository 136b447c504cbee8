// Package store persists orders, deleted-order snapshots and activity
// logs. It sits caller-side of the extraction pipeline: the pipeline
// itself never touches storage.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("resource not found")

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the database named by dsn and ensures the schema
// exists. A postgres:// or postgresql:// DSN selects the pgx driver;
// anything else is treated as a SQLite path or URI. Queries use $1-style
// ordinal placeholders, which both drivers accept.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	driver := "sqlite"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver = "pgx"
	}
	logger.Info("opening database", "driver", driver)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, logger: logger}
	if err := s.migrate(ctx, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("database ready")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name    TEXT,
	last_name     TEXT,
	date_of_birth TEXT,
	description   TEXT,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    TIMESTAMP
);
CREATE TABLE IF NOT EXISTS deleted_orders (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	original_order_id INTEGER NOT NULL,
	first_name        TEXT,
	last_name         TEXT,
	date_of_birth     TEXT,
	description       TEXT,
	deleted_at        TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS activity_logs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id  TEXT,
	method      TEXT NOT NULL,
	path        TEXT NOT NULL,
	status_code INTEGER,
	ip_address  TEXT,
	body        TEXT,
	timestamp   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id            BIGSERIAL PRIMARY KEY,
	first_name    TEXT,
	last_name     TEXT,
	date_of_birth TEXT,
	description   TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS deleted_orders (
	id                BIGSERIAL PRIMARY KEY,
	original_order_id BIGINT NOT NULL,
	first_name        TEXT,
	last_name         TEXT,
	date_of_birth     TEXT,
	description       TEXT,
	deleted_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS activity_logs (
	id          BIGSERIAL PRIMARY KEY,
	request_id  TEXT,
	method      TEXT NOT NULL,
	path        TEXT NOT NULL,
	status_code INTEGER,
	ip_address  TEXT,
	body        TEXT,
	timestamp   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *Store) migrate(ctx context.Context, driver string) error {
	schema := sqliteSchema
	if driver == "pgx" {
		schema = postgresSchema
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
