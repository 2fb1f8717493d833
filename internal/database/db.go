// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"context"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver for tests

	"github.com/yourusername/verifyd/internal/config"
)

// Open creates a pooled PostgreSQL connection, verifies it is reachable and
// applies pending migrations. Replaces per-request connection churn with a
// managed pool; acquisition and release are scoped per statement by sqlx.
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	conn, err := sqlx.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := RunMigrations(conn.DB, "postgres"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// OpenSQLite opens a SQLite database and applies migrations. Used by the
// test suite with ":memory:" databases; the migration SQL is portable across
// both dialects.
func OpenSQLite(dsn string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// In-memory databases vanish when their sole connection closes.
	conn.SetMaxOpenConns(1)

	if err := RunMigrations(conn.DB, "sqlite3"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}
