// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/verifyd/internal/database"
)

func TestOpenSQLite(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")

	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping())
}

func TestOpenSQLite_MigrationsApplied(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (email, hashed_password, is_verified, created_at) VALUES (?, ?, FALSE, ?)`,
		"a@example.com", "hash", time.Now().UTC())
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO verification_codes (email, code, created_at) VALUES (?, ?, ?)`,
		"a@example.com", "123456", time.Now().UTC())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, int64(1), count)
}

func TestOpenSQLite_UniqueEmail(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (email, hashed_password, is_verified, created_at) VALUES (?, ?, FALSE, ?)`,
		"a@example.com", "hash", time.Now().UTC())
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (email, hashed_password, is_verified, created_at) VALUES (?, ?, FALSE, ?)`,
		"a@example.com", "hash", time.Now().UTC())
	assert.Error(t, err)
}
