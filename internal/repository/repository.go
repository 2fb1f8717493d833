// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package repository persists users and verification codes.
package repository

import (
	"database/sql"
	"errors"

	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// ErrUserExists is returned when an insert hits the unique email constraint.
var ErrUserExists = errors.New("user already exists")

// Repository wraps sqlx for database operations. Queries are written with ?
// placeholders and rebound for the active driver, so the same code runs on
// PostgreSQL in production and SQLite in tests.
type Repository struct {
	db *sqlx.DB
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// wrapError converts database/sql errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
