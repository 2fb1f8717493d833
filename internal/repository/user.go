// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/yourusername/verifyd/internal/models"
)

// CreateUser inserts a new unverified user. The insert is conflict-aware, so
// two concurrent signups for the same email cannot both succeed; the loser
// gets ErrUserExists.
func (r *Repository) CreateUser(ctx context.Context, email, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO users (email, hashed_password, is_verified, created_at)
			VALUES (?, ?, FALSE, ?)
			ON CONFLICT (email) DO NOTHING`),
		email, hashedPassword, time.Now().UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserExists
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		r.db.Rebind(`SELECT email, hashed_password, is_verified, created_at FROM users WHERE email = ?`),
		email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// UserExists checks if a user with the given email exists.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		r.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`),
		email)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsVerified reports whether the user has completed email verification.
// Returns ErrNotFound for unknown emails.
func (r *Repository) IsVerified(ctx context.Context, email string) (bool, error) {
	var verified bool
	err := r.db.GetContext(ctx, &verified,
		r.db.Rebind(`SELECT is_verified FROM users WHERE email = ?`),
		email)
	if err != nil {
		return false, wrapError(err)
	}
	return verified, nil
}

// MarkVerified flips the verified flag. The transition is one-way; the
// statement never sets the flag back to false.
func (r *Repository) MarkVerified(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`UPDATE users SET is_verified = TRUE WHERE email = ?`),
		email)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteStaleUnverifiedUsers removes unverified users created before the
// cutoff. Verified users are never deleted.
func (r *Repository) DeleteStaleUnverifiedUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM users WHERE is_verified = FALSE AND created_at < ?`),
		cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
