// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/yourusername/verifyd/internal/models"
)

// CreateVerificationCode stores a freshly issued code. Earlier rows for the
// same email are left in place; they age out or are swept.
func (r *Repository) CreateVerificationCode(ctx context.Context, email, code string, issuedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind(`INSERT INTO verification_codes (email, code, created_at) VALUES (?, ?, ?)`),
		email, code, issuedAt.UTC())
	return err
}

// LatestVerificationCode returns the most recently issued code for an email,
// or ErrNotFound when none is on record.
func (r *Repository) LatestVerificationCode(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := r.db.GetContext(ctx, &code,
		r.db.Rebind(`SELECT email, code, created_at FROM verification_codes
			WHERE email = ? ORDER BY created_at DESC LIMIT 1`),
		email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &code, nil
}

// DeleteExpiredVerificationCodes removes codes issued before the cutoff.
func (r *Repository) DeleteExpiredVerificationCodes(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind(`DELETE FROM verification_codes WHERE created_at < ?`),
		cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
