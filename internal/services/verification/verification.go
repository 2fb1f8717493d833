// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package verification implements the lifecycle of six-digit email
// verification codes: issuance, validation and expiry.
package verification

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/yourusername/verifyd/internal/repository"
)

// CodeTTL is how long an issued code stays valid. The boundary is inclusive:
// a code checked at exactly CodeTTL age still verifies.
const CodeTTL = 300 * time.Second

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

var (
	// ErrNotFound means no code is on record for the email.
	ErrNotFound = errors.New("no verification code on record")

	// ErrInvalidOrExpired covers both a wrong code and an aged-out one. The
	// two cases are deliberately indistinguishable to callers.
	ErrInvalidOrExpired = errors.New("verification code invalid or expired")
)

// Engine issues and validates verification codes against the store.
type Engine struct {
	repo *repository.Repository
	now  func() time.Time
}

// New creates an Engine backed by the given repository.
func New(repo *repository.Repository) *Engine {
	return &Engine{
		repo: repo,
		now:  time.Now,
	}
}

// Issue generates a six-digit code, persists it with the current time and
// returns it for delivery. Earlier codes for the email are not removed, but
// validation only ever consults the latest row, so issuing supersedes them.
func (e *Engine) Issue(ctx context.Context, email string) (string, error) {
	code := generateCode()
	if err := e.repo.CreateVerificationCode(ctx, email, code, e.now()); err != nil {
		return "", fmt.Errorf("storing verification code: %w", err)
	}
	return code, nil
}

// Verify checks a submitted code against the most recently issued one. Both
// exact equality and freshness are required. On success the user is marked
// verified. A code is not consumed by a successful check; repeating the
// submission inside the validity window succeeds again, and the flag flip is
// idempotent.
func (e *Engine) Verify(ctx context.Context, email, submitted string) error {
	latest, err := e.repo.LatestVerificationCode(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("loading verification code: %w", err)
	}

	if latest.Code != submitted || latest.Age(e.now()) > CodeTTL {
		return ErrInvalidOrExpired
	}

	if err := e.repo.MarkVerified(ctx, email); err != nil {
		// A sweep may remove the stale user between the read and the update.
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("marking user verified: %w", err)
	}
	return nil
}

// generateCode draws six independent uniform digits. Collisions across codes
// are fine; a code is only ever compared against the latest row for its
// email inside a five-minute window.
func generateCode() string {
	var b strings.Builder
	b.Grow(CodeLength)
	for range CodeLength {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}
