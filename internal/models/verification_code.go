// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// VerificationCode is one issued six-digit code. Multiple rows may exist per
// email; only the most recently issued one is ever checked.
type VerificationCode struct {
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Age returns how old the code is at the given instant.
func (c *VerificationCode) Age(now time.Time) time.Duration {
	return now.Sub(c.CreatedAt)
}
