// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash marks a stored hash that bcrypt cannot parse. This is a
// data corruption signal, distinct from a password mismatch, and must never
// crash a request handler.
var ErrMalformedHash = errors.New("malformed password hash")

// dummyHash is compared against for unknown users to keep login timing flat.
var dummyHash, _ = HashPassword("dummy-password-for-timing")

// HashPassword hashes a password with bcrypt at the default cost. bcrypt
// embeds a fresh random salt per call.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password against a stored hash using bcrypt's
// constant-time check. Returns bcrypt.ErrMismatchedHashAndPassword on a
// mismatch and ErrMalformedHash when the stored hash is not valid bcrypt.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedHash, err)
}
