// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package session issues signed login cookies.
package session

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// MaxAge is how long a login session stays valid.
const MaxAge = 7 * 24 * time.Hour

// Data is the payload stored in the session cookie.
type Data struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Manager creates and reads signed session cookies.
type Manager struct {
	sc         *securecookie.SecureCookie
	cookieName string
}

// NewManager creates a session manager. hashKey must be a 64-char hex string
// (32 bytes); when empty a random key is generated, which invalidates
// sessions across restarts.
func NewManager(cookieName, hashKey string) (*Manager, error) {
	var key []byte
	if hashKey == "" {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("generating session hash key")
		}
	} else {
		var err error
		key, err = hex.DecodeString(hashKey)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("session hash key must be 64 hex characters")
		}
	}

	return &Manager{
		sc:         securecookie.New(key, nil),
		cookieName: cookieName,
	}, nil
}

// Create builds a signed session cookie for the given email.
func (m *Manager) Create(email string) (*http.Cookie, error) {
	data := Data{
		ID:    uuid.New().String(),
		Email: email,
	}

	encoded, err := m.sc.Encode(m.cookieName, data)
	if err != nil {
		return nil, fmt.Errorf("encoding session cookie: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Read decodes and validates a session cookie.
func (m *Manager) Read(cookie *http.Cookie) (*Data, error) {
	var data Data
	if err := m.sc.Decode(m.cookieName, cookie.Value, &data); err != nil {
		return nil, fmt.Errorf("decoding session cookie: %w", err)
	}
	return &data, nil
}
