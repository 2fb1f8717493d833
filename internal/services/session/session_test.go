// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/verifyd/internal/services/session"
)

func TestNewManager_GeneratedKey(t *testing.T) {
	m, err := session.NewManager("_session", "")

	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewManager_InvalidKey(t *testing.T) {
	_, err := session.NewManager("_session", "too-short")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 hex characters")
}

func TestCreateAndRead(t *testing.T) {
	m, err := session.NewManager("_session", strings.Repeat("ab", 32))
	require.NoError(t, err)

	cookie, err := m.Create("a@example.com")
	require.NoError(t, err)

	assert.Equal(t, "_session", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	data, err := m.Read(cookie)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", data.Email)
	assert.NotEmpty(t, data.ID)
}

func TestRead_TamperedCookie(t *testing.T) {
	m, err := session.NewManager("_session", strings.Repeat("ab", 32))
	require.NoError(t, err)

	cookie, err := m.Create("a@example.com")
	require.NoError(t, err)

	cookie.Value = "tampered" + cookie.Value

	_, err = m.Read(cookie)
	assert.Error(t, err)
}

func TestRead_DifferentKey(t *testing.T) {
	m1, err := session.NewManager("_session", strings.Repeat("ab", 32))
	require.NoError(t, err)
	m2, err := session.NewManager("_session", strings.Repeat("cd", 32))
	require.NoError(t, err)

	cookie, err := m1.Create("a@example.com")
	require.NoError(t, err)

	_, err = m2.Read(cookie)
	assert.Error(t, err)
}
