// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/yourusername/verifyd/internal/database"
	"github.com/yourusername/verifyd/internal/repository"
	"github.com/yourusername/verifyd/internal/views"
)

// NewTestDB creates an in-memory SQLite database with migrations applied.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, repository.New(db)
}

// NewTestUser creates an unverified test user.
func NewTestUser(t *testing.T, repo *repository.Repository, email string) {
	t.Helper()
	err := repo.CreateUser(context.Background(), email, "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
	require.NoError(t, err)
}

// NewTestCode inserts a verification code with the given age.
func NewTestCode(t *testing.T, repo *repository.Repository, email, code string, age time.Duration) {
	t.Helper()
	err := repo.CreateVerificationCode(context.Background(), email, code, time.Now().Add(-age))
	require.NoError(t, err)
}

// NewTestEcho creates an Echo instance with the application's template
// renderer attached, for handler tests.
func NewTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := views.New()
	require.NoError(t, err)
	e.Renderer = renderer
	return e
}

// NewFormContext creates an Echo context carrying a URL-encoded form body.
func NewFormContext(e *echo.Echo, method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewRequestContext creates an Echo context for a bodyless request.
func NewRequestContext(e *echo.Echo, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	return newContext(e, method, path, nil)
}

func newContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// StubSender records sent codes instead of delivering them. Fail makes every
// send return the given error.
type StubSender struct {
	Sent map[string]string
	Fail error
}

// NewStubSender creates an empty StubSender.
func NewStubSender() *StubSender {
	return &StubSender{Sent: make(map[string]string)}
}

// SendVerificationCode records the code for the recipient.
func (s *StubSender) SendVerificationCode(_ context.Context, to, code string) error {
	if s.Fail != nil {
		return s.Fail
	}
	s.Sent[to] = code
	return nil
}
