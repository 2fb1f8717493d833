// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP surface. Handlers only marshal form
// fields to service calls and pick a view by outcome; business rules live in
// the services.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vinovest/sqlx"

	"github.com/yourusername/verifyd/internal/services/auth"
	"github.com/yourusername/verifyd/internal/services/session"
	"github.com/yourusername/verifyd/internal/services/verification"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	db       *sqlx.DB
	engine   *verification.Engine
	auth     *auth.Service
	sessions *session.Manager
}

// New creates a new Handlers instance.
func New(db *sqlx.DB, engine *verification.Engine, authSvc *auth.Service, sessions *session.Manager) *Handlers {
	return &Handlers{
		db:       db,
		engine:   engine,
		auth:     authSvc,
		sessions: sessions,
	}
}

// Root redirects to the login page.
func (h *Handlers) Root(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/login")
}

// Healthz reports whether the database is reachable.
func (h *Handlers) Healthz(c echo.Context) error {
	if err := h.db.PingContext(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
