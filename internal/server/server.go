// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services and the HTTP
// surface together and runs the process.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/yourusername/verifyd/internal/cleanup"
	"github.com/yourusername/verifyd/internal/config"
	"github.com/yourusername/verifyd/internal/database"
	"github.com/yourusername/verifyd/internal/handlers"
	"github.com/yourusername/verifyd/internal/metrics"
	"github.com/yourusername/verifyd/internal/repository"
	"github.com/yourusername/verifyd/internal/services/auth"
	"github.com/yourusername/verifyd/internal/services/email"
	"github.com/yourusername/verifyd/internal/services/session"
	"github.com/yourusername/verifyd/internal/services/verification"
	"github.com/yourusername/verifyd/internal/views"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"metrics_port", cfg.Metrics.Port,
	)

	// Database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// Repository and services
	repo := repository.New(db)
	engine := verification.New(repo)

	sender, err := email.NewSMTPSender(&cfg.SMTP)
	if err != nil {
		return fmt.Errorf("failed to set up mail transport: %w", err)
	}

	authSvc := auth.NewService(repo, engine, sender)

	sessions, err := session.NewManager(cfg.Session.CookieName, cfg.Session.HashKey)
	if err != nil {
		return fmt.Errorf("failed to set up sessions: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	renderer, err := views.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	e.Renderer = renderer

	setupMiddleware(e)
	setupErrorHandler(e)
	setupRoutes(e, handlers.New(db, engine, authSvc, sessions))

	// Background tasks: cleanup sweeper and metrics exporter. Both run until
	// the shared context is cancelled and are waited for on shutdown.
	bgCtx, cancelBG := context.WithCancel(context.Background())
	defer cancelBG()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		cleanup.New(repo).Run(bgCtx)
	}()
	go func() {
		defer wg.Done()
		if err := metrics.Serve(bgCtx, cfg.Metrics.Port); err != nil {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	err = startWithGracefulShutdown(e, cfg)

	cancelBG()
	wg.Wait()
	return err
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/", h.Root)
	e.GET("/api/healthz", h.Healthz)
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/signup", h.SignupPage)
	e.POST("/signup", h.Signup)
	e.GET("/verify", h.VerifyPage)
	e.POST("/verify", h.Verify)
}

// setupErrorHandler renders the 404 page for unknown routes and a generic
// message otherwise.
func setupErrorHandler(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
		}

		if code == http.StatusNotFound {
			_ = c.Render(http.StatusNotFound, "404.html", nil)
			return
		}

		slog.Error("unhandled request error", "error", err, "path", c.Request().URL.Path)
		_ = c.String(code, http.StatusText(code))
	}
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("server running", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
