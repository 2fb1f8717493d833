// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package cleanup purges expired verification codes and stale unverified
// accounts on a fixed interval.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/yourusername/verifyd/internal/repository"
	"github.com/yourusername/verifyd/internal/services/verification"
)

const (
	// Interval between sweep cycles.
	Interval = 300 * time.Second

	// UnverifiedUserTTL is the retention window for accounts that never
	// completed verification.
	UnverifiedUserTTL = 48 * time.Hour
)

// Sweeper runs the periodic deletion loop. It holds no locks and does not
// coordinate with in-flight verification attempts; a code removed under a
// concurrent verify resolves to not-found on the verify side.
type Sweeper struct {
	repo     *repository.Repository
	interval time.Duration
	codeTTL  time.Duration
	userTTL  time.Duration
}

// New creates a Sweeper with the standard intervals.
func New(repo *repository.Repository) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: Interval,
		codeTTL:  verification.CodeTTL,
		userTTL:  UnverifiedUserTTL,
	}
}

// Run sweeps once per interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep executes one cycle: expired codes first, then stale unverified
// users. Each deletion is an independent statement; a failure in one does
// not block the other.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now()

	codes, err := s.repo.DeleteExpiredVerificationCodes(ctx, now.Add(-s.codeTTL))
	if err != nil {
		slog.Error("sweeping verification codes failed", "error", err)
	}

	users, err := s.repo.DeleteStaleUnverifiedUsers(ctx, now.Add(-s.userTTL))
	if err != nil {
		slog.Error("sweeping unverified users failed", "error", err)
	}

	if codes > 0 || users > 0 {
		slog.Info("sweep cycle complete", "expired_codes", codes, "stale_users", users)
	}
}
