// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements the signup and login flows on top of the
// repository, the verification engine and the mail transport.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/yourusername/verifyd/internal/repository"
	"github.com/yourusername/verifyd/internal/services/email"
	"github.com/yourusername/verifyd/internal/services/verification"
)

var (
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotVerified        = errors.New("account not verified")
)

// SignupOutcome tells the caller which view to render after a signup
// submission.
type SignupOutcome int

const (
	// SignupCodeSent - new account created, code issued and emailed.
	SignupCodeSent SignupOutcome = iota
	// SignupCodeReissued - account exists but is unverified; a fresh code
	// was issued, superseding any earlier one.
	SignupCodeReissued
	// SignupAlreadyVerified - account exists and is verified; nothing done.
	SignupAlreadyVerified
)

type Service struct {
	repo   *repository.Repository
	engine *verification.Engine
	sender email.Sender
}

func NewService(repo *repository.Repository, engine *verification.Engine, sender email.Sender) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		sender: sender,
	}
}

// Signup handles a signup submission. For a new email it hashes the
// password, registers the user and issues a code; for a known unverified
// email it only reissues the code. Delivery errors surface as
// email.ErrDeliveryFailure; the registered user row is kept even when
// delivery fails, so a later signup attempt reissues rather than recreates.
func (s *Service) Signup(ctx context.Context, emailAddr, password string) (SignupOutcome, error) {
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		return 0, ErrInvalidEmail
	}

	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if user.IsVerified {
			return SignupAlreadyVerified, nil
		}
		if err := s.issueAndSend(ctx, emailAddr); err != nil {
			return 0, err
		}
		return SignupCodeReissued, nil

	case errors.Is(err, repository.ErrNotFound):
		hash, err := HashPassword(password)
		if err != nil {
			return 0, fmt.Errorf("hashing password: %w", err)
		}
		if err := s.repo.CreateUser(ctx, emailAddr, hash); err != nil {
			// Lost a race against a concurrent signup; the row exists now,
			// so fall back to the reissue path.
			if errors.Is(err, repository.ErrUserExists) {
				if err := s.issueAndSend(ctx, emailAddr); err != nil {
					return 0, err
				}
				return SignupCodeReissued, nil
			}
			return 0, fmt.Errorf("creating user: %w", err)
		}
		if err := s.issueAndSend(ctx, emailAddr); err != nil {
			return 0, err
		}
		return SignupCodeSent, nil

	default:
		return 0, fmt.Errorf("looking up user: %w", err)
	}
}

func (s *Service) issueAndSend(ctx context.Context, emailAddr string) error {
	code, err := s.engine.Issue(ctx, emailAddr)
	if err != nil {
		return err
	}
	if err := s.sender.SendVerificationCode(ctx, emailAddr, code); err != nil {
		slog.Error("verification mail delivery failed", "email", emailAddr, "error", err)
		return err
	}
	slog.Info("verification code sent", "email", emailAddr)
	return nil
}

// Login authenticates a verified user by password.
func (s *Service) Login(ctx context.Context, emailAddr, password string) error {
	user, err := s.repo.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn comparable time so unknown emails are not distinguishable
			// by response latency.
			_ = CheckPassword(dummyHash, password)
			return ErrInvalidCredentials
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	if err := CheckPassword(user.HashedPassword, password); err != nil {
		if errors.Is(err, ErrMalformedHash) {
			return err
		}
		return ErrInvalidCredentials
	}

	if !user.IsVerified {
		return ErrNotVerified
	}

	return nil
}
