// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email delivers verification codes over SMTP.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/yourusername/verifyd/internal/config"
)

// ErrDeliveryFailure wraps transport errors so callers can surface a
// "could not send code" state instead of a generic failure.
var ErrDeliveryFailure = errors.New("could not deliver verification email")

// Sender delivers a verification code to a recipient. Handlers depend on
// this interface so tests can substitute a stub transport.
type Sender interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// SMTPSender sends verification mails through an authenticated SMTP server.
type SMTPSender struct {
	cfg *config.SMTPConfig
}

// NewSMTPSender creates an SMTPSender.
func NewSMTPSender(cfg *config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// SendVerificationCode emails the code as a plain-text message.
func (s *SMTPSender) SendVerificationCode(ctx context.Context, to, code string) error {
	msg := mail.NewMsg()

	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject("Your verification code")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Your verification code is %s.\n\nIt expires in 5 minutes.\n", code))

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.From),
		mail.WithPassword(s.cfg.Password),
	}
	// Implicit TLS for SMTPS, STARTTLS otherwise.
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: creating mail client: %w", ErrDeliveryFailure, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailure, err)
	}

	return nil
}
