// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/verifyd/internal/config"
	"github.com/yourusername/verifyd/internal/services/email"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@example.com",
		Password: "testpass",
	}
}

func TestNewSMTPSender(t *testing.T) {
	cfg := validSMTPConfig()

	sender, err := email.NewSMTPSender(cfg)

	require.NoError(t, err)
	assert.NotNil(t, sender)
}

func TestNewSMTPSender_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := email.NewSMTPSender(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewSMTPSender_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := email.NewSMTPSender(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender address is required")
}
