// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Metrics  MetricsConfig
	Log      LogConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// MetricsConfig configures the separate process-metrics listener.
type MetricsConfig struct {
	Port int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

// DatabaseConfig holds the PostgreSQL connection settings. All fields are
// required and have no defaults.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// DSN builds a pgx-compatible connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", c.User, c.Password, c.Host, c.Port, c.Name)
}

// SMTPConfig holds the notification transport settings. The sender address
// doubles as the SMTP username.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Password string
}

type SessionConfig struct {
	CookieName string
	HashKey    string // 32-byte hex string for HMAC signing, generated if empty
}

// NewFromCLI collects all flag values into an explicit Config struct. The
// struct is built once at startup and passed by reference; no component reads
// the environment on its own.
func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host: cmd.String("host"),
			Port: int(cmd.Int("port")),
		},
		Metrics: MetricsConfig{
			Port: int(cmd.Int("metrics-port")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			Host:     cmd.String("db-host"),
			Port:     int(cmd.Int("db-port")),
			User:     cmd.String("db-user"),
			Password: cmd.String("db-password"),
			Name:     cmd.String("db-name"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			From:     cmd.String("sender-email"),
			Password: cmd.String("sender-password"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			HashKey:    cmd.String("session-hash-key"),
		},
	}
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "0.0.0.0",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8084,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.IntFlag{
			Name:    "metrics-port",
			Value:   9084,
			Usage:   "Port for the process metrics endpoint",
			Sources: cli.NewValueSourceChain(cli.EnvVar("METRICS_PORT"), toml.TOML("metrics.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "json",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:     "db-host",
			Usage:    "PostgreSQL host",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("DB_HOST"), toml.TOML("database.host", configFile)),
		},
		&cli.IntFlag{
			Name:     "db-port",
			Usage:    "PostgreSQL port",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("DB_PORT"), toml.TOML("database.port", configFile)),
		},
		&cli.StringFlag{
			Name:     "db-user",
			Usage:    "PostgreSQL user",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("DB_USER"), toml.TOML("database.user", configFile)),
		},
		&cli.StringFlag{
			Name:     "db-password",
			Usage:    "PostgreSQL password",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("DB_PASSWORD"), toml.TOML("database.password", configFile)),
		},
		&cli.StringFlag{
			Name:     "db-name",
			Usage:    "PostgreSQL database name",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("DB_NAME"), toml.TOML("database.name", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Value:   "smtp.gmail.com",
			Usage:   "SMTP host for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP port for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:     "sender-email",
			Usage:    "Sender address for verification mails (also the SMTP username)",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("SENDER_EMAIL"), toml.TOML("smtp.sender_email", configFile)),
		},
		&cli.StringFlag{
			Name:     "sender-password",
			Usage:    "SMTP password for the sender address",
			Required: true,
			Sources:  cli.NewValueSourceChain(cli.EnvVar("SENDER_PASSWORD"), toml.TOML("smtp.sender_password", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
	}
}
