// Package config handles configuration for the reference server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the DocVault reference server.
//
// Fields:
//   - Addr: bind address for the HTTP API.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - TokenTTL: lifetime of session tokens.
//   - ResetTokenTTL: lifetime of password reset tokens, reported as expires_in.
//   - OTPTTL: lifetime of emailed one-time codes.
//   - OTPRequestInterval: minimum spacing of code requests per identifier.
//   - RegisterToken: when set, sign-up requests must carry it.
//   - DatabaseDSN: Postgres connection string; empty keeps accounts in memory.
type Config struct {
	Addr               string
	SecretKey          string
	TokenTTL           time.Duration
	ResetTokenTTL      time.Duration
	OTPTTL             time.Duration
	OTPRequestInterval time.Duration
	RegisterToken      string
	LogLevel           string
	DatabaseDSN        string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.ResetTokenTTL = 300 * time.Second
	c.OTPTTL = 10 * time.Minute
	c.OTPRequestInterval = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags in args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
