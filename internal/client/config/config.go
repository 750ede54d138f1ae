package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the DocVault CLI.
type Config struct {
	// ServerBaseURL is the API origin, without the /api/v1 prefix.
	ServerBaseURL string
	// DBPath is the SQLite file holding the persisted session.
	DBPath         string
	RequestTimeout time.Duration
	// ResendCooldown gates OTP resend in the reset wizard.
	ResendCooldown time.Duration
	LogLevel       string
	// RegisterToken is sent with sign-up requests.
	RegisterToken string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DBPath = "docvault.db"
	c.RequestTimeout = 10 * time.Second
	c.ResendCooldown = 30 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags found in args. Later sources take
// precedence over earlier ones.
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
