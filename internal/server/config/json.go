package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/docvault/internal/flagx"
	"github.com/dmitrijs2005/docvault/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Absent fields keep
// the value of the previous layer.
type JsonConfig struct {
	Addr               *string         `json:"addr"`
	SecretKey          *string         `json:"secret_key"`
	TokenTTL           *timex.Duration `json:"token_ttl"`
	ResetTokenTTL      *timex.Duration `json:"reset_token_ttl"`
	OTPTTL             *timex.Duration `json:"otp_ttl"`
	OTPRequestInterval *timex.Duration `json:"otp_request_interval"`
	RegisterToken      *string         `json:"register_token"`
	LogLevel           *string         `json:"log_level"`
	DatabaseDSN        *string         `json:"database_dsn"`
}

// parseJson loads configuration values from the JSON file named by -c or
// -config in args. If neither flag is present, nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	if c.Addr != nil {
		config.Addr = *c.Addr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenTTL != nil {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ResetTokenTTL != nil {
		config.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
	if c.OTPTTL != nil {
		config.OTPTTL = c.OTPTTL.Duration
	}
	if c.OTPRequestInterval != nil {
		config.OTPRequestInterval = c.OTPRequestInterval.Duration
	}
	if c.RegisterToken != nil {
		config.RegisterToken = *c.RegisterToken
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	return nil
}
