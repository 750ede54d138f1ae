package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/docvault/internal/flagx"
	"github.com/dmitrijs2005/docvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Absent fields keep the value from the previous layer.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	DBPath         *string         `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	ResendCooldown *timex.Duration `json:"resend_cooldown"`
	LogLevel       *string         `json:"log_level"`
	RegisterToken  *string         `json:"register_token"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config/--config in args. No flag means no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ResendCooldown != nil {
		cfg.ResendCooldown = jc.ResendCooldown.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.RegisterToken != nil {
		cfg.RegisterToken = *jc.RegisterToken
	}
	return nil
}
