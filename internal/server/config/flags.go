package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/docvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-r int      reset token validity, seconds
//	-k string   registration token
//	-l string   log level
//	-d string   Postgres DSN (empty: in-memory accounts)
//
// The function first filters args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-r", "-k", "-l", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	resetTTL := fs.Int("r", int(config.ResetTokenTTL.Seconds()), "reset token validity (in seconds)")
	fs.StringVar(&config.RegisterToken, "k", config.RegisterToken, "registration token")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Durations given in JSON may be finer than the flag units; only
	// overwrite them when the flag was actually passed.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		case "r":
			config.ResetTokenTTL = time.Duration(*resetTTL) * time.Second
		}
	})
	return nil
}
