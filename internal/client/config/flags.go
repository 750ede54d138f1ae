package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/docvault/internal/flagx"
)

// ownFlags are the spellings parseFlags picks out of the argument list.
var ownFlags = []string{
	"-a", "--addr", "-addr",
	"-d", "--db", "-db",
	"-t", "--timeout", "-timeout",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with subcommand flags.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, ownFlags)

	fs := flag.NewFlagSet("docvault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the API")
	fs.StringVar(&cfg.ServerBaseURL, "addr", cfg.ServerBaseURL, "base URL of the API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path of the local database")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path of the local database")
	timeout := int(cfg.RequestTimeout.Seconds())
	fs.IntVar(&timeout, "t", timeout, "request timeout (in seconds)")
	fs.IntVar(&timeout, "timeout", timeout, "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" || f.Name == "timeout" {
			cfg.RequestTimeout = time.Duration(timeout) * time.Second
		}
	})
	return nil
}
