package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docvault/internal/client/config"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/spf13/cobra"
)

// ErrReported wraps a command failure the user has already been shown.
var ErrReported = errors.New("command failed")

// newAppFn is a test seam for App construction.
var newAppFn = NewApp

// configFlags are the persistent flags handed on to config.LoadConfig.
var configFlags = []string{"config", "addr", "db", "timeout"}

// NewRootCommand builds the docvault command tree. Cobra parses args; the
// flags it saw are passed to config.LoadConfig in --name=value form so that
// the JSON file and flags keep their precedence. Without a subcommand the
// interactive shell starts.
func NewRootCommand(args []string, in io.Reader, out, errOut io.Writer) *cobra.Command {
	var app *App

	withApp := func(run func(a *App, ctx context.Context) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			if err := run(app, cmd.Context()); err != nil {
				return fmt.Errorf("%w: %w", ErrReported, err)
			}
			return nil
		}
	}

	root := &cobra.Command{
		Use:           "docvault",
		Short:         "DocVault account client",
		Long:          "docvault signs in to a DocVault server, keeps the session on disk and walks through account recovery.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(setFlags(cmd))
			if err != nil {
				return err
			}
			log := logging.NewTextLogger(errOut, cfg.LogLevel)
			app, err = newAppFn(cmd.Context(), cfg, log, in, out)
			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.Run(cmd.Context())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "path to a JSON config file")
	pf.StringP("addr", "a", "", "base URL of the API")
	pf.StringP("db", "d", "", "path of the local database")
	pf.IntP("timeout", "t", 0, "request timeout (in seconds)")

	root.AddCommand(
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive shell",
			RunE: func(cmd *cobra.Command, _ []string) error {
				app.Run(cmd.Context())
				return nil
			},
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in with username or email and password",
			RunE:  withApp((*App).Login),
		},
		&cobra.Command{
			Use:   "login-google",
			Short: "Sign in with a Google ID token",
			RunE:  withApp((*App).LoginGoogle),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out and forget the stored session",
			RunE:  withApp((*App).Logout),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in account",
			RunE:  withApp((*App).WhoAmI),
		},
		&cobra.Command{
			Use:   "register",
			Short: "Create an account",
			RunE:  withApp((*App).Register),
		},
		&cobra.Command{
			Use:   "reset-password",
			Short: "Reset a forgotten password with an emailed code",
			RunE:  withApp((*App).ResetPassword),
		},
		&cobra.Command{
			Use:   "delete-account",
			Short: "Delete the signed-in account",
			RunE:  withApp((*App).DeleteAccount),
		},
		&cobra.Command{
			Use:   "open <route>",
			Short: "Show where a route leads for the current session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, rest []string) error {
				return app.Goto(cmd.Context(), rest[0])
			},
		},
	)

	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root
}

// setFlags rebuilds the config flags cobra parsed. Cobra accepts forms like
// -ahttp://host that a plain flag.FlagSet would not.
func setFlags(cmd *cobra.Command) []string {
	var out []string
	for _, name := range configFlags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			out = append(out, "--"+name+"="+f.Value.String())
		}
	}
	return out
}
