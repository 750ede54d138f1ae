package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/docvault/internal/client/client"
	"github.com/dmitrijs2005/docvault/internal/client/config"
	"github.com/dmitrijs2005/docvault/internal/client/persist"
	"github.com/dmitrijs2005/docvault/internal/client/reset"
	"github.com/dmitrijs2005/docvault/internal/client/routes"
	"github.com/dmitrijs2005/docvault/internal/client/services"
	"github.com/dmitrijs2005/docvault/internal/client/session"
	"github.com/dmitrijs2005/docvault/internal/client/storage"
	"github.com/dmitrijs2005/docvault/internal/logging"
)

type App struct {
	config      *config.Config
	store       *session.Store
	authService services.AuthService
	resetAPI    reset.API
	notify      *Notifier
	log         logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	route       routes.Route
	closers     []func() error
}

// NewApp opens the local database, restores the persisted session and lands
// on the route the session allows: home when restored, landing otherwise.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	creds := client.NewCredentials(nil)
	api := client.NewHTTPClient(c.ServerBaseURL, creds,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log.With("component", "api")),
	)
	store := session.NewStore()
	bridge := persist.NewBridge(storage.NewCredentialRepository(db), store, creds, log.With("component", "session"))
	auth := services.NewAuthService(api, store, bridge, c.RegisterToken, log)

	a := newApp(c, store, auth, api, log, in, out)
	a.closers = append(a.closers, func() error { bridge.Close(); return nil }, db.Close)

	bridge.Restore(ctx)
	a.route = routes.Fallback(store.State()).Target
	return a, nil
}

func newApp(c *config.Config, store *session.Store, auth services.AuthService, resetAPI reset.API, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:      c,
		store:       store,
		authService: auth,
		resetAPI:    resetAPI,
		notify:      NewNotifier(out),
		log:         log,
		reader:      bufio.NewReader(in),
		out:         out,
		route:       routes.Landing,
	}
}

// Close releases the database. Safe to call once.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to DocVault CLI (type 'help' for commands)")
	a.render()
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

// Route is the screen the client is on.
func (a *App) Route() routes.Route {
	return a.route
}

func (a *App) getStatus() string {
	s := string(a.route)
	if u := a.store.User(); u != nil {
		s += " " + u.DisplayName()
	}
	return fmt.Sprintf("[%s]", s)
}
