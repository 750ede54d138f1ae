// Package server wires and runs the DocVault reference server: an in-memory
// account store behind the REST API, with password reset codes delivered
// through a Mailer.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/docvault/internal/logging"
	"github.com/dmitrijs2005/docvault/internal/server/config"
	"github.com/dmitrijs2005/docvault/internal/server/db"
	"github.com/dmitrijs2005/docvault/internal/server/httpapi"
	"github.com/dmitrijs2005/docvault/internal/server/recovery"
	"github.com/dmitrijs2005/docvault/internal/server/services"
	"github.com/dmitrijs2005/docvault/internal/server/users"
)

type App struct {
	config          *config.Config
	db              *sql.DB
	logger          logging.Logger
	userService     *services.UserService
	recoveryService *services.RecoveryService
}

// openUsersDB is swapped in tests.
var openUsersDB = db.OpenPostgres

// NewApp builds the services. Accounts live in Postgres when
// c.DatabaseDSN is set and in memory otherwise. mailer may be nil, in which
// case codes are written to the log.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger, mailer services.Mailer) (*App, error) {
	if mailer == nil {
		mailer = services.NewLogMailer(logger.With("module", "mailer"))
	}

	var (
		repo users.Repository
		conn *sql.DB
	)
	if c.DatabaseDSN != "" {
		var err error
		conn, err = openUsersDB(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repo = users.NewPostgresRepository(conn)
	} else {
		repo = users.NewMemoryRepository()
	}

	us := services.NewUserService(repo, c, logger.With("module", "users"))
	rs := services.NewRecoveryService(repo,
		recovery.NewCodes(c.OTPTTL, c.OTPRequestInterval),
		recovery.NewTokens(c.ResetTokenTTL),
		mailer, logger.With("module", "recovery"))

	return &App{config: c, db: conn, logger: logger, userService: us, recoveryService: rs}, nil
}

// Close releases the database, if one was opened.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}

// Run serves until ctx is cancelled or the process gets SIGINT, SIGTERM or
// SIGQUIT.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	s := httpapi.NewHTTPServer(app.config.Addr, app.logger, app.userService, app.recoveryService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}
