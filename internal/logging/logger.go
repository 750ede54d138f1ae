// Package logging defines the structured-logging interface used across
// DocVault. Components take a Logger in their constructors and never reach
// for a global logger.
package logging

import "context"

// Logger is what clients, services and handlers log through. Args are
// slog-style key/value pairs:
//
//	log.Info(ctx, "login succeeded", "user", user.Username)
//
// Tokens, passwords and OTP codes must never be passed as args; the one
// exception is LogMailer, which exists to print reset codes in development.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that adds args to every record,
	// e.g. With("module", "recovery").
	With(args ...any) Logger
}
