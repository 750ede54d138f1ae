package services

import (
	"context"

	"github.com/dmitrijs2005/docvault/internal/logging"
)

// Mailer delivers messages to account owners.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes messages to the log instead of sending them. It stands in
// for a real mail provider during development.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info(ctx, "mail", "to", to, "subject", subject, "body", body)
	return nil
}
