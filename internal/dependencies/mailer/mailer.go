package mailer

import (
	"context"
	"log/slog"
)

// Mailer dispatches outbound email. Delivery is fire-and-forget from the
// workflows' perspective; retry policy belongs to the implementation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes outbound email to the log instead of delivering it.
// Used for local runs without an SMTP server.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ Mailer = (*LogMailer)(nil)

// Send logs the email instead of delivering it
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("outbound email",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
