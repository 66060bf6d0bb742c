// Package mailer delivers the two templated notifications the auth
// flows produce. Delivery is always best-effort from the caller's
// point of view: failures are logged by the auth service, never
// surfaced to the HTTP client.
package mailer

import (
	"context"
	"log/slog"
)

type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Notifier is the notification gateway contract.
type Notifier interface {
	Send(ctx context.Context, kind Kind, email, token string) error
}

// Noop stands in when SMTP is not configured; the flows proceed as if
// email were skipped.
type Noop struct {
	Logger *slog.Logger
}

func (n Noop) Send(ctx context.Context, kind Kind, email, token string) error {
	if n.Logger != nil {
		n.Logger.Debug("email delivery disabled, skipping", "kind", string(kind), "to", email)
	}
	return nil
}

var _ Notifier = Noop{}
