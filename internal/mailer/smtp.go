package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/draftforge/draftforge/pkg/config"
	mail "github.com/wneessen/go-mail"
)

// SMTP sends notifications through a real SMTP server. The client is
// created with the configured send timeout so one slow delivery cannot
// stall a request handler past its bound.
type SMTP struct {
	client      *mail.Client
	from        string
	baseURL     string
	frontendURL string
	logger      *slog.Logger
}

func NewSMTP(cfg *config.Config, logger *slog.Logger) (*SMTP, error) {
	client, err := mail.NewClient(cfg.SMTP.Host,
		mail.WithPort(cfg.SMTP.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTP.User),
		mail.WithPassword(cfg.SMTP.Pass),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.SMTP.SendTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	from := cfg.SMTP.From
	if from == "" {
		from = cfg.SMTP.User
	}

	return &SMTP{
		client:      client,
		from:        from,
		baseURL:     cfg.Server.BaseURL,
		frontendURL: cfg.Server.FrontendURL,
		logger:      logger,
	}, nil
}

var _ Notifier = (*SMTP)(nil)

func (s *SMTP) Send(ctx context.Context, kind Kind, email, token string) error {
	subject, body, err := buildMessage(kind, s.baseURL, s.frontendURL, token)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("DraftForge", s.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending %s email: %w", kind, err)
	}

	s.logger.Info("email sent", "kind", string(kind), "to", email)
	return nil
}
