package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/hibiken/asynq"
)

// Handler runs in the worker process. Email tasks retry with asynq's
// backoff on failure; the sweep is fire and forget.
type Handler struct {
	tokens   store.TokenStore
	notifier mailer.Notifier
	logger   *slog.Logger
}

func NewHandler(tokens store.TokenStore, notifier mailer.Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeVerificationEmail, h.HandleVerificationEmail)
	mux.HandleFunc(TypePasswordResetEmail, h.HandlePasswordResetEmail)
	mux.HandleFunc(TypeTokenSweep, h.HandleTokenSweep)
}

func (h *Handler) HandleVerificationEmail(ctx context.Context, t *asynq.Task) error {
	return h.deliver(ctx, t, mailer.KindVerification)
}

func (h *Handler) HandlePasswordResetEmail(ctx context.Context, t *asynq.Task) error {
	return h.deliver(ctx, t, mailer.KindPasswordReset)
}

func (h *Handler) deliver(ctx context.Context, t *asynq.Task, kind mailer.Kind) error {
	var payload EmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := h.notifier.Send(ctx, kind, payload.Email, payload.Token); err != nil {
		h.logger.Error("email delivery failed", "kind", string(kind), "to", payload.Email, "error", err)
		return err
	}
	return nil
}

// HandleTokenSweep removes expired token rows. Lookups already exclude
// expired tokens, so the sweep is purely storage hygiene.
func (h *Handler) HandleTokenSweep(ctx context.Context, t *asynq.Task) error {
	swept, err := h.tokens.DeleteExpiredTokens(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("token sweep: %w", err)
	}
	if swept > 0 {
		h.logger.Info("swept expired tokens", "count", swept)
	}
	return nil
}
