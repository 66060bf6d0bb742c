package tasks

import (
	"context"
	"fmt"

	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/hibiken/asynq"
)

// QueueNotifier satisfies mailer.Notifier by enqueueing the delivery
// for the worker instead of dialing SMTP inline. Used by the API
// process when Redis is available; the enqueue itself is fast and
// bounded by the caller's context.
type QueueNotifier struct {
	client *asynq.Client
}

func NewQueueNotifier(client *asynq.Client) *QueueNotifier {
	return &QueueNotifier{client: client}
}

var _ mailer.Notifier = (*QueueNotifier)(nil)

func (q *QueueNotifier) Send(ctx context.Context, kind mailer.Kind, email, token string) error {
	payload := EmailPayload{Email: email, Token: token}

	var (
		task *asynq.Task
		err  error
	)
	switch kind {
	case mailer.KindVerification:
		task, err = NewVerificationEmailTask(payload)
	case mailer.KindPasswordReset:
		task, err = NewPasswordResetEmailTask(payload)
	default:
		return fmt.Errorf("unknown notification kind %q", kind)
	}
	if err != nil {
		return err
	}

	if _, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueueing %s email: %w", kind, err)
	}
	return nil
}
