package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeVerificationEmail  = "email:verification"
	TypePasswordResetEmail = "email:password_reset"
	TypeTokenSweep         = "tokens:sweep"
)

// EmailPayload carries the recipient and the opaque token embedded in
// the deep link; both email kinds share it.
type EmailPayload struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func NewVerificationEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeVerificationEmail, data), nil
}

func NewPasswordResetEmailTask(payload EmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePasswordResetEmail, data), nil
}

// NewTokenSweepTask builds the periodic sweep task; it has no payload.
func NewTokenSweepTask() *asynq.Task {
	return asynq.NewTask(TypeTokenSweep, nil)
}
