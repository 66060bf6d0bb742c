package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/draftforge/draftforge/internal/tasks"
	"github.com/draftforge/draftforge/internal/testutil"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEmailTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("verification email delivers the payload", func(t *testing.T) {
		notifier := &testutil.RecordingNotifier{}
		h := tasks.NewHandler(store.NewMemory(), notifier, testutil.NewLogger())

		task, err := tasks.NewVerificationEmailTask(tasks.EmailPayload{
			Email: "queued@example.com",
			Token: "tok-queued",
		})
		require.NoError(t, err)

		require.NoError(t, h.HandleVerificationEmail(ctx, task))
		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, mailer.KindVerification, sent[0].Kind)
		assert.Equal(t, "queued@example.com", sent[0].Email)
		assert.Equal(t, "tok-queued", sent[0].Token)
	})

	t.Run("password reset email uses the reset kind", func(t *testing.T) {
		notifier := &testutil.RecordingNotifier{}
		h := tasks.NewHandler(store.NewMemory(), notifier, testutil.NewLogger())

		task, err := tasks.NewPasswordResetEmailTask(tasks.EmailPayload{
			Email: "reset@example.com",
			Token: "tok-reset",
		})
		require.NoError(t, err)

		require.NoError(t, h.HandlePasswordResetEmail(ctx, task))
		sent := notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, mailer.KindPasswordReset, sent[0].Kind)
	})

	t.Run("gateway failure propagates for retry", func(t *testing.T) {
		notifier := &testutil.RecordingNotifier{Err: errors.New("smtp down")}
		h := tasks.NewHandler(store.NewMemory(), notifier, testutil.NewLogger())

		task, err := tasks.NewVerificationEmailTask(tasks.EmailPayload{Email: "x@example.com", Token: "t"})
		require.NoError(t, err)

		assert.Error(t, h.HandleVerificationEmail(ctx, task))
	})

	t.Run("malformed payload fails", func(t *testing.T) {
		h := tasks.NewHandler(store.NewMemory(), &testutil.RecordingNotifier{}, testutil.NewLogger())
		task := asynq.NewTask(tasks.TypeVerificationEmail, []byte("not json"))
		assert.Error(t, h.HandleVerificationEmail(ctx, task))
	})
}

func TestHandleTokenSweep(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	user := testutil.CreateTestUser(t, st, "sweep@example.com", "password123", false)

	_, err := st.InsertVerificationToken(ctx, user.ID, "stale", -time.Minute)
	require.NoError(t, err)
	_, err = st.InsertVerificationToken(ctx, user.ID, "fresh", time.Hour)
	require.NoError(t, err)

	h := tasks.NewHandler(st, &testutil.RecordingNotifier{}, testutil.NewLogger())
	require.NoError(t, h.HandleTokenSweep(ctx, tasks.NewTokenSweepTask()))

	_, err = st.FindVerificationToken(ctx, "fresh")
	assert.NoError(t, err)
}
