package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/draftforge/draftforge/internal/mailer"
	"github.com/draftforge/draftforge/internal/store"
	"github.com/google/uuid"
)

var (
	ErrUserExists            = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrAlreadyVerified       = errors.New("email already verified")
)

const (
	VerificationTokenTTL  = 24 * time.Hour
	PasswordResetTokenTTL = time.Hour

	// Bound on a synchronous gateway call; enqueue-based notifiers
	// return long before this.
	notifyTimeout = 15 * time.Second
)

// Service orchestrates the credential and token lifecycle: register,
// login, email verification, and password reset. The multi-step flows
// are deliberately not transactional: a user can exist whose
// verification email never went out, and a resend covers that case.
type Service struct {
	store    store.Store
	jwt      *JWTService
	notifier mailer.Notifier
	logger   *slog.Logger
}

func NewService(st store.Store, jwt *JWTService, notifier mailer.Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		jwt:      jwt,
		notifier: notifier,
		logger:   logger,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Register creates an unverified user and issues a verification token.
// The pre-check on email is a courtesy; the store's atomic uniqueness
// enforcement is what actually prevents two concurrent registrations
// from both succeeding.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.store.FindUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleCreator
	}

	user := &models.User{
		Email:           input.Email,
		PasswordHash:    hash,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Role:            role,
		IsEmailVerified: false,
	}

	if err := s.store.InsertUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	token, err := GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.InsertVerificationToken(ctx, user.ID, token, VerificationTokenTTL); err != nil {
		return nil, err
	}

	s.notify(ctx, mailer.KindVerification, user.Email, token)

	return user, nil
}

// Login verifies credentials and issues the signed bearer token.
// Unknown email and wrong password report the same error so responses
// cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issuing bearer token: %w", err)
	}

	return token, user, nil
}

// VerifyEmail consumes a verification token: the owning user's
// verified flag flips true and the token row is removed. Tokens are
// single use; a concurrent second consumer loses the delete and gets
// ErrInvalidOrExpiredToken.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	rec, err := s.store.FindVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	if err := s.store.MarkUserVerified(ctx, rec.UserID); err != nil {
		return err
	}

	if err := s.store.DeleteVerificationToken(ctx, rec.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}

// ResendVerification issues a fresh token for an unverified user.
// Earlier tokens stay valid until they expire; this matches the
// behavior clients already depend on.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	token, err := GenerateOpaqueToken()
	if err != nil {
		return err
	}
	if _, err := s.store.InsertVerificationToken(ctx, user.ID, token, VerificationTokenTTL); err != nil {
		return err
	}

	s.notify(ctx, mailer.KindVerification, user.Email, token)

	return nil
}

// ForgotPassword issues a short-lived reset token.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := GenerateOpaqueToken()
	if err != nil {
		return err
	}
	if _, err := s.store.InsertPasswordResetToken(ctx, user.ID, token, PasswordResetTokenTTL); err != nil {
		return err
	}

	s.notify(ctx, mailer.KindPasswordReset, user.Email, token)

	return nil
}

// ResetPassword completes the flow ForgotPassword starts: the token is
// consumed exactly like a verification token, then the new password is
// hashed and stored. The delete claims the token before the password
// write so two concurrent resets cannot both apply.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	rec, err := s.store.FindPasswordResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.store.DeletePasswordResetToken(ctx, rec.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return s.store.UpdateUserPassword(ctx, rec.UserID, hash)
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// notify delivers best-effort: failures are logged with the operation
// context and never propagate to the caller. The timeout detaches from
// the request's cancellation so a client disconnect does not abort a
// delivery already in flight.
func (s *Service) notify(ctx context.Context, kind mailer.Kind, email, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, kind, email, token); err != nil {
		s.logger.Warn("notification delivery failed",
			"kind", string(kind),
			"to", email,
			"error", err,
		)
	}
}
