// Package store defines the record store used by the auth service and
// the document handlers. Two implementations exist: an in-memory map
// store and a gorm-backed store (SQLite or PostgreSQL). Which one runs
// is a configuration choice, not a separate code path per backend.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/google/uuid"
)

var (
	// ErrDuplicateEmail is returned by InsertUser when the email is
	// already registered. The store, not the caller, enforces this
	// atomically so concurrent registrations cannot both succeed.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrNotFound is returned by lookups that match no live record,
	// including token lookups whose only match has expired.
	ErrNotFound = errors.New("record not found")
)

type UserStore interface {
	InsertUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// MarkUserVerified sets the verified flag. Idempotent.
	MarkUserVerified(ctx context.Context, id uuid.UUID) error
	UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type TokenStore interface {
	InsertVerificationToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.VerificationToken, error)
	// FindVerificationToken returns only non-expired tokens; expiry is
	// evaluated against the clock at query time.
	FindVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error)
	// DeleteVerificationToken returns ErrNotFound when the row is
	// already gone, so a concurrent second consumer fails cleanly.
	DeleteVerificationToken(ctx context.Context, id uuid.UUID) error

	InsertPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.PasswordResetToken, error)
	FindPasswordResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeletePasswordResetToken(ctx context.Context, id uuid.UUID) error

	// DeleteExpiredTokens removes token rows of both kinds whose expiry
	// is at or before now. Only the background sweep calls this;
	// correctness of lookups never depends on it.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type ProposalStore interface {
	CreateProposal(ctx context.Context, p *models.Proposal) error
	ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error)
	GetProposal(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error)
	UpdateProposal(ctx context.Context, p *models.Proposal) error
	DeleteProposal(ctx context.Context, userID, id uuid.UUID) error
}

type SOWStore interface {
	CreateSOW(ctx context.Context, s *models.SOW) error
	ListSOWs(ctx context.Context, userID uuid.UUID) ([]models.SOW, error)
	GetSOW(ctx context.Context, userID, id uuid.UUID) (*models.SOW, error)
	UpdateSOW(ctx context.Context, s *models.SOW) error
	DeleteSOW(ctx context.Context, userID, id uuid.UUID) error
}

// Store is the full record store surface.
type Store interface {
	UserStore
	TokenStore
	ProposalStore
	SOWStore
}
