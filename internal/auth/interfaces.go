package auth

import (
	"context"

	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/google/uuid"
)

// Lifecycle defines the operations the routing layer invokes.
type Lifecycle interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TokenService defines the bearer credential operations.
type TokenService interface {
	GenerateToken(userID uuid.UUID, email, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Compile-time interface satisfaction checks
var (
	_ Lifecycle    = (*Service)(nil)
	_ TokenService = (*JWTService)(nil)
)
