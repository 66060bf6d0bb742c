package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/draftforge/draftforge/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gorm is the durable store. It works against SQLite and PostgreSQL;
// the dialector is chosen when the *gorm.DB is opened. The connection
// must be opened with TranslateError so unique index violations
// surface as gorm.ErrDuplicatedKey.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

var _ Store = (*Gorm)(nil)

func (g *Gorm) InsertUser(ctx context.Context, user *models.User) error {
	if err := g.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

func (g *Gorm) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}

func (g *Gorm) MarkUserVerified(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("is_email_verified", true)
	if res.Error != nil {
		return fmt.Errorf("marking user verified: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) UpdateUserPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := g.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("updating user password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) InsertVerificationToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.VerificationToken, error) {
	rec := models.VerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("inserting verification token: %w", err)
	}
	return &rec, nil
}

func (g *Gorm) FindVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error) {
	var rec models.VerificationToken
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding verification token: %w", err)
	}
	return &rec, nil
}

func (g *Gorm) DeleteVerificationToken(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.VerificationToken{})
	if res.Error != nil {
		return fmt.Errorf("deleting verification token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) InsertPasswordResetToken(ctx context.Context, userID uuid.UUID, token string, ttl time.Duration) (*models.PasswordResetToken, error) {
	rec := models.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("inserting password reset token: %w", err)
	}
	return &rec, nil
}

func (g *Gorm) FindPasswordResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var rec models.PasswordResetToken
	err := g.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding password reset token: %w", err)
	}
	return &rec, nil
}

func (g *Gorm) DeletePasswordResetToken(ctx context.Context, id uuid.UUID) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return fmt.Errorf("deleting password reset token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	res := g.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.VerificationToken{})
	if res.Error != nil {
		return total, fmt.Errorf("sweeping verification tokens: %w", res.Error)
	}
	total += res.RowsAffected

	res = g.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.PasswordResetToken{})
	if res.Error != nil {
		return total, fmt.Errorf("sweeping password reset tokens: %w", res.Error)
	}
	total += res.RowsAffected

	return total, nil
}

func (g *Gorm) CreateProposal(ctx context.Context, p *models.Proposal) error {
	if err := g.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("creating proposal: %w", err)
	}
	return nil
}

func (g *Gorm) ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&proposals).Error
	if err != nil {
		return nil, fmt.Errorf("listing proposals: %w", err)
	}
	return proposals, nil
}

func (g *Gorm) GetProposal(ctx context.Context, userID, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	err := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting proposal: %w", err)
	}
	return &p, nil
}

func (g *Gorm) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	res := g.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Updates(map[string]any{
			"title":         p.Title,
			"content":       p.Content,
			"status":        p.Status,
			"client_name":   p.ClientName,
			"client_email":  p.ClientEmail,
			"budget":        p.Budget,
			"timeline_days": p.TimelineDays,
		})
	if res.Error != nil {
		return fmt.Errorf("updating proposal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) DeleteProposal(ctx context.Context, userID, id uuid.UUID) error {
	res := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Proposal{})
	if res.Error != nil {
		return fmt.Errorf("deleting proposal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) CreateSOW(ctx context.Context, s *models.SOW) error {
	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("creating sow: %w", err)
	}
	return nil
}

func (g *Gorm) ListSOWs(ctx context.Context, userID uuid.UUID) ([]models.SOW, error) {
	var sows []models.SOW
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sows).Error
	if err != nil {
		return nil, fmt.Errorf("listing sows: %w", err)
	}
	return sows, nil
}

func (g *Gorm) GetSOW(ctx context.Context, userID, id uuid.UUID) (*models.SOW, error) {
	var s models.SOW
	err := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting sow: %w", err)
	}
	return &s, nil
}

func (g *Gorm) UpdateSOW(ctx context.Context, s *models.SOW) error {
	res := g.db.WithContext(ctx).
		Model(&models.SOW{}).
		Where("id = ? AND user_id = ?", s.ID, s.UserID).
		Updates(map[string]any{
			"title":         s.Title,
			"content":       s.Content,
			"status":        s.Status,
			"client_name":   s.ClientName,
			"client_email":  s.ClientEmail,
			"project_scope": s.ProjectScope,
			"deliverables":  s.Deliverables,
			"timeline":      s.Timeline,
			"budget":        s.Budget,
			"payment_terms": s.PaymentTerms,
		})
	if res.Error != nil {
		return fmt.Errorf("updating sow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) DeleteSOW(ctx context.Context, userID, id uuid.UUID) error {
	res := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.SOW{})
	if res.Error != nil {
		return fmt.Errorf("deleting sow: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
