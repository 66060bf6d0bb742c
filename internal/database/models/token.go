package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationToken is a single-use email verification token. Rows are
// deleted on consumption; expired rows linger until the sweep task
// removes them, but lookups exclude them regardless.
type VerificationToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// PasswordResetToken mirrors VerificationToken with a shorter TTL.
type PasswordResetToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
