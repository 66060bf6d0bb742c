package models

import "github.com/google/uuid"

// Document statuses shared by proposals and SOWs.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusArchived  = "archived"
)

var ValidStatuses = map[string]bool{
	StatusDraft:     true,
	StatusSubmitted: true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusArchived:  true,
}

type Proposal struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `json:"content"`
	Status       string    `gorm:"default:'draft';index" json:"status"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	Budget       float64   `json:"budget"`
	TimelineDays int       `json:"timeline_days"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Proposal) TableName() string {
	return "proposals"
}
