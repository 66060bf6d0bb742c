package models

import "github.com/google/uuid"

type SOW struct {
	Base
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `json:"content"`
	Status       string    `gorm:"default:'draft';index" json:"status"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	ProjectScope string    `json:"project_scope"`
	Deliverables string    `json:"deliverables"`
	Timeline     string    `json:"timeline"`
	Budget       float64   `json:"budget"`
	PaymentTerms string    `json:"payment_terms"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SOW) TableName() string {
	return "sows"
}
