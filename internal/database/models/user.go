package models

// Roles a user can hold. The role column is free-form text at the
// storage layer; the API validates against this set on registration.
const (
	RoleCreator           = "creator"
	RoleApprover          = "approver"
	RoleAdmin             = "admin"
	RoleClient            = "client"
	RoleBusinessDeveloper = "business_developer"
	RoleReviewerApprover  = "reviewer_approver"
)

// ValidRoles is the closed set accepted on registration.
var ValidRoles = map[string]bool{
	RoleCreator:           true,
	RoleApprover:          true,
	RoleAdmin:             true,
	RoleClient:            true,
	RoleBusinessDeveloper: true,
	RoleReviewerApprover:  true,
}

type User struct {
	Base
	Email           string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string `gorm:"not null" json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `gorm:"default:'creator'" json:"role"`
	IsEmailVerified bool   `gorm:"default:false" json:"is_email_verified"`
}

func (User) TableName() string {
	return "users"
}
