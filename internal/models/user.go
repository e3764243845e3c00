package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered customer.
type User struct {
	BaseModel
	Username     string   `gorm:"uniqueIndex" json:"username"`
	Email        string   `gorm:"uniqueIndex" json:"email"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	PasswordHash string   `json:"-"`
	ImageURL     string   `json:"image_url"`
	IsVerified   bool     `json:"is_verified"`
	Baskets      []Basket `json:"baskets,omitempty"`
	Orders       []Order  `gorm:"foreignKey:InitiatorID" json:"orders,omitempty"`
}

// EmailVerification keeps track of verification codes mailed to users.
type EmailVerification struct {
	BaseModel
	Code      uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"code"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User      *User     `json:"user,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the verification window has closed.
func (v *EmailVerification) IsExpired() bool {
	return !time.Now().Before(v.ExpiresAt)
}
