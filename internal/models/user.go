package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account identified by email, phone number or both.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        *string   `gorm:"uniqueIndex" json:"email"`
	PhoneNumber  *string   `gorm:"size:15;uniqueIndex" json:"phone_number"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Profile      *Profile  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate ensures UUIDs are generated for new users.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// EmailValue returns the email or an empty string.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// PhoneValue returns the phone number or an empty string.
func (u *User) PhoneValue() string {
	if u.PhoneNumber == nil {
		return ""
	}
	return *u.PhoneNumber
}

// String mirrors how the account is displayed: email first, then phone.
func (u *User) String() string {
	if email := u.EmailValue(); email != "" {
		return email
	}
	return u.PhoneValue()
}

// OTP is a one-time code bound to a single user. A code is usable while IsActive is set
// and it is younger than the verification window.
type OTP struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User     *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Code     string    `gorm:"size:6;not null" json:"-"`
	IsActive bool      `gorm:"index" json:"is_active"`
}
