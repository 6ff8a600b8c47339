package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender codes accepted on profiles.
const (
	GenderMale         = "M"
	GenderFemale       = "F"
	GenderOther        = "O"
	GenderNotSpecified = "N"
)

// Profile is created together with its user and lives exactly as long.
type Profile struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
	Bio            *string    `gorm:"size:500" json:"bio"`
	ProfilePicture *string    `json:"profile_picture"`
	DateOfBirth    *time.Time `gorm:"type:date" json:"date_of_birth"`
	Gender         *string    `gorm:"size:1" json:"gender"`
	PhoneNumber    *string    `gorm:"size:15" json:"phone_number"`
	IsVerified     bool       `json:"is_verified"`
}

// Address is a free-form location owned by a user and addressed by UID.
type Address struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title      *string   `gorm:"size:100" json:"title"`
	Address    *string   `json:"address"`
	City       *string   `gorm:"size:100" json:"city"`
	State      *string   `gorm:"size:100" json:"state"`
	Country    *string   `gorm:"size:100" json:"country"`
	PostalCode *string   `gorm:"size:20" json:"postal_code"`
	Latitude   *float64  `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude  *float64  `gorm:"type:decimal(9,6)" json:"longitude"`
}
