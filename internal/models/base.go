package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides shared columns for catalog and account tables. ID is the numeric
// primary key used in URLs; UID is an opaque identifier for resources addressed by uuid.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.UID == uuid.Nil {
		b.UID = uuid.New()
	}
	return nil
}

// Base exposes the shared columns to code that handles every model alike.
func (b *BaseModel) Base() *BaseModel {
	return b
}
