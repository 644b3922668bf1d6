package models

import (
	"time"

	"gorm.io/gorm"
)

type Company struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	OwnerID     uint           `json:"owner_id" gorm:"uniqueIndex;not null"` // one company per owner
	IsApproved  bool           `json:"is_approved" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Owner User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
