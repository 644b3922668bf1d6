package models

import (
	"time"

	"gorm.io/gorm"
)

type Game struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	OwnerID     uint           `json:"owner_id" gorm:"not null"`
	StatusID    uint           `json:"status_id" gorm:"not null"`
	Directory   string         `json:"directory" gorm:"uniqueIndex;not null"` // immutable asset folder token
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Owner  User       `json:"owner,omitempty"`
	Status GameStatus `json:"status,omitempty"`
}
