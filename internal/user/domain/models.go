// Package domain contains persistence models for user profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// User represents a staff profile that prepares, checks, or approves
// accounting documents.
type User struct {
	ID             snowflake.ID   `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"type:text;not null;uniqueIndex" json:"email"`
	FullName       string         `gorm:"type:text;not null" json:"full_name"`
	Position       string         `gorm:"type:text" json:"position,omitempty"`
	PasswordHash   *string        `gorm:"type:text" json:"-"`
	SignatureImage *string        `gorm:"type:text" json:"signature_image,omitempty"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
