// Package domain contains persistence models for clients and income
// categories.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Client represents a billable client.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	// ARCode is the accounts-receivable account title used as the debit line
	// when this client's invoices are posted.
	ARCode    string    `gorm:"column:ar_code;type:text" json:"ar_code,omitempty"`
	Email     string    `gorm:"type:text" json:"email,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// IncomeCategory is the credit-side bucket invoices are grouped under when
// journal entries are generated.
type IncomeCategory struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (IncomeCategory) TableName() string { return "income_categories" }
