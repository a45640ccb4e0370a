package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type BankAccount struct {
	ID            snowflake.ID `json:"id,string" gorm:"primaryKey"`
	BankName      string       `json:"bank_name" gorm:"size:100;not null"`
	AccountName   string       `json:"account_name" gorm:"size:255;not null"`
	AccountNumber string       `json:"account_number" gorm:"size:50;not null"`
	Branch        string       `json:"branch,omitempty" gorm:"size:255"`
	SwiftCode     string       `json:"swift_code,omitempty" gorm:"size:20"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (BankAccount) TableName() string { return "bank_accounts" }
