// Package domain contains persistence models for general vouchers.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/document"
)

// GeneralVoucher documents one journal-entry category group. Amount is
// not stored: it is derived at read time as the sum of the category's
// linked invoices' line items, so voucher and journal views can never
// drift apart.
type GeneralVoucher struct {
	ID              snowflake.ID    `json:"id,string" gorm:"primaryKey"`
	EntryCategoryID snowflake.ID    `json:"entry_category_id,string" gorm:"not null;index"`
	Description     string          `json:"description" gorm:"type:text"`
	VoucherDate     time.Time       `json:"voucher_date" gorm:"not null"`
	Status          document.Status `json:"status" gorm:"type:text;not null;default:'draft'"`
	PreparedBy      *snowflake.ID   `json:"prepared_by,string,omitempty" gorm:"index"`
	ApprovedBy      *snowflake.ID   `json:"approved_by,string,omitempty" gorm:"index"`
	Remarks         string          `json:"remarks,omitempty" gorm:"type:text"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null"`

	Amount decimal.Decimal `json:"amount" gorm:"-"`
}

func (GeneralVoucher) TableName() string { return "general_vouchers" }
