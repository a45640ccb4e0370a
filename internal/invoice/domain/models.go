// Package domain contains persistence models for billing invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/document"
	"gorm.io/datatypes"
)

// Invoice is a billing invoice. GrandTotal is always the sum of the
// line item amounts; it is recomputed on every write and never accepted
// from the caller. AmountDue is GrandTotal minus Discount.
type Invoice struct {
	ID               snowflake.ID      `json:"id,string" gorm:"primaryKey"`
	InvoiceNumber    string            `json:"invoice_number" gorm:"uniqueIndex;size:20;not null"`
	ClientID         *snowflake.ID     `json:"client_id,string,omitempty" gorm:"index"`
	IncomeCategoryID *snowflake.ID     `json:"income_category_id,string,omitempty" gorm:"index"`
	BankAccountID    *snowflake.ID     `json:"bank_account_id,string,omitempty" gorm:"index"`
	InvoiceDate      *time.Time        `json:"invoice_date,omitempty"`
	DueDate          *time.Time        `json:"due_date,omitempty"`
	Discount         decimal.Decimal   `json:"discount" gorm:"type:decimal(20,2);not null;default:0"`
	GrandTotal       decimal.Decimal   `json:"grand_total" gorm:"type:decimal(20,2);not null;default:0"`
	AmountDue        decimal.Decimal   `json:"amount_due" gorm:"type:decimal(20,2);not null;default:0"`
	Status           document.Status   `json:"status" gorm:"type:text;not null;default:'draft';index"`
	PreparedBy       *snowflake.ID     `json:"prepared_by,string,omitempty" gorm:"index"`
	ApprovedBy       *snowflake.ID     `json:"approved_by,string,omitempty" gorm:"index"`
	SentAt           *time.Time        `json:"sent_at,omitempty"`
	Notes            string            `json:"notes,omitempty" gorm:"type:text"`
	Metadata         datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt        time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time         `json:"updated_at" gorm:"not null"`

	LineItems []LineItem `json:"line_items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (Invoice) TableName() string { return "billing_invoices" }

// LineItem is a line on an invoice. Amount is Quantity times UnitPrice,
// computed server-side.
type LineItem struct {
	ID          snowflake.ID    `json:"id,string" gorm:"primaryKey"`
	InvoiceID   snowflake.ID    `json:"invoice_id,string" gorm:"not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:decimal(20,4);not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Position    int             `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
}

func (LineItem) TableName() string { return "invoice_line_items" }
