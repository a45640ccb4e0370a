// Package domain contains persistence models for journal entries and
// the invoice link table behind the posting engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/document"
)

// JournalEntry is one posting batch. EntryNumber is allocated per
// calendar month (JE-YYYY-MM-NNN) and unique across all entries.
type JournalEntry struct {
	ID          snowflake.ID    `json:"id,string" gorm:"primaryKey"`
	EntryNumber string          `json:"entry_number" gorm:"uniqueIndex;size:20;not null"`
	EntryDate   time.Time       `json:"entry_date" gorm:"not null"`
	Status      document.Status `json:"status" gorm:"type:text;not null;index"`
	PreparedBy  *snowflake.ID   `json:"prepared_by,string,omitempty" gorm:"index"`
	ApprovedBy  *snowflake.ID   `json:"approved_by,string,omitempty" gorm:"index"`
	Remarks     string          `json:"remarks,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`

	Categories []EntryCategory `json:"categories" gorm:"foreignKey:JournalEntryID"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

// EntryCategory is the credit-side grouping of one income category
// within a posting batch. Reference is the GJV YYYY-MM-NNN code,
// unique across all categories.
type EntryCategory struct {
	ID             snowflake.ID    `json:"id,string" gorm:"primaryKey"`
	JournalEntryID snowflake.ID    `json:"journal_entry_id,string" gorm:"not null;index"`
	CategoryName   string          `json:"category_name" gorm:"not null"`
	Reference      string          `json:"reference" gorm:"uniqueIndex;size:20;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Remarks        *string         `json:"remarks,omitempty" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at" gorm:"not null"`
}

func (EntryCategory) TableName() string { return "journal_entry_categories" }

// InvoiceLink ties one invoice into one entry's category group. The
// unique index on InvoiceID is what makes double posting impossible:
// a racing second generation fails the insert instead of silently
// linking the invoice twice.
type InvoiceLink struct {
	ID              snowflake.ID `json:"id,string" gorm:"primaryKey"`
	JournalEntryID  snowflake.ID `json:"journal_entry_id,string" gorm:"not null;index"`
	EntryCategoryID snowflake.ID `json:"entry_category_id,string" gorm:"not null;index"`
	InvoiceID       snowflake.ID `json:"invoice_id,string" gorm:"not null;uniqueIndex"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null"`
}

func (InvoiceLink) TableName() string { return "journal_invoice_links" }
