package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	InsertEntry(ctx context.Context, db *gorm.DB, entry *JournalEntry) error
	UpdateEntry(ctx context.Context, db *gorm.DB, entry *JournalEntry) error
	InsertCategories(ctx context.Context, db *gorm.DB, categories []EntryCategory) error
	InsertLinks(ctx context.Context, db *gorm.DB, links []InvoiceLink) error

	FindEntryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*JournalEntry, error)
	FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*EntryCategory, error)
	ListEntries(ctx context.Context, db *gorm.DB) ([]*JournalEntry, error)
	ListLinksByEntry(ctx context.Context, db *gorm.DB, entryID snowflake.ID) ([]InvoiceLink, error)

	// FindMaxEntryNumber and FindMaxCategoryReference scan for the
	// greatest existing reference under a month prefix (descending
	// sort, limit 1). Empty string means the month has no entries.
	FindMaxEntryNumber(ctx context.Context, db *gorm.DB, prefix string) (string, error)
	FindMaxCategoryReference(ctx context.Context, db *gorm.DB, prefix string) (string, error)

	// FindLinkedInvoiceIDs returns which of the given invoices already
	// appear in the link table.
	FindLinkedInvoiceIDs(ctx context.Context, db *gorm.DB, invoiceIDs []snowflake.ID) (map[snowflake.ID]bool, error)
	AllLinkedInvoiceIDs(ctx context.Context, db *gorm.DB) (map[snowflake.ID]bool, error)
	MarkInvoicesPosted(ctx context.Context, db *gorm.DB, invoiceIDs []snowflake.ID, at time.Time) error

	// SumInvoiceTotalsByCategory derives a category's amount from its
	// linked invoices' line items.
	SumInvoiceTotalsByCategory(ctx context.Context, db *gorm.DB, categoryID snowflake.ID) (decimal.Decimal, error)
}
