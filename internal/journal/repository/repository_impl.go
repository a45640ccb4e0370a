package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/document"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/internal/journal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *domain.JournalEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) UpdateEntry(ctx context.Context, db *gorm.DB, entry *domain.JournalEntry) error {
	return db.WithContext(ctx).Omit("Categories").Save(entry).Error
}

func (r *repo) InsertCategories(ctx context.Context, db *gorm.DB, categories []domain.EntryCategory) error {
	if len(categories) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&categories).Error
}

func (r *repo) InsertLinks(ctx context.Context, db *gorm.DB, links []domain.InvoiceLink) error {
	if len(links) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&links).Error
}

func (r *repo) FindEntryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("reference asc") }).
		First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.EntryCategory, error) {
	var category domain.EntryCategory
	err := db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) ListEntries(ctx context.Context, db *gorm.DB) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	err := db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("reference asc") }).
		Order("entry_number desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) ListLinksByEntry(ctx context.Context, db *gorm.DB, entryID snowflake.ID) ([]domain.InvoiceLink, error) {
	var links []domain.InvoiceLink
	err := db.WithContext(ctx).
		Where("journal_entry_id = ?", entryID).
		Order("id asc").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repo) FindMaxEntryNumber(ctx context.Context, db *gorm.DB, prefix string) (string, error) {
	return findMax(ctx, db, "journal_entries", "entry_number", prefix)
}

func (r *repo) FindMaxCategoryReference(ctx context.Context, db *gorm.DB, prefix string) (string, error) {
	return findMax(ctx, db, "journal_entry_categories", "reference", prefix)
}

func findMax(ctx context.Context, db *gorm.DB, table, column, prefix string) (string, error) {
	var max string
	err := db.WithContext(ctx).
		Table(table).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " desc").
		Limit(1).
		Scan(&max).Error
	if err != nil {
		return "", err
	}
	return max, nil
}

func (r *repo) FindLinkedInvoiceIDs(ctx context.Context, db *gorm.DB, invoiceIDs []snowflake.ID) (map[snowflake.ID]bool, error) {
	if len(invoiceIDs) == 0 {
		return map[snowflake.ID]bool{}, nil
	}

	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.InvoiceLink{}).
		Where("invoice_id IN ?", invoiceIDs).
		Pluck("invoice_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func (r *repo) AllLinkedInvoiceIDs(ctx context.Context, db *gorm.DB) (map[snowflake.ID]bool, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).
		Model(&domain.InvoiceLink{}).
		Pluck("invoice_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return toSet(ids), nil
}

func (r *repo) MarkInvoicesPosted(ctx context.Context, db *gorm.DB, invoiceIDs []snowflake.ID, at time.Time) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id IN ?", invoiceIDs).
		Updates(map[string]any{
			"status":     document.StatusPosted,
			"updated_at": at,
		}).Error
}

func (r *repo) SumInvoiceTotalsByCategory(ctx context.Context, db *gorm.DB, categoryID snowflake.ID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := db.WithContext(ctx).Raw(`
		SELECT SUM(li.amount)
		FROM invoice_line_items li
		JOIN journal_invoice_links l ON l.invoice_id = li.invoice_id
		WHERE l.entry_category_id = @category_id`,
		map[string]any{"category_id": categoryID},
	).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func toSet(ids []snowflake.ID) map[snowflake.ID]bool {
	set := make(map[snowflake.ID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
