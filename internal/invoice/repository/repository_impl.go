package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	"github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) UpdateHeader(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

func (r *repo) ReplaceLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []domain.LineItem) error {
	if err := db.WithContext(ctx).
		Delete(&domain.LineItem{}, "invoice_id = ?", invoiceID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Where("id IN ?", ids).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status document.Status, page pagination.Pagination) ([]*domain.Invoice, error) {
	stmt := db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position asc, id asc") }).
		Order("invoice_number desc")
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	stmt = page.Apply(stmt, "invoice_number")

	var invoices []*domain.Invoice
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Delete(&domain.LineItem{}, "invoice_id = ?", id).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id).Error
}
