package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/client/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Save(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Client, error) {
	var clients []domain.Client
	err := db.WithContext(ctx).Order("name asc, id asc").Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) CountInvoiceReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Table("billing_invoices").
		Where("client_id = ?", id).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}

func (r *repo) InsertCategory(ctx context.Context, db *gorm.DB, category *domain.IncomeCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *domain.IncomeCategory) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB) ([]domain.IncomeCategory, error) {
	var categories []domain.IncomeCategory
	err := db.WithContext(ctx).Order("name asc").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.IncomeCategory, error) {
	var category domain.IncomeCategory
	err := db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) CountCategoryReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Table("billing_invoices").
		Where("income_category_id = ?", id).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.IncomeCategory{}, "id = ?", id).Error
}
