package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB) ([]Client, error)
	// CountInvoiceReferences counts invoices billed to the client.
	CountInvoiceReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertCategory(ctx context.Context, db *gorm.DB, category *IncomeCategory) error
	UpdateCategory(ctx context.Context, db *gorm.DB, category *IncomeCategory) error
	ListCategories(ctx context.Context, db *gorm.DB) ([]IncomeCategory, error)
	FindCategoryByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*IncomeCategory, error)
	CountCategoryReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
