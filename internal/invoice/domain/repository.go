package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	UpdateHeader(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceLineItems(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID, items []LineItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*Invoice, error)
	List(ctx context.Context, db *gorm.DB, status document.Status, page pagination.Pagination) ([]*Invoice, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
