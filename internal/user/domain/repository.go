package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	Update(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	List(ctx context.Context, db *gorm.DB, includeInactive bool) ([]User, error)
	// CountDocumentReferences counts documents naming the user as preparer or
	// approver across invoices, journal entries, and vouchers.
	CountDocumentReferences(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
