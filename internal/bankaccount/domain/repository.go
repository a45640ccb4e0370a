package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *BankAccount) error
	Update(ctx context.Context, db *gorm.DB, account *BankAccount) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BankAccount, error)
	List(ctx context.Context, db *gorm.DB) ([]*BankAccount, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
