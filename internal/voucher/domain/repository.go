package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, voucher *GeneralVoucher) error
	Update(ctx context.Context, db *gorm.DB, voucher *GeneralVoucher) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*GeneralVoucher, error)
	List(ctx context.Context, db *gorm.DB) ([]*GeneralVoucher, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
