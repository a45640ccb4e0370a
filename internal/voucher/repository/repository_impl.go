package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/voucher/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, voucher *domain.GeneralVoucher) error {
	return db.WithContext(ctx).Create(voucher).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, voucher *domain.GeneralVoucher) error {
	return db.WithContext(ctx).Save(voucher).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.GeneralVoucher, error) {
	var voucher domain.GeneralVoucher
	err := db.WithContext(ctx).First(&voucher, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.GeneralVoucher, error) {
	var vouchers []*domain.GeneralVoucher
	err := db.WithContext(ctx).Order("voucher_date desc, id desc").Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.GeneralVoucher{}, "id = ?", id).Error
}
