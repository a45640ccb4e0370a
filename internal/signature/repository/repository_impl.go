package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	"github.com/smallbooks/smallbooks/internal/signature/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, signature *domain.Signature) error {
	return db.WithContext(ctx).Create(signature).Error
}

func (r *repo) FindBySlot(ctx context.Context, db *gorm.DB, kind document.Kind, documentID snowflake.ID, role document.Role) (*domain.Signature, error) {
	var signature domain.Signature
	err := db.WithContext(ctx).
		First(&signature, "document_kind = ? AND document_id = ? AND role = ?", kind, documentID, role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signature, nil
}

func (r *repo) ListByDocument(ctx context.Context, db *gorm.DB, kind document.Kind, documentID snowflake.ID) ([]domain.Signature, error) {
	var signatures []domain.Signature
	err := db.WithContext(ctx).
		Where("document_kind = ? AND document_id = ?", kind, documentID).
		Order("role asc").
		Find(&signatures).Error
	if err != nil {
		return nil, err
	}
	return signatures, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Signature{}, "id = ?", id).Error
}
