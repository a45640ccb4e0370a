package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, signature *Signature) error
	FindBySlot(ctx context.Context, db *gorm.DB, kind document.Kind, documentID snowflake.ID, role document.Role) (*Signature, error)
	ListByDocument(ctx context.Context, db *gorm.DB, kind document.Kind, documentID snowflake.ID) ([]Signature, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
