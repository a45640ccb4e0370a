// Package sequence allocates gapless per-scope counters backed by a
// single-row-per-scope table. Allocation must run inside the caller's
// transaction so a rolled-back document never burns a number silently
// without the caller knowing.
package sequence

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentSequence struct {
	Scope     string    `gorm:"primaryKey;size:64"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DocumentSequence) TableName() string { return "document_sequences" }

type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next increments and returns the counter for scope. The row is locked
// for the duration of tx, so concurrent allocations serialize on the
// scope row rather than on the whole table.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, scope string) (int64, error) {
	var seq DocumentSequence
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "scope = ?", scope).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = DocumentSequence{Scope: scope, LastValue: 1, UpdatedAt: time.Now().UTC()}
		if err := tx.WithContext(ctx).Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.LastValue, nil
	}
	if err != nil {
		return 0, err
	}

	seq.LastValue++
	seq.UpdatedAt = time.Now().UTC()
	if err := tx.WithContext(ctx).Save(&seq).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

var Module = fx.Module("sequence",
	fx.Provide(NewAllocator),
)
