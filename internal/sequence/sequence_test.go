package sequence

import (
	"context"
	"testing"

	"github.com/smallbooks/smallbooks/pkg/db"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&DocumentSequence{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return dbConn
}

func TestNextStartsAtOneAndIncrements(t *testing.T) {
	dbConn := newTestDB(t)
	alloc := NewAllocator()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		var got int64
		err := dbConn.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = alloc.Next(ctx, tx, "invoice:2024")
			return err
		})
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestNextScopesAreIndependent(t *testing.T) {
	dbConn := newTestDB(t)
	alloc := NewAllocator()
	ctx := context.Background()

	err := dbConn.Transaction(func(tx *gorm.DB) error {
		if _, err := alloc.Next(ctx, tx, "invoice:2024"); err != nil {
			return err
		}
		if _, err := alloc.Next(ctx, tx, "invoice:2024"); err != nil {
			return err
		}
		n, err := alloc.Next(ctx, tx, "invoice:2025")
		if err != nil {
			return err
		}
		if n != 1 {
			t.Fatalf("new scope started at %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
}

func TestNextRollbackDoesNotBurnNumbers(t *testing.T) {
	dbConn := newTestDB(t)
	alloc := NewAllocator()
	ctx := context.Background()

	rollback := dbConn.Transaction(func(tx *gorm.DB) error {
		if _, err := alloc.Next(ctx, tx, "invoice:2024"); err != nil {
			return err
		}
		return context.Canceled
	})
	if rollback == nil {
		t.Fatal("expected rollback error")
	}

	var got int64
	err := dbConn.Transaction(func(tx *gorm.DB) error {
		var err error
		got, err = alloc.Next(ctx, tx, "invoice:2024")
		return err
	})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got != 1 {
		t.Fatalf("got %d after rollback, want 1", got)
	}
}
