package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/clock"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	journalrepository "github.com/smallbooks/smallbooks/internal/journal/repository"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	signaturerepository "github.com/smallbooks/smallbooks/internal/signature/repository"
	signatureservice "github.com/smallbooks/smallbooks/internal/signature/service"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	userrepository "github.com/smallbooks/smallbooks/internal/user/repository"
	domain "github.com/smallbooks/smallbooks/internal/voucher/domain"
	"github.com/smallbooks/smallbooks/internal/voucher/repository"
	"github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
}

func newTestService(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	models := []any{
		&userdomain.User{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&journaldomain.JournalEntry{},
		&journaldomain.EntryCategory{},
		&journaldomain.InvoiceLink{},
		&domain.GeneralVoucher{},
		&signaturedomain.Signature{},
	}
	if err := dbConn.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.April, 2, 8, 0, 0, 0, time.UTC))

	signatures := signatureservice.New(signatureservice.Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fakeClock,
		Repo:     signaturerepository.Provide(),
		UserRepo: userrepository.Provide(),
	})

	svc := New(Params{
		DB:          dbConn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fakeClock,
		Repo:        repository.Provide(),
		JournalRepo: journalrepository.Provide(),
		Signatures:  signatures,
	})
	return testEnv{svc: svc, db: dbConn, node: node, clock: fakeClock}
}

// createPostedCategory writes a journal entry category with linked
// invoice lines so the voucher amount has something to derive from.
func (e testEnv) createPostedCategory(t *testing.T, name string, totals ...string) snowflake.ID {
	t.Helper()

	now := e.clock.Now()
	entry := journaldomain.JournalEntry{
		ID:          e.node.Generate(),
		EntryNumber: "JE-2024-03-00" + string(rune('1'+len(totals))),
		EntryDate:   now,
		Status:      "approved",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.db.Create(&entry).Error; err != nil {
		t.Fatalf("create entry: %v", err)
	}

	sum := decimal.Zero
	for _, total := range totals {
		sum = sum.Add(decimal.RequireFromString(total))
	}
	category := journaldomain.EntryCategory{
		ID:             e.node.Generate(),
		JournalEntryID: entry.ID,
		CategoryName:   name,
		Reference:      "GJV 2024-03-00" + string(rune('1'+len(totals))),
		Amount:         sum,
		CreatedAt:      now,
	}
	if err := e.db.Create(&category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}

	for i, total := range totals {
		amount := decimal.RequireFromString(total)
		inv := invoicedomain.Invoice{
			ID:            e.node.Generate(),
			InvoiceNumber: category.Reference + "-" + string(rune('a'+i)),
			Status:        "posted",
			GrandTotal:    amount,
			AmountDue:     amount,
			CreatedAt:     now,
			UpdatedAt:     now,
			LineItems: []invoicedomain.LineItem{{
				ID:          e.node.Generate(),
				Description: "Services rendered",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   amount,
				Amount:      amount,
				CreatedAt:   now,
			}},
		}
		inv.LineItems[0].InvoiceID = inv.ID
		if err := e.db.Create(&inv).Error; err != nil {
			t.Fatalf("create invoice: %v", err)
		}
		link := journaldomain.InvoiceLink{
			ID:              e.node.Generate(),
			JournalEntryID:  entry.ID,
			EntryCategoryID: category.ID,
			InvoiceID:       inv.ID,
			CreatedAt:       now,
		}
		if err := e.db.Create(&link).Error; err != nil {
			t.Fatalf("create link: %v", err)
		}
	}
	return category.ID
}

func TestCreateDerivesAmountFromCategory(t *testing.T) {
	env := newTestService(t)
	categoryID := env.createPostedCategory(t, "Consulting", "1000.00", "500.00")

	voucher, err := env.svc.Create(context.Background(), domain.CreateVoucherRequest{
		EntryCategoryID: categoryID.String(),
		Description:     "Consulting income, March",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !voucher.Amount.Equal(decimal.RequireFromString("1500.00")) {
		t.Fatalf("amount = %s", voucher.Amount)
	}
	if voucher.VoucherDate.IsZero() {
		t.Fatal("voucher date not defaulted")
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.Create(context.Background(), domain.CreateVoucherRequest{
		EntryCategoryID: "123456789",
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = env.svc.Create(context.Background(), domain.CreateVoucherRequest{
		EntryCategoryID: "not-an-id",
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestAmountFollowsCategoryAtRead(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	categoryID := env.createPostedCategory(t, "Retainers", "250.00")

	voucher, err := env.svc.Create(ctx, domain.CreateVoucherRequest{
		EntryCategoryID: categoryID.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A later link into the same category changes what the voucher
	// reports without any voucher write.
	now := env.clock.Now()
	amount := decimal.RequireFromString("50.00")
	inv := invoicedomain.Invoice{
		ID:            env.node.Generate(),
		InvoiceNumber: "INV-EXTRA-1",
		Status:        "posted",
		GrandTotal:    amount,
		AmountDue:     amount,
		CreatedAt:     now,
		UpdatedAt:     now,
		LineItems: []invoicedomain.LineItem{{
			ID:          env.node.Generate(),
			Description: "Extra work",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   amount,
			Amount:      amount,
			CreatedAt:   now,
		}},
	}
	inv.LineItems[0].InvoiceID = inv.ID
	if err := env.db.Create(&inv).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	var category journaldomain.EntryCategory
	if err := env.db.First(&category, "id = ?", categoryID).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}
	link := journaldomain.InvoiceLink{
		ID:              env.node.Generate(),
		JournalEntryID:  category.JournalEntryID,
		EntryCategoryID: categoryID,
		InvoiceID:       inv.ID,
		CreatedAt:       now,
	}
	if err := env.db.Create(&link).Error; err != nil {
		t.Fatalf("create link: %v", err)
	}

	reloaded, err := env.svc.GetByID(ctx, voucher.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reloaded.Amount.Equal(decimal.RequireFromString("300.00")) {
		t.Fatalf("amount = %s", reloaded.Amount)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	categoryID := env.createPostedCategory(t, "Consulting", "100.00")

	voucher, err := env.svc.Create(ctx, domain.CreateVoucherRequest{
		EntryCategoryID: categoryID.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "Updated description"
	updated, err := env.svc.Update(ctx, domain.UpdateVoucherRequest{
		ID:          voucher.ID.String(),
		Description: &desc,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != desc {
		t.Fatalf("description = %q", updated.Description)
	}

	if err := env.svc.Delete(ctx, voucher.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.GetByID(ctx, voucher.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
