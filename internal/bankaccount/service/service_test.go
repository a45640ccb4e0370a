package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	domain "github.com/smallbooks/smallbooks/internal/bankaccount/domain"
	"github.com/smallbooks/smallbooks/internal/bankaccount/repository"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.BankAccount{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateBankAccountRequest{AccountName: "Ops", AccountNumber: "123"})
	if !errors.Is(err, domain.ErrInvalidBankName) {
		t.Fatalf("expected ErrInvalidBankName, got %v", err)
	}
	_, err = svc.Create(ctx, domain.CreateBankAccountRequest{BankName: "First Bank", AccountNumber: "123"})
	if !errors.Is(err, domain.ErrInvalidAccountName) {
		t.Fatalf("expected ErrInvalidAccountName, got %v", err)
	}
	_, err = svc.Create(ctx, domain.CreateBankAccountRequest{BankName: "First Bank", AccountName: "Ops"})
	if !errors.Is(err, domain.ErrInvalidAccountNumber) {
		t.Fatalf("expected ErrInvalidAccountNumber, got %v", err)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, domain.CreateBankAccountRequest{
		BankName:      "First Bank",
		AccountName:   "Operating Account",
		AccountNumber: "0012-3456-78",
		Branch:        "Main Branch",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	branch := "Downtown Branch"
	updated, err := svc.Update(ctx, domain.UpdateBankAccountRequest{ID: account.ID.String(), Branch: &branch})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Branch != branch {
		t.Fatalf("branch = %q", updated.Branch)
	}
	if updated.BankName != "First Bank" {
		t.Fatalf("bank name = %q", updated.BankName)
	}

	if err := svc.Delete(ctx, account.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, account.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListOrdersByBankName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Zenith Bank", "Alpha Bank"} {
		if _, err := svc.Create(ctx, domain.CreateBankAccountRequest{
			BankName:      name,
			AccountName:   "Ops",
			AccountNumber: "1",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	accounts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 2 || accounts[0].BankName != "Alpha Bank" {
		t.Fatalf("order = %+v", accounts)
	}
}
