package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/clock"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	domain "github.com/smallbooks/smallbooks/internal/user/domain"
	"github.com/smallbooks/smallbooks/internal/user/repository"
	voucherdomain "github.com/smallbooks/smallbooks/internal/voucher/domain"
	"github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
}

func newTestService(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	models := []any{
		&domain.User{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&journaldomain.JournalEntry{},
		&journaldomain.EntryCategory{},
		&journaldomain.InvoiceLink{},
		&voucherdomain.GeneralVoucher{},
	}
	if err := dbConn.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
	return testEnv{svc: svc, db: dbConn, node: node}
}

func TestCreateNormalizesEmail(t *testing.T) {
	env := newTestService(t)

	user, err := env.svc.Create(context.Background(), domain.CreateUserRequest{
		Email:    "  Carol@Example.COM ",
		FullName: "Carol Reyes",
		Position: "Accounting Staff",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.PasswordHash == nil {
		t.Fatal("expected stored password hash")
	}
	if !user.IsActive {
		t.Fatal("expected active user")
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	req := domain.CreateUserRequest{Email: "carol@example.com", FullName: "Carol"}
	if _, err := env.svc.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := env.svc.Create(ctx, req); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUpdateClearsSignatureImage(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	user, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "carol@example.com", FullName: "Carol"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	image := "data:image/png;base64,sig"
	updated, err := env.svc.Update(ctx, domain.UpdateUserRequest{ID: user.ID.String(), SignatureImage: &image})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SignatureImage == nil || *updated.SignatureImage != image {
		t.Fatalf("signature image = %v", updated.SignatureImage)
	}

	blank := "  "
	updated, err = env.svc.Update(ctx, domain.UpdateUserRequest{ID: user.ID.String(), SignatureImage: &blank})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SignatureImage != nil {
		t.Fatalf("expected cleared signature image, got %q", *updated.SignatureImage)
	}
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	user, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "carol@example.com", FullName: "Carol"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	invoice := invoicedomain.Invoice{
		ID:            env.node.Generate(),
		InvoiceNumber: "INV-2024-0001",
		PreparedBy:    &user.ID,
	}
	if err := env.db.Create(&invoice).Error; err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if err := env.svc.Delete(ctx, user.ID.String()); !errors.Is(err, domain.ErrUserReferenced) {
		t.Fatalf("expected ErrUserReferenced, got %v", err)
	}

	// Once nothing references the profile it soft-deletes.
	if err := env.db.Delete(&invoice).Error; err != nil {
		t.Fatalf("drop invoice: %v", err)
	}
	if err := env.svc.Delete(ctx, user.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.GetByID(ctx, user.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListFiltersInactive(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	active, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "a@example.com", FullName: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inactive, err := env.svc.Create(ctx, domain.CreateUserRequest{Email: "b@example.com", FullName: "B"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	off := false
	if _, err := env.svc.Update(ctx, domain.UpdateUserRequest{ID: inactive.ID.String(), IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	users, err := env.svc.List(ctx, domain.ListUserRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].ID != active.ID {
		t.Fatalf("active-only list = %+v", users)
	}

	users, err = env.svc.List(ctx, domain.ListUserRequest{IncludeInactive: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users", len(users))
	}
}
