package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/document"
	domain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/internal/invoice/repository"
	"github.com/smallbooks/smallbooks/internal/sequence"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	signaturerepository "github.com/smallbooks/smallbooks/internal/signature/repository"
	signatureservice "github.com/smallbooks/smallbooks/internal/signature/service"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	userrepository "github.com/smallbooks/smallbooks/internal/user/repository"
	"github.com/smallbooks/smallbooks/pkg/db"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
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
		&domain.Invoice{},
		&domain.LineItem{},
		&signaturedomain.Signature{},
		&sequence.DocumentSequence{},
	}
	if err := dbConn.AutoMigrate(models...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fakeClock := clock.NewFakeClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	signatures := signatureservice.New(signatureservice.Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fakeClock,
		Repo:     signaturerepository.Provide(),
		UserRepo: userrepository.Provide(),
	})

	svc := New(Params{
		DB:         dbConn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fakeClock,
		Repo:       repository.Provide(),
		Sequences:  sequence.NewAllocator(),
		Signatures: signatures,
	})
	return testEnv{svc: svc, db: dbConn, node: node, clock: fakeClock}
}

func (e testEnv) createUser(t *testing.T) snowflake.ID {
	t.Helper()

	id := e.node.Generate()
	image := "data:image/png;base64,sig"
	user := userdomain.User{
		ID:             id,
		Email:          fmt.Sprintf("user-%d@example.com", id),
		FullName:       "Test User",
		SignatureImage: &image,
		IsActive:       true,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user.ID
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// createCompleteInvoice builds a draft that passes every submit check.
func (e testEnv) createCompleteInvoice(t *testing.T, preparer, approver snowflake.ID) *domain.Invoice {
	t.Helper()

	invoice, err := e.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ClientID:         strPtr(e.node.Generate().String()),
		IncomeCategoryID: strPtr(e.node.Generate().String()),
		BankAccountID:    strPtr(e.node.Generate().String()),
		InvoiceDate:      timePtr(e.clock.Now()),
		PreparedBy:       strPtr(preparer.String()),
		ApprovedBy:       strPtr(approver.String()),
		LineItems: []domain.LineItemInput{
			{Description: "Consulting hours", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("150.00")},
		},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.InvoiceNumber != "INV-2024-0001" {
		t.Fatalf("first number = %q", first.InvoiceNumber)
	}
	if second.InvoiceNumber != "INV-2024-0002" {
		t.Fatalf("second number = %q", second.InvoiceNumber)
	}
	if first.Status != document.StatusDraft {
		t.Fatalf("status = %q", first.Status)
	}
}

func TestCreateComputesTotals(t *testing.T) {
	env := newTestService(t)

	invoice, err := env.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		Discount: decimal.RequireFromString("50.00"),
		LineItems: []domain.LineItemInput{
			{Description: "Design", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("300.00")},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("99.95")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !invoice.GrandTotal.Equal(decimal.RequireFromString("699.95")) {
		t.Fatalf("grand total = %s", invoice.GrandTotal)
	}
	if !invoice.AmountDue.Equal(decimal.RequireFromString("649.95")) {
		t.Fatalf("amount due = %s", invoice.AmountDue)
	}
}

func TestCreateRejectsNegativeAmountDue(t *testing.T) {
	env := newTestService(t)

	_, err := env.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		Discount: decimal.RequireFromString("100.00"),
		LineItems: []domain.LineItemInput{
			{Description: "Small job", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("40.00")},
		},
	})
	if !errors.Is(err, domain.ErrNegativeAmountDue) {
		t.Fatalf("expected ErrNegativeAmountDue, got %v", err)
	}
}

func TestCreateRejectsInvalidLineItems(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{{Description: "   ", Quantity: decimal.NewFromInt(1)}},
	})
	if !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for blank description, got %v", err)
	}

	_, err = env.svc.Create(ctx, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{{Description: "Refund", Quantity: decimal.NewFromInt(-1), UnitPrice: decimal.NewFromInt(10)}},
	})
	if !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected ErrInvalidLineItem for negative quantity, got %v", err)
	}
}

func TestUpdateReplacesLineItemsWholesale(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	invoice, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{
		LineItems: []domain.LineItemInput{
			{Description: "Old line A", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
			{Description: "Old line B", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newLines := []domain.LineItemInput{
		{Description: "New line", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("50.00")},
	}
	updated, err := env.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:        invoice.ID.String(),
		LineItems: &newLines,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(updated.LineItems) != 1 {
		t.Fatalf("got %d line items", len(updated.LineItems))
	}
	if !updated.GrandTotal.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("grand total = %s", updated.GrandTotal)
	}

	reloaded, err := env.svc.GetByID(ctx, invoice.ID.String())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.LineItems) != 1 || reloaded.LineItems[0].Description != "New line" {
		t.Fatalf("persisted lines = %+v", reloaded.LineItems)
	}
}

func TestSubmitReportsAllMissingFields(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	invoice, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.svc.Submit(ctx, invoice.ID.String())
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{"invoice_date", "client_id", "income_category_id", "bank_account_id", "prepared_by", "approved_by", "line_items"}
	if len(verr.Fields) != len(want) {
		t.Fatalf("fields = %v", verr.Fields)
	}
	for i := range want {
		if verr.Fields[i] != want[i] {
			t.Fatalf("fields[%d] = %q, want %q", i, verr.Fields[i], want[i])
		}
	}
}

func TestSubmitMovesDraftToForApproval(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	preparer := env.createUser(t)
	approver := env.createUser(t)
	invoice := env.createCompleteInvoice(t, preparer, approver)

	submitted, err := env.svc.Submit(ctx, invoice.ID.String())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != document.StatusForApproval {
		t.Fatalf("status = %q", submitted.Status)
	}

	// Submitting twice is an invalid transition.
	if _, err := env.svc.Submit(ctx, invoice.ID.String()); !errors.Is(err, document.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestApproveRequiresAssignedApprover(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	preparer := env.createUser(t)
	approver := env.createUser(t)
	invoice := env.createCompleteInvoice(t, preparer, approver)

	if _, err := env.svc.Approve(ctx, invoice.ID.String(), approver); !errors.Is(err, document.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before submit, got %v", err)
	}

	if _, err := env.svc.Submit(ctx, invoice.ID.String()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.svc.Approve(ctx, invoice.ID.String(), preparer); !errors.Is(err, document.ErrNotApprover) {
		t.Fatalf("expected ErrNotApprover, got %v", err)
	}
}

func TestApproveRequiresBothSignatures(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	preparer := env.createUser(t)
	approver := env.createUser(t)
	invoice := env.createCompleteInvoice(t, preparer, approver)

	if _, err := env.svc.Submit(ctx, invoice.ID.String()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := env.svc.Approve(ctx, invoice.ID.String(), approver); !errors.Is(err, document.ErrSignatureMissing) {
		t.Fatalf("expected ErrSignatureMissing with no signatures, got %v", err)
	}

	if _, err := env.svc.AttachSignature(ctx, invoice.ID.String(), document.RolePreparedBy, preparer); err != nil {
		t.Fatalf("attach prepared_by: %v", err)
	}
	if _, err := env.svc.Approve(ctx, invoice.ID.String(), approver); !errors.Is(err, document.ErrSignatureMissing) {
		t.Fatalf("expected ErrSignatureMissing with one signature, got %v", err)
	}

	if _, err := env.svc.AttachSignature(ctx, invoice.ID.String(), document.RoleApprovedBy, approver); err != nil {
		t.Fatalf("attach approved_by: %v", err)
	}
	approved, err := env.svc.Approve(ctx, invoice.ID.String(), approver)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != document.StatusApproved {
		t.Fatalf("status = %q", approved.Status)
	}
}

func TestAttachSignatureEnforcesRoleOwner(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	preparer := env.createUser(t)
	approver := env.createUser(t)
	invoice := env.createCompleteInvoice(t, preparer, approver)

	_, err := env.svc.AttachSignature(ctx, invoice.ID.String(), document.RoleApprovedBy, preparer)
	if !errors.Is(err, signaturedomain.ErrNotRoleOwner) {
		t.Fatalf("expected ErrNotRoleOwner, got %v", err)
	}
}

func TestSendRequiresApproval(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	invoice, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.svc.Send(ctx, invoice.ID.String()); !errors.Is(err, document.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestPostedInvoiceIsImmutable(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	invoice, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = env.db.Model(&domain.Invoice{}).Where("id = ?", invoice.ID).
		Update("status", document.StatusPosted).Error
	if err != nil {
		t.Fatalf("mark posted: %v", err)
	}

	notes := "late edit"
	if _, err := env.svc.Update(ctx, domain.UpdateInvoiceRequest{ID: invoice.ID.String(), Notes: &notes}); !errors.Is(err, document.ErrDocumentPosted) {
		t.Fatalf("expected ErrDocumentPosted on update, got %v", err)
	}
	if err := env.svc.Delete(ctx, invoice.ID.String()); !errors.Is(err, document.ErrDocumentPosted) {
		t.Fatalf("expected ErrDocumentPosted on delete, got %v", err)
	}
	if _, err := env.svc.AttachSignature(ctx, invoice.ID.String(), document.RoleCheckedBy, env.createUser(t)); !errors.Is(err, document.ErrDocumentPosted) {
		t.Fatalf("expected ErrDocumentPosted on signature, got %v", err)
	}
}

func TestGetByIDUnknown(t *testing.T) {
	env := newTestService(t)

	if _, err := env.svc.GetByID(context.Background(), "123456789"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.svc.GetByID(context.Background(), "not-a-number"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := env.svc.Create(ctx, domain.CreateInvoiceRequest{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Without paging the full set comes back and no page info is built.
	all, info, err := env.svc.List(ctx, domain.ListInvoiceRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 invoices, got %d", len(all))
	}
	if info != nil {
		t.Fatalf("expected nil page info, got %+v", info)
	}
	if all[0].InvoiceNumber != "INV-2024-0005" {
		t.Fatalf("expected newest first, got %s", all[0].InvoiceNumber)
	}

	page, info, err := env.svc.List(ctx, domain.ListInvoiceRequest{Pagination: pagination.Pagination{PageSize: 2}})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page) != 2 || !info.HasMore || info.NextPageToken == "" {
		t.Fatalf("unexpected first page: %d rows, info %+v", len(page), info)
	}
	if page[0].InvoiceNumber != "INV-2024-0005" || page[1].InvoiceNumber != "INV-2024-0004" {
		t.Fatalf("unexpected first page order: %s, %s", page[0].InvoiceNumber, page[1].InvoiceNumber)
	}

	page, info, err = env.svc.List(ctx, domain.ListInvoiceRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken}})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page) != 2 || page[0].InvoiceNumber != "INV-2024-0003" {
		t.Fatalf("unexpected second page: %d rows starting %s", len(page), page[0].InvoiceNumber)
	}

	page, info, err = env.svc.List(ctx, domain.ListInvoiceRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: info.NextPageToken}})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page) != 1 || info.HasMore || page[0].InvoiceNumber != "INV-2024-0001" {
		t.Fatalf("unexpected last page: %d rows, info %+v", len(page), info)
	}
}
