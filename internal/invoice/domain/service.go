package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/document"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
)

var (
	ErrInvalidID         = errors.New("invalid_invoice_id")
	ErrNotFound          = errors.New("invoice_not_found")
	ErrInvalidLineItem   = errors.New("invalid_line_item")
	ErrNegativeAmountDue = errors.New("negative_amount_due")
)

// ValidationError reports the fields missing for a draft to be
// submitted for approval.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invoice_not_submittable: %s", strings.Join(e.Fields, ", "))
}

type LineItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	ClientID         *string         `json:"client_id"`
	IncomeCategoryID *string         `json:"income_category_id"`
	BankAccountID    *string         `json:"bank_account_id"`
	InvoiceDate      *time.Time      `json:"invoice_date"`
	DueDate          *time.Time      `json:"due_date"`
	Discount         decimal.Decimal `json:"discount"`
	Notes            string          `json:"notes"`
	PreparedBy       *string         `json:"prepared_by"`
	ApprovedBy       *string         `json:"approved_by"`
	LineItems        []LineItemInput `json:"line_items"`
}

// UpdateInvoiceRequest patches header fields; a non-nil LineItems
// replaces the full set of lines rather than diffing them.
type UpdateInvoiceRequest struct {
	ID               string           `json:"-"`
	ClientID         *string          `json:"client_id"`
	IncomeCategoryID *string          `json:"income_category_id"`
	BankAccountID    *string          `json:"bank_account_id"`
	InvoiceDate      *time.Time       `json:"invoice_date"`
	DueDate          *time.Time       `json:"due_date"`
	Discount         *decimal.Decimal `json:"discount"`
	Notes            *string          `json:"notes"`
	PreparedBy       *string          `json:"prepared_by"`
	ApprovedBy       *string          `json:"approved_by"`
	LineItems        *[]LineItemInput `json:"line_items"`
}

type ListInvoiceRequest struct {
	Status document.Status `form:"status"`
	pagination.Pagination
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) (*Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) ([]*Invoice, *pagination.PageInfo, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Delete(ctx context.Context, id string) error

	Submit(ctx context.Context, id string) (*Invoice, error)
	Approve(ctx context.Context, id string, actorID snowflake.ID) (*Invoice, error)
	Send(ctx context.Context, id string) (*Invoice, error)

	AttachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error)
	DetachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) error
}
