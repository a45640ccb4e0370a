package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
)

var (
	ErrInvalidID       = errors.New("invalid_voucher_id")
	ErrInvalidCategory = errors.New("invalid_voucher_category")
	ErrNotFound        = errors.New("voucher_not_found")
)

type CreateVoucherRequest struct {
	EntryCategoryID string    `json:"entry_category_id" binding:"required"`
	Description     string    `json:"description"`
	VoucherDate     time.Time `json:"voucher_date"`
	PreparedBy      *string   `json:"prepared_by"`
	ApprovedBy      *string   `json:"approved_by"`
	Remarks         string    `json:"remarks"`
}

type UpdateVoucherRequest struct {
	ID          string     `json:"-"`
	Description *string    `json:"description"`
	VoucherDate *time.Time `json:"voucher_date"`
	PreparedBy  *string    `json:"prepared_by"`
	ApprovedBy  *string    `json:"approved_by"`
	Remarks     *string    `json:"remarks"`
}

type Service interface {
	Create(ctx context.Context, req CreateVoucherRequest) (*GeneralVoucher, error)
	Update(ctx context.Context, req UpdateVoucherRequest) (*GeneralVoucher, error)
	List(ctx context.Context) ([]*GeneralVoucher, error)
	GetByID(ctx context.Context, id string) (*GeneralVoucher, error)
	Delete(ctx context.Context, id string) error

	AttachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error)
	DetachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) error
}
