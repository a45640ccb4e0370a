package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidID            = errors.New("invalid_bank_account_id")
	ErrInvalidBankName      = errors.New("invalid_bank_name")
	ErrInvalidAccountName   = errors.New("invalid_account_name")
	ErrInvalidAccountNumber = errors.New("invalid_account_number")
	ErrNotFound             = errors.New("bank_account_not_found")
)

type CreateBankAccountRequest struct {
	BankName      string `json:"bank_name" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	Branch        string `json:"branch"`
	SwiftCode     string `json:"swift_code"`
}

type UpdateBankAccountRequest struct {
	ID            string  `json:"-"`
	BankName      *string `json:"bank_name"`
	AccountName   *string `json:"account_name"`
	AccountNumber *string `json:"account_number"`
	Branch        *string `json:"branch"`
	SwiftCode     *string `json:"swift_code"`
}

type Service interface {
	Create(ctx context.Context, req CreateBankAccountRequest) (*BankAccount, error)
	Update(ctx context.Context, req UpdateBankAccountRequest) (*BankAccount, error)
	List(ctx context.Context) ([]*BankAccount, error)
	GetByID(ctx context.Context, id string) (*BankAccount, error)
	Delete(ctx context.Context, id string) error
}
