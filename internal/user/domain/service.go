package domain

import (
	"context"
	"errors"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
	Password string `json:"password"`
}

type UpdateUserRequest struct {
	ID             string
	FullName       *string `json:"full_name"`
	Position       *string `json:"position"`
	SignatureImage *string `json:"signature_image"`
	IsActive       *bool   `json:"is_active"`
}

type ListUserRequest struct {
	IncludeInactive bool
}

type Service interface {
	Create(context.Context, CreateUserRequest) (User, error)
	Update(context.Context, UpdateUserRequest) (User, error)
	List(context.Context, ListUserRequest) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Delete soft-deletes the profile. It fails with ErrUserReferenced while
	// any invoice, journal entry, or voucher names the user as preparer or
	// approver, to preserve audit integrity.
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrInvalidFullName = errors.New("invalid_full_name")
	ErrEmailExists     = errors.New("email_exists")
	ErrNotFound        = errors.New("user_not_found")
	ErrUserReferenced  = errors.New("user_referenced")
)
