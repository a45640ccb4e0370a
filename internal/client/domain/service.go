package domain

import (
	"context"
	"errors"
)

type CreateClientRequest struct {
	Name    string `json:"name"`
	ARCode  string `json:"ar_code"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	ID      string
	Name    *string `json:"name"`
	ARCode  *string `json:"ar_code"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	List(context.Context) ([]Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Delete(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, name string) (IncomeCategory, error)
	UpdateCategory(ctx context.Context, id string, name string) (IncomeCategory, error)
	ListCategories(context.Context) ([]IncomeCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrNotFound           = errors.New("client_not_found")
	ErrClientReferenced   = errors.New("client_referenced")
	ErrCategoryNotFound   = errors.New("category_not_found")
	ErrCategoryExists     = errors.New("category_exists")
	ErrCategoryReferenced = errors.New("category_referenced")
)
