package domain

import (
	"context"

	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Session Session
	Token   string
	User    userdomain.User
}

type Service interface {
	Login(context.Context, LoginRequest) (LoginResult, error)
	Logout(ctx context.Context, token string) error
	// Authenticate resolves an opaque session token to its active session.
	Authenticate(ctx context.Context, token string) (Session, error)
}
