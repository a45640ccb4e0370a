package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
)

var (
	ErrSignatureExists  = errors.New("signature_exists")
	ErrNotFound         = errors.New("signature_not_found")
	ErrInvalidKind      = errors.New("invalid_document_kind")
	ErrInvalidRole      = errors.New("invalid_signature_role")
	ErrNotRoleOwner     = errors.New("not_signature_owner")
	ErrNoSignatureImage = errors.New("user_has_no_signature_image")
)

type AttachRequest struct {
	Kind       document.Kind
	DocumentID snowflake.ID
	Role       document.Role
	UserID     snowflake.ID
}

type Service interface {
	Attach(ctx context.Context, req AttachRequest) (*Signature, error)
	Detach(ctx context.Context, kind document.Kind, documentID snowflake.ID, role document.Role, userID snowflake.ID) error
	Has(ctx context.Context, kind document.Kind, documentID snowflake.ID, role document.Role) (bool, error)
	List(ctx context.Context, kind document.Kind, documentID snowflake.ID) ([]Signature, error)
}
