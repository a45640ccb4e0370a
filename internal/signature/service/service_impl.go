package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/document"
	"github.com/smallbooks/smallbooks/internal/signature/domain"
	userdomain "github.com/smallbooks/smallbooks/internal/user/domain"
	pkgdb "github.com/smallbooks/smallbooks/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	UserRepo userdomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	userRepo userdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("signature.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		userRepo: p.UserRepo,
	}
}

func (s *Service) Attach(ctx context.Context, req domain.AttachRequest) (*domain.Signature, error) {
	if !req.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	if !req.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(ctx, s.db, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userdomain.ErrNotFound
	}
	if user.SignatureImage == nil || *user.SignatureImage == "" {
		return nil, domain.ErrNoSignatureImage
	}

	existing, err := s.repo.FindBySlot(ctx, s.db, req.Kind, req.DocumentID, req.Role)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSignatureExists
	}

	signature := domain.Signature{
		ID:           s.genID.Generate(),
		DocumentKind: req.Kind,
		DocumentID:   req.DocumentID,
		Role:         req.Role,
		UserID:       req.UserID,
		SignedAt:     s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &signature); err != nil {
		// The unique index backs the existence check above; a racing
		// attach loses here instead of writing a second row.
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSignatureExists
		}
		return nil, err
	}
	return &signature, nil
}

func (s *Service) Detach(ctx context.Context, kind document.Kind, documentID snowflake.ID, role document.Role, userID snowflake.ID) error {
	if !kind.Valid() {
		return domain.ErrInvalidKind
	}
	if !role.Valid() {
		return domain.ErrInvalidRole
	}

	signature, err := s.repo.FindBySlot(ctx, s.db, kind, documentID, role)
	if err != nil {
		return err
	}
	if signature == nil {
		return domain.ErrNotFound
	}
	if signature.UserID != userID {
		return domain.ErrNotRoleOwner
	}
	return s.repo.Delete(ctx, s.db, signature.ID)
}

func (s *Service) Has(ctx context.Context, kind document.Kind, documentID snowflake.ID, role document.Role) (bool, error) {
	signature, err := s.repo.FindBySlot(ctx, s.db, kind, documentID, role)
	if err != nil {
		return false, err
	}
	return signature != nil, nil
}

func (s *Service) List(ctx context.Context, kind document.Kind, documentID snowflake.ID) ([]domain.Signature, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	return s.repo.ListByDocument(ctx, s.db, kind, documentID)
}
