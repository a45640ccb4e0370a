package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/document"
	journaldomain "github.com/smallbooks/smallbooks/internal/journal/domain"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	"github.com/smallbooks/smallbooks/internal/voucher/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	JournalRepo journaldomain.Repository
	Signatures  signaturedomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	journalRepo journaldomain.Repository
	signatures  signaturedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("voucher.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		journalRepo: p.JournalRepo,
		signatures:  p.Signatures,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateVoucherRequest) (*domain.GeneralVoucher, error) {
	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.EntryCategoryID))
	if err != nil || categoryID == 0 {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.journalRepo.FindCategoryByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrInvalidCategory
	}

	now := s.clock.Now()
	voucher := domain.GeneralVoucher{
		ID:              s.genID.Generate(),
		EntryCategoryID: categoryID,
		Description:     strings.TrimSpace(req.Description),
		VoucherDate:     req.VoucherDate,
		Status:          document.StatusDraft,
		Remarks:         strings.TrimSpace(req.Remarks),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if voucher.VoucherDate.IsZero() {
		voucher.VoucherDate = now
	}
	if voucher.PreparedBy, err = parseOptionalID(req.PreparedBy); err != nil {
		return nil, err
	}
	if voucher.ApprovedBy, err = parseOptionalID(req.ApprovedBy); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, &voucher); err != nil {
		return nil, err
	}
	return s.withAmount(ctx, &voucher)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateVoucherRequest) (*domain.GeneralVoucher, error) {
	voucher, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		voucher.Description = strings.TrimSpace(*req.Description)
	}
	if req.VoucherDate != nil {
		voucher.VoucherDate = *req.VoucherDate
	}
	if req.Remarks != nil {
		voucher.Remarks = strings.TrimSpace(*req.Remarks)
	}
	if req.PreparedBy != nil {
		if voucher.PreparedBy, err = parseOptionalID(req.PreparedBy); err != nil {
			return nil, err
		}
	}
	if req.ApprovedBy != nil {
		if voucher.ApprovedBy, err = parseOptionalID(req.ApprovedBy); err != nil {
			return nil, err
		}
	}
	voucher.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, voucher); err != nil {
		return nil, err
	}
	return s.withAmount(ctx, voucher)
}

func (s *Service) List(ctx context.Context) ([]*domain.GeneralVoucher, error) {
	vouchers, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for _, voucher := range vouchers {
		if _, err := s.withAmount(ctx, voucher); err != nil {
			return nil, err
		}
	}
	return vouchers, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.GeneralVoucher, error) {
	voucher, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return s.withAmount(ctx, voucher)
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	voucher, err := s.find(ctx, rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, voucher.ID)
}

func (s *Service) AttachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error) {
	voucher, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := checkRoleOwner(voucher, role, actorID); err != nil {
		return nil, err
	}
	return s.signatures.Attach(ctx, signaturedomain.AttachRequest{
		Kind:       document.KindGeneralVoucher,
		DocumentID: voucher.ID,
		Role:       role,
		UserID:     actorID,
	})
}

func (s *Service) DetachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) error {
	voucher, err := s.find(ctx, rawID)
	if err != nil {
		return err
	}
	return s.signatures.Detach(ctx, document.KindGeneralVoucher, voucher.ID, role, actorID)
}

// withAmount derives the voucher amount from the invoices linked to
// its category.
func (s *Service) withAmount(ctx context.Context, voucher *domain.GeneralVoucher) (*domain.GeneralVoucher, error) {
	amount, err := s.journalRepo.SumInvoiceTotalsByCategory(ctx, s.db, voucher.EntryCategoryID)
	if err != nil {
		return nil, err
	}
	voucher.Amount = amount
	return voucher, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.GeneralVoucher, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	voucher, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if voucher == nil {
		return nil, domain.ErrNotFound
	}
	return voucher, nil
}

func checkRoleOwner(voucher *domain.GeneralVoucher, role document.Role, actorID snowflake.ID) error {
	switch role {
	case document.RolePreparedBy:
		if voucher.PreparedBy == nil || *voucher.PreparedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleApprovedBy:
		if voucher.ApprovedBy == nil || *voucher.ApprovedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleCheckedBy:
	default:
		return signaturedomain.ErrInvalidRole
	}
	return nil
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*value))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	return &id, nil
}
