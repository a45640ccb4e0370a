package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/bankaccount/domain"
	"github.com/smallbooks/smallbooks/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bankaccount.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBankAccountRequest) (*domain.BankAccount, error) {
	bankName := strings.TrimSpace(req.BankName)
	if bankName == "" {
		return nil, domain.ErrInvalidBankName
	}
	accountName := strings.TrimSpace(req.AccountName)
	if accountName == "" {
		return nil, domain.ErrInvalidAccountName
	}
	accountNumber := strings.TrimSpace(req.AccountNumber)
	if accountNumber == "" {
		return nil, domain.ErrInvalidAccountNumber
	}

	now := s.clock.Now()
	account := domain.BankAccount{
		ID:            s.genID.Generate(),
		BankName:      bankName,
		AccountName:   accountName,
		AccountNumber: accountNumber,
		Branch:        strings.TrimSpace(req.Branch),
		SwiftCode:     strings.TrimSpace(req.SwiftCode),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBankAccountRequest) (*domain.BankAccount, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	if req.BankName != nil {
		bankName := strings.TrimSpace(*req.BankName)
		if bankName == "" {
			return nil, domain.ErrInvalidBankName
		}
		account.BankName = bankName
	}
	if req.AccountName != nil {
		accountName := strings.TrimSpace(*req.AccountName)
		if accountName == "" {
			return nil, domain.ErrInvalidAccountName
		}
		account.AccountName = accountName
	}
	if req.AccountNumber != nil {
		accountNumber := strings.TrimSpace(*req.AccountNumber)
		if accountNumber == "" {
			return nil, domain.ErrInvalidAccountNumber
		}
		account.AccountNumber = accountNumber
	}
	if req.Branch != nil {
		account.Branch = strings.TrimSpace(*req.Branch)
	}
	if req.SwiftCode != nil {
		account.SwiftCode = strings.TrimSpace(*req.SwiftCode)
	}
	account.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.BankAccount, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.BankAccount, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	account, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if account == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
