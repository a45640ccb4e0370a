package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/client/domain"
	"github.com/smallbooks/smallbooks/internal/clock"
	pkgdb "github.com/smallbooks/smallbooks/pkg/db"
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
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:        s.genID.Generate(),
		Name:      name,
		ARCode:    strings.TrimSpace(req.ARCode),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.ARCode != nil {
		client.ARCode = strings.TrimSpace(*req.ARCode)
	}
	if req.Email != nil {
		client.Email = strings.TrimSpace(*req.Email)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	client.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return domain.Client{}, err
	}
	return *client, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Client, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Client{}, err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}

	refs, err := s.repo.CountInvoiceReferences(ctx, s.db, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrClientReferenced
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	s.log.Info("client deleted", zap.String("client_id", id.String()))
	return nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (domain.IncomeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.IncomeCategory{}, domain.ErrInvalidName
	}

	category := domain.IncomeCategory{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.InsertCategory(ctx, s.db, &category); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.IncomeCategory{}, domain.ErrCategoryExists
		}
		return domain.IncomeCategory{}, err
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, rawID string, name string) (domain.IncomeCategory, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.IncomeCategory{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.IncomeCategory{}, domain.ErrInvalidName
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return domain.IncomeCategory{}, err
	}
	if category == nil {
		return domain.IncomeCategory{}, domain.ErrCategoryNotFound
	}

	category.Name = name
	if err := s.repo.UpdateCategory(ctx, s.db, category); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return domain.IncomeCategory{}, domain.ErrCategoryExists
		}
		return domain.IncomeCategory{}, err
	}
	return *category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.IncomeCategory, error) {
	return s.repo.ListCategories(ctx, s.db)
}

func (s *Service) DeleteCategory(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	category, err := s.repo.FindCategoryByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}

	refs, err := s.repo.CountCategoryReferences(ctx, s.db, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrCategoryReferenced
	}

	if err := s.repo.DeleteCategory(ctx, s.db, id); err != nil {
		return err
	}

	s.log.Info("income category deleted", zap.String("category_id", id.String()))
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
