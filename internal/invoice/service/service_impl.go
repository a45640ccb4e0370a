package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/document"
	"github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/internal/sequence"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Sequences  *sequence.Allocator
	Signatures signaturedomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	sequences  *sequence.Allocator
	signatures signaturedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		sequences:  p.Sequences,
		signatures: p.Signatures,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	now := s.clock.Now()

	invoice := domain.Invoice{
		ID:          s.genID.Generate(),
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		Discount:    req.Discount,
		Status:      document.StatusDraft,
		Notes:       strings.TrimSpace(req.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var err error
	if invoice.ClientID, err = parseOptionalID(req.ClientID); err != nil {
		return nil, err
	}
	if invoice.IncomeCategoryID, err = parseOptionalID(req.IncomeCategoryID); err != nil {
		return nil, err
	}
	if invoice.BankAccountID, err = parseOptionalID(req.BankAccountID); err != nil {
		return nil, err
	}
	if invoice.PreparedBy, err = parseOptionalID(req.PreparedBy); err != nil {
		return nil, err
	}
	if invoice.ApprovedBy, err = parseOptionalID(req.ApprovedBy); err != nil {
		return nil, err
	}

	items, err := s.buildLineItems(invoice.ID, req.LineItems, now)
	if err != nil {
		return nil, err
	}
	invoice.LineItems = items
	if err := recomputeTotals(&invoice); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := fmt.Sprintf("invoice:%04d", now.Year())
		n, err := s.sequences.Next(ctx, tx, scope)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = fmt.Sprintf("INV-%04d-%04d", now.Year(), n)
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)
	return &invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (*domain.Invoice, error) {
	invoice, err := s.getForWrite(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if invoice.ClientID, err = parseOptionalID(req.ClientID); err != nil {
			return nil, err
		}
	}
	if req.IncomeCategoryID != nil {
		if invoice.IncomeCategoryID, err = parseOptionalID(req.IncomeCategoryID); err != nil {
			return nil, err
		}
	}
	if req.BankAccountID != nil {
		if invoice.BankAccountID, err = parseOptionalID(req.BankAccountID); err != nil {
			return nil, err
		}
	}
	if req.PreparedBy != nil {
		if invoice.PreparedBy, err = parseOptionalID(req.PreparedBy); err != nil {
			return nil, err
		}
	}
	if req.ApprovedBy != nil {
		if invoice.ApprovedBy, err = parseOptionalID(req.ApprovedBy); err != nil {
			return nil, err
		}
	}
	if req.InvoiceDate != nil {
		invoice.InvoiceDate = req.InvoiceDate
	}
	if req.DueDate != nil {
		invoice.DueDate = req.DueDate
	}
	if req.Discount != nil {
		invoice.Discount = *req.Discount
	}
	if req.Notes != nil {
		invoice.Notes = strings.TrimSpace(*req.Notes)
	}

	now := s.clock.Now()
	if req.LineItems != nil {
		items, err := s.buildLineItems(invoice.ID, *req.LineItems, now)
		if err != nil {
			return nil, err
		}
		invoice.LineItems = items
	}
	if err := recomputeTotals(invoice); err != nil {
		return nil, err
	}
	invoice.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.LineItems != nil {
			if err := s.repo.ReplaceLineItems(ctx, tx, invoice.ID, invoice.LineItems); err != nil {
				return err
			}
		}
		return s.repo.UpdateHeader(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]*domain.Invoice, *pagination.PageInfo, error) {
	invoices, err := s.repo.List(ctx, s.db, req.Status, req.Pagination)
	if err != nil {
		return nil, nil, err
	}
	invoices, info := pagination.Trim(invoices, req.Pagination, func(inv *domain.Invoice) pagination.Cursor {
		return pagination.Cursor{Number: inv.InvoiceNumber}
	})
	return invoices, info, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.Invoice, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	invoice, err := s.getForWrite(ctx, rawID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, invoice.ID)
}

// Submit moves a draft to for_approval once every field the approval
// flow depends on is present.
func (s *Service) Submit(ctx context.Context, rawID string) (*domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != document.StatusDraft {
		return nil, document.ErrInvalidTransition
	}

	var missing []string
	if invoice.InvoiceDate == nil {
		missing = append(missing, "invoice_date")
	}
	if invoice.ClientID == nil {
		missing = append(missing, "client_id")
	}
	if invoice.IncomeCategoryID == nil {
		missing = append(missing, "income_category_id")
	}
	if invoice.BankAccountID == nil {
		missing = append(missing, "bank_account_id")
	}
	if invoice.PreparedBy == nil {
		missing = append(missing, "prepared_by")
	}
	if invoice.ApprovedBy == nil {
		missing = append(missing, "approved_by")
	}
	if !hasBillableLine(invoice.LineItems) {
		missing = append(missing, "line_items")
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	invoice.Status = document.StatusForApproval
	invoice.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateHeader(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Approve moves for_approval to approved. Only the assigned approver
// may approve, and both the prepared_by and approved_by signature
// slots must already be filled.
func (s *Service) Approve(ctx context.Context, rawID string, actorID snowflake.ID) (*domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != document.StatusForApproval {
		return nil, document.ErrInvalidTransition
	}
	if invoice.ApprovedBy == nil || *invoice.ApprovedBy != actorID {
		return nil, document.ErrNotApprover
	}

	for _, role := range []document.Role{document.RolePreparedBy, document.RoleApprovedBy} {
		ok, err := s.signatures.Has(ctx, document.KindInvoice, invoice.ID, role)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, document.ErrSignatureMissing
		}
	}

	invoice.Status = document.StatusApproved
	invoice.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateHeader(ctx, s.db, invoice); err != nil {
		return nil, err
	}

	s.log.Info("invoice approved",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("approved_by", actorID.String()),
	)
	return invoice, nil
}

func (s *Service) Send(ctx context.Context, rawID string) (*domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != document.StatusApproved && invoice.Status != document.StatusPosted {
		return nil, document.ErrInvalidTransition
	}

	now := s.clock.Now()
	invoice.SentAt = &now
	invoice.UpdatedAt = now
	if err := s.repo.UpdateHeader(ctx, s.db, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) AttachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error) {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == document.StatusPosted {
		return nil, document.ErrDocumentPosted
	}
	if err := checkRoleOwner(invoice, role, actorID); err != nil {
		return nil, err
	}
	return s.signatures.Attach(ctx, signaturedomain.AttachRequest{
		Kind:       document.KindInvoice,
		DocumentID: invoice.ID,
		Role:       role,
		UserID:     actorID,
	})
}

func (s *Service) DetachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) error {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return err
	}
	if invoice.Status == document.StatusPosted {
		return document.ErrDocumentPosted
	}
	return s.signatures.Detach(ctx, document.KindInvoice, invoice.ID, role, actorID)
}

// getForWrite loads an invoice and rejects writes to posted ones.
// Posting is terminal: a linked document never becomes editable again.
func (s *Service) getForWrite(ctx context.Context, rawID string) (*domain.Invoice, error) {
	invoice, err := s.GetByID(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == document.StatusPosted {
		return nil, document.ErrDocumentPosted
	}
	return invoice, nil
}

func (s *Service) buildLineItems(invoiceID snowflake.ID, inputs []domain.LineItemInput, now time.Time) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(inputs))
	for i, in := range inputs {
		description := strings.TrimSpace(in.Description)
		if description == "" {
			return nil, domain.ErrInvalidLineItem
		}
		if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidLineItem
		}
		items = append(items, domain.LineItem{
			ID:          s.genID.Generate(),
			InvoiceID:   invoiceID,
			Description: description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      in.Quantity.Mul(in.UnitPrice).Round(2),
			Position:    i,
			CreatedAt:   now,
		})
	}
	return items, nil
}

func recomputeTotals(invoice *domain.Invoice) error {
	total := decimal.Zero
	for _, item := range invoice.LineItems {
		total = total.Add(item.Amount)
	}
	invoice.GrandTotal = total
	invoice.AmountDue = total.Sub(invoice.Discount)
	if invoice.AmountDue.IsNegative() {
		return domain.ErrNegativeAmountDue
	}
	return nil
}

func hasBillableLine(items []domain.LineItem) bool {
	for _, item := range items {
		if item.Description != "" && !item.Amount.IsZero() {
			return true
		}
	}
	return false
}

func checkRoleOwner(invoice *domain.Invoice, role document.Role, actorID snowflake.ID) error {
	switch role {
	case document.RolePreparedBy:
		if invoice.PreparedBy == nil || *invoice.PreparedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleApprovedBy:
		if invoice.ApprovedBy == nil || *invoice.ApprovedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleCheckedBy:
		// no assigned slot on invoices; any actor signs as themselves
	default:
		return signaturedomain.ErrInvalidRole
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	id, err := parseID(*value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
