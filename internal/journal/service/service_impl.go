package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	clientdomain "github.com/smallbooks/smallbooks/internal/client/domain"
	"github.com/smallbooks/smallbooks/internal/clock"
	"github.com/smallbooks/smallbooks/internal/document"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	"github.com/smallbooks/smallbooks/internal/journal/domain"
	"github.com/smallbooks/smallbooks/internal/observability/metrics"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
	pkgdb "github.com/smallbooks/smallbooks/pkg/db"
	"github.com/smallbooks/smallbooks/pkg/db/pagination"
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
	InvoiceRepo invoicedomain.Repository
	ClientRepo  clientdomain.Repository
	Signatures  signaturedomain.Service
	Metrics     *metrics.HTTPMetrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	invoiceRepo invoicedomain.Repository
	clientRepo  clientdomain.Repository
	signatures  signaturedomain.Service
	metrics     *metrics.HTTPMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("journal.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		invoiceRepo: p.InvoiceRepo,
		clientRepo:  p.ClientRepo,
		signatures:  p.Signatures,
		metrics:     p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	return s.repo.ListEntries(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, rawID string) (*domain.EntryDetail, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindEntryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}

	links, err := s.repo.ListLinksByEntry(ctx, s.db, entry.ID)
	if err != nil {
		return nil, err
	}
	invoiceIDs := make([]snowflake.ID, 0, len(links))
	for _, link := range links {
		invoiceIDs = append(invoiceIDs, link.InvoiceID)
	}
	invoices, err := s.invoiceRepo.FindByIDs(ctx, s.db, invoiceIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]*invoicedomain.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	detail := domain.EntryDetail{JournalEntry: *entry}
	for _, category := range entry.Categories {
		cd := domain.CategoryDetail{EntryCategory: category}
		for _, link := range links {
			if link.EntryCategoryID != category.ID {
				continue
			}
			if inv, ok := byID[link.InvoiceID]; ok {
				cd.Invoices = append(cd.Invoices, inv)
			}
		}
		detail.CategoryDetails = append(detail.CategoryDetails, cd)
	}
	return &detail, nil
}

func (s *Service) ListPostable(ctx context.Context) ([]*invoicedomain.Invoice, error) {
	approved, err := s.invoiceRepo.List(ctx, s.db, document.StatusApproved, pagination.Pagination{})
	if err != nil {
		return nil, err
	}
	linked, err := s.repo.AllLinkedInvoiceIDs(ctx, s.db)
	if err != nil {
		return nil, err
	}

	pool := make([]*invoicedomain.Invoice, 0, len(approved))
	for _, inv := range approved {
		if linked[inv.ID] {
			continue
		}
		pool = append(pool, inv)
	}
	return pool, nil
}

func (s *Service) Preview(ctx context.Context, req domain.PreviewRequest) (*domain.Preview, error) {
	selection, err := s.loadSelection(ctx, req.InvoiceIDs)
	if err != nil {
		return nil, err
	}
	preview := domain.BuildPreview(selection)
	return &preview, nil
}

// Generate commits one posting batch: entry header, category rows with
// a consecutive GJV reference block, and one link row per invoice, all
// in a single transaction. Linked invoices flip to posted inside the
// same transaction.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.EntryDetail, error) {
	preparedBy, err := parseID(req.PreparedBy)
	if err != nil {
		return nil, err
	}
	approvedBy, err := parseID(req.ApprovedBy)
	if err != nil {
		return nil, err
	}

	selection, err := s.loadSelection(ctx, req.InvoiceIDs)
	if err != nil {
		return nil, err
	}
	preview := domain.BuildPreview(selection)
	if preview.Empty() {
		return nil, domain.ErrNothingToPost
	}

	detail, err := s.generateOnce(ctx, req, preparedBy, approvedBy, preview)
	if pkgdb.IsDuplicateKeyErr(err) {
		// A concurrent generation took our reference (or one of our
		// invoices). Re-scan once; a second collision is surfaced.
		detail, err = s.generateOnce(ctx, req, preparedBy, approvedBy, preview)
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrReferenceConflict
		}
	}
	if err != nil {
		return nil, err
	}

	linked := 0
	for _, bucket := range preview.Buckets {
		linked += len(bucket.Invoices)
	}
	s.metrics.RecordJournalEntry(linked)
	s.log.Info("journal entry generated",
		zap.String("entry_id", detail.ID.String()),
		zap.String("entry_number", detail.EntryNumber),
		zap.Int("categories", len(detail.CategoryDetails)),
		zap.Int("invoices", linked),
	)
	return detail, nil
}

func (s *Service) generateOnce(ctx context.Context, req domain.GenerateRequest, preparedBy, approvedBy snowflake.ID, preview domain.Preview) (*domain.EntryDetail, error) {
	now := s.clock.Now()
	var detail *domain.EntryDetail

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		selectedIDs := make([]snowflake.ID, 0)
		for _, bucket := range preview.Buckets {
			for _, inv := range bucket.Invoices {
				selectedIDs = append(selectedIDs, inv.ID)
			}
		}
		linked, err := s.repo.FindLinkedInvoiceIDs(ctx, tx, selectedIDs)
		if err != nil {
			return err
		}
		if len(linked) > 0 {
			return domain.ErrAlreadyLinked
		}

		entryPrefix := domain.MonthPrefix(domain.EntryTag, req.EntryDate)
		maxEntry, err := s.repo.FindMaxEntryNumber(ctx, tx, entryPrefix)
		if err != nil {
			return err
		}
		entryNumber, err := domain.NextReference(entryPrefix, maxEntry)
		if err != nil {
			return err
		}

		entry := domain.JournalEntry{
			ID:          s.genID.Generate(),
			EntryNumber: entryNumber,
			EntryDate:   req.EntryDate,
			Status:      document.StatusApproved,
			PreparedBy:  &preparedBy,
			ApprovedBy:  &approvedBy,
			Remarks:     strings.TrimSpace(req.Remarks),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.InsertEntry(ctx, tx, &entry); err != nil {
			return err
		}

		categoryPrefix := domain.MonthPrefix(domain.CategoryTag, req.EntryDate)
		maxCategory, err := s.repo.FindMaxCategoryReference(ctx, tx, categoryPrefix)
		if err != nil {
			return err
		}
		refs, err := domain.ReferenceBlock(categoryPrefix, maxCategory, len(preview.Buckets))
		if err != nil {
			return err
		}

		categories := make([]domain.EntryCategory, 0, len(preview.Buckets))
		for i, bucket := range preview.Buckets {
			categories = append(categories, domain.EntryCategory{
				ID:             s.genID.Generate(),
				JournalEntryID: entry.ID,
				CategoryName:   bucket.Name,
				Reference:      refs[i],
				Amount:         bucket.Amount,
				CreatedAt:      now,
			})
		}
		if err := s.repo.InsertCategories(ctx, tx, categories); err != nil {
			return err
		}

		links := make([]domain.InvoiceLink, 0, len(selectedIDs))
		for i, bucket := range preview.Buckets {
			for _, inv := range bucket.Invoices {
				links = append(links, domain.InvoiceLink{
					ID:              s.genID.Generate(),
					JournalEntryID:  entry.ID,
					EntryCategoryID: categories[i].ID,
					InvoiceID:       inv.ID,
					CreatedAt:       now,
				})
			}
		}
		if err := s.repo.InsertLinks(ctx, tx, links); err != nil {
			return err
		}
		if err := s.repo.MarkInvoicesPosted(ctx, tx, selectedIDs, now); err != nil {
			return err
		}

		entry.Categories = categories
		invoices, err := s.invoiceRepo.FindByIDs(ctx, tx, selectedIDs)
		if err != nil {
			return err
		}
		byID := make(map[snowflake.ID]*invoicedomain.Invoice, len(invoices))
		for _, inv := range invoices {
			byID[inv.ID] = inv
		}

		detail = &domain.EntryDetail{JournalEntry: entry}
		for i, bucket := range preview.Buckets {
			cd := domain.CategoryDetail{EntryCategory: categories[i]}
			for _, inv := range bucket.Invoices {
				if full, ok := byID[inv.ID]; ok {
					cd.Invoices = append(cd.Invoices, full)
				}
			}
			detail.CategoryDetails = append(detail.CategoryDetails, cd)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) Approve(ctx context.Context, rawID string, actorID snowflake.ID) (*domain.JournalEntry, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindEntryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if entry.Status != document.StatusForApproval {
		return nil, document.ErrInvalidTransition
	}
	if entry.ApprovedBy == nil || *entry.ApprovedBy != actorID {
		return nil, document.ErrNotApprover
	}

	for _, role := range []document.Role{document.RolePreparedBy, document.RoleApprovedBy} {
		ok, err := s.signatures.Has(ctx, document.KindJournalEntry, entry.ID, role)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, document.ErrSignatureMissing
		}
	}

	entry.Status = document.StatusApproved
	entry.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateEntry(ctx, s.db, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) AttachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error) {
	entry, err := s.findEntry(ctx, rawID)
	if err != nil {
		return nil, err
	}
	if err := checkRoleOwner(entry, role, actorID); err != nil {
		return nil, err
	}
	return s.signatures.Attach(ctx, signaturedomain.AttachRequest{
		Kind:       document.KindJournalEntry,
		DocumentID: entry.ID,
		Role:       role,
		UserID:     actorID,
	})
}

func (s *Service) DetachSignature(ctx context.Context, rawID string, role document.Role, actorID snowflake.ID) error {
	entry, err := s.findEntry(ctx, rawID)
	if err != nil {
		return err
	}
	return s.signatures.Detach(ctx, document.KindJournalEntry, entry.ID, role, actorID)
}

// loadSelection resolves invoice ids into grouper inputs topped up
// with category names and client A/R codes. Every selected invoice
// must exist, be approved, and not already be linked.
func (s *Service) loadSelection(ctx context.Context, rawIDs []string) ([]domain.PostingInvoice, error) {
	ids := make([]snowflake.ID, 0, len(rawIDs))
	seen := make(map[snowflake.ID]bool, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			return nil, invoicedomain.ErrInvalidID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, domain.ErrNothingToPost
	}

	invoices, err := s.invoiceRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]*invoicedomain.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	linked, err := s.repo.FindLinkedInvoiceIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	categoryNames, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	arCodes, err := s.clientARCodes(ctx)
	if err != nil {
		return nil, err
	}

	selection := make([]domain.PostingInvoice, 0, len(ids))
	for _, id := range ids {
		inv, ok := byID[id]
		if !ok {
			return nil, invoicedomain.ErrNotFound
		}
		if linked[id] || inv.Status == document.StatusPosted {
			return nil, domain.ErrAlreadyLinked
		}
		if inv.Status != document.StatusApproved {
			return nil, domain.ErrNotApprovedYet
		}

		total := decimal.Zero
		for _, item := range inv.LineItems {
			total = total.Add(item.Amount)
		}
		posting := domain.PostingInvoice{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Total:         total,
		}
		if inv.IncomeCategoryID != nil {
			posting.CategoryName = categoryNames[*inv.IncomeCategoryID]
		}
		if inv.ClientID != nil {
			posting.ARCode = arCodes[*inv.ClientID]
		}
		selection = append(selection, posting)
	}
	return selection, nil
}

func (s *Service) categoryNames(ctx context.Context) (map[snowflake.ID]string, error) {
	categories, err := s.clientRepo.ListCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	names := make(map[snowflake.ID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *Service) clientARCodes(ctx context.Context) (map[snowflake.ID]string, error) {
	clients, err := s.clientRepo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	codes := make(map[snowflake.ID]string, len(clients))
	for _, c := range clients {
		codes[c.ID] = c.ARCode
	}
	return codes, nil
}

func (s *Service) findEntry(ctx context.Context, rawID string) (*domain.JournalEntry, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindEntryByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

func checkRoleOwner(entry *domain.JournalEntry, role document.Role, actorID snowflake.ID) error {
	switch role {
	case document.RolePreparedBy:
		if entry.PreparedBy == nil || *entry.PreparedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleApprovedBy:
		if entry.ApprovedBy == nil || *entry.ApprovedBy != actorID {
			return signaturedomain.ErrNotRoleOwner
		}
	case document.RoleCheckedBy:
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
