package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbooks/smallbooks/internal/document"
	invoicedomain "github.com/smallbooks/smallbooks/internal/invoice/domain"
	signaturedomain "github.com/smallbooks/smallbooks/internal/signature/domain"
)

var (
	ErrInvalidID      = errors.New("invalid_journal_entry_id")
	ErrNotFound       = errors.New("journal_entry_not_found")
	ErrNothingToPost  = errors.New("nothing_to_post")
	ErrAlreadyLinked  = errors.New("invoice_already_linked")
	ErrNotApprovedYet = errors.New("invoice_not_approved")
	// ErrReferenceConflict surfaces when two generations race on the
	// same month and the retry also loses.
	ErrReferenceConflict = errors.New("reference_conflict")
)

type PreviewRequest struct {
	InvoiceIDs []string `json:"invoice_ids"`
}

type GenerateRequest struct {
	EntryDate  time.Time `json:"entry_date"`
	PreparedBy string    `json:"prepared_by"`
	ApprovedBy string    `json:"approved_by"`
	Remarks    string    `json:"remarks"`
	InvoiceIDs []string  `json:"invoice_ids"`
}

// CategoryDetail is one credit group with the invoices posted under it.
type CategoryDetail struct {
	EntryCategory
	Invoices []*invoicedomain.Invoice `json:"invoices"`
}

// EntryDetail is an entry with its categories and linked invoices.
type EntryDetail struct {
	JournalEntry
	CategoryDetails []CategoryDetail `json:"category_details"`
}

type Service interface {
	List(ctx context.Context) ([]*JournalEntry, error)
	GetByID(ctx context.Context, id string) (*EntryDetail, error)

	// ListPostable returns approved invoices not yet linked to any
	// entry: the selectable pool for the next generation.
	ListPostable(ctx context.Context) ([]*invoicedomain.Invoice, error)
	Preview(ctx context.Context, req PreviewRequest) (*Preview, error)
	Generate(ctx context.Context, req GenerateRequest) (*EntryDetail, error)

	Approve(ctx context.Context, id string, actorID snowflake.ID) (*JournalEntry, error)
	AttachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) (*signaturedomain.Signature, error)
	DetachSignature(ctx context.Context, id string, role document.Role, actorID snowflake.ID) error
}
