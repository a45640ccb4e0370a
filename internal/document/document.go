// Package document holds the lifecycle vocabulary shared by every
// approvable document type (billing invoices, journal entries, general
// vouchers): document kinds, statuses, signature roles, and the errors
// the approval flow raises.
package document

import "errors"

// Kind identifies which table a signature or link row points at.
type Kind string

const (
	KindInvoice        Kind = "billing_invoice"
	KindJournalEntry   Kind = "journal_entry"
	KindGeneralVoucher Kind = "general_voucher"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInvoice, KindJournalEntry, KindGeneralVoucher:
		return true
	}
	return false
}

// Status is the one-directional document lifecycle. posted is terminal:
// it is entered when a document is linked into a journal entry and no
// transition leaves it.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusForApproval Status = "for_approval"
	StatusApproved    Status = "approved"
	StatusPosted      Status = "posted"
)

// Role names the signature slot on a document.
type Role string

const (
	RolePreparedBy Role = "prepared_by"
	RoleApprovedBy Role = "approved_by"
	RoleCheckedBy  Role = "checked_by"
)

func (r Role) Valid() bool {
	switch r {
	case RolePreparedBy, RoleApprovedBy, RoleCheckedBy:
		return true
	}
	return false
}

var (
	ErrNotApprover       = errors.New("actor_not_approver")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrDocumentPosted    = errors.New("document_posted")
	ErrSignatureMissing  = errors.New("signature_missing")
)
