package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// UncategorizedName is the bucket for invoices with no income category.
const UncategorizedName = "Uncategorized"

// BalanceWarning is surfaced on unbalanced previews. Imbalance warns
// but does not block generation.
const BalanceWarning = "Debits and Credits do not balance"

type LineType string

const (
	LineDebit  LineType = "debit"
	LineCredit LineType = "credit"
)

// PostingInvoice is the slice of an invoice the grouper needs. Total
// is the sum of the invoice's line items.
type PostingInvoice struct {
	ID            snowflake.ID
	InvoiceNumber string
	CategoryName  string
	ARCode        string
	Total         decimal.Decimal
}

// PostingLine is one row of the double-entry preview. Debit lines
// carry the invoice and its client A/R code as account title; credit
// lines carry the category name.
type PostingLine struct {
	Type          LineType        `json:"type"`
	AccountTitle  string          `json:"account_title"`
	InvoiceID     *snowflake.ID   `json:"invoice_id,string,omitempty"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	CategoryName  string          `json:"category_name"`
	Amount        decimal.Decimal `json:"amount"`
}

// CategoryBucket is one credit-side group, in first-seen order.
type CategoryBucket struct {
	Name     string           `json:"name"`
	Amount   decimal.Decimal  `json:"amount"`
	Invoices []PostingInvoice `json:"-"`
}

// Preview is the full output of grouping plus balance validation.
type Preview struct {
	Lines       []PostingLine    `json:"lines"`
	Buckets     []CategoryBucket `json:"categories"`
	DebitTotal  decimal.Decimal  `json:"debit_total"`
	CreditTotal decimal.Decimal  `json:"credit_total"`
	Warning     string           `json:"warning,omitempty"`
}

// Empty reports whether nothing survived grouping, in which case
// generation must be rejected.
func (p Preview) Empty() bool { return len(p.Buckets) == 0 }

// BuildPreview groups invoices by income category into posting lines.
//
// Buckets appear in the order their category was first seen in the
// input, and within a bucket each invoice's debit line precedes the
// bucket's single credit line. The rendering layer row-spans on this
// exact order, so it is part of the contract, not a presentation
// detail. Zero-total invoices are dropped before grouping.
func BuildPreview(invoices []PostingInvoice) Preview {
	var preview Preview
	index := make(map[string]int)

	for _, inv := range invoices {
		if inv.Total.IsZero() {
			continue
		}
		name := inv.CategoryName
		if name == "" {
			name = UncategorizedName
		}

		i, ok := index[name]
		if !ok {
			i = len(preview.Buckets)
			index[name] = i
			preview.Buckets = append(preview.Buckets, CategoryBucket{Name: name, Amount: decimal.Zero})
		}
		preview.Buckets[i].Invoices = append(preview.Buckets[i].Invoices, inv)
		preview.Buckets[i].Amount = preview.Buckets[i].Amount.Add(inv.Total)
	}

	for _, bucket := range preview.Buckets {
		for _, inv := range bucket.Invoices {
			id := inv.ID
			preview.Lines = append(preview.Lines, PostingLine{
				Type:          LineDebit,
				AccountTitle:  inv.ARCode,
				InvoiceID:     &id,
				InvoiceNumber: inv.InvoiceNumber,
				CategoryName:  bucket.Name,
				Amount:        inv.Total,
			})
			preview.DebitTotal = preview.DebitTotal.Add(inv.Total)
		}
		preview.Lines = append(preview.Lines, PostingLine{
			Type:         LineCredit,
			AccountTitle: bucket.Name,
			CategoryName: bucket.Name,
			Amount:       bucket.Amount,
		})
		preview.CreditTotal = preview.CreditTotal.Add(bucket.Amount)
	}

	if !preview.DebitTotal.Equal(preview.CreditTotal) {
		preview.Warning = BalanceWarning
	}
	return preview
}
