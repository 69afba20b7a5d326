package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "DRAFT"
	InvoiceIssued        InvoiceStatus = "ISSUED"
	InvoicePartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoicePaid          InvoiceStatus = "PAID"
	InvoiceVoided        InvoiceStatus = "VOIDED"
)

// InvoiceLineItem is one billable line on an invoice. TaxAmount is optional
// and zero when the line is untaxed.
type InvoiceLineItem struct {
	LineItemID  string          `json:"lineItemID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// Net returns quantity * unit price for the line, excluding tax.
func (li InvoiceLineItem) Net() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// Invoice belongs to a customer and optionally references the rental booking
// that produced it. Monetary truth lives in the ledger: AmountPaid is a
// denormalized value that must reconcile with the linked payment journals.
type Invoice struct {
	InvoiceID  string            `json:"invoiceID"` // Primary key (UUID)
	CustomerID string            `json:"customerID"`
	BookingID  *string           `json:"bookingID,omitempty"`
	Status     InvoiceStatus     `json:"status"`
	LineItems  []InvoiceLineItem `json:"lineItems,omitempty"`

	IssuedDate *time.Time `json:"issuedDate,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`

	// Journal links (weak references, the ledger owns the journals).
	IssueJournalID    *string  `json:"issueJournalID,omitempty"`
	PaymentJournalIDs []string `json:"paymentJournalIDs,omitempty"`

	AmountPaid decimal.Decimal `json:"amountPaid"`

	// Version guards concurrent state updates (optimistic check under the row lock).
	Version int64 `json:"version"`

	AuditFields
}

// NetTotal is the sum of line nets, excluding tax.
func (i *Invoice) NetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range i.LineItems {
		total = total.Add(li.Net())
	}
	return total
}

// TaxTotal is the sum of line tax amounts.
func (i *Invoice) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range i.LineItems {
		total = total.Add(li.TaxAmount)
	}
	return total
}

// Total is the gross invoice amount (net + tax).
func (i *Invoice) Total() decimal.Decimal {
	return i.NetTotal().Add(i.TaxTotal())
}

// Outstanding is the gross total minus payments recorded so far.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.Total().Sub(i.AmountPaid)
}

// IsTerminal reports whether the invoice can no longer change state.
func (i *Invoice) IsTerminal() bool {
	return i.Status == InvoicePaid || i.Status == InvoiceVoided
}

// CanVoid reports whether voiding is allowed: only drafts and issued invoices
// with no payments recorded. Once money has moved, the invoice stays.
func (i *Invoice) CanVoid() bool {
	if i.Status == InvoiceDraft {
		return true
	}
	return i.Status == InvoiceIssued && i.AmountPaid.IsZero()
}

// CanRecordPayment reports whether the invoice accepts payments in its current state.
func (i *Invoice) CanRecordPayment() bool {
	return i.Status == InvoiceIssued || i.Status == InvoicePartiallyPaid
}
