package models

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

// Invoice is the db row for an invoice header.
type Invoice struct {
	InvoiceID      string          `db:"invoice_id"`
	CustomerID     string          `db:"customer_id"`
	BookingID      *string         `db:"booking_id"`
	Status         InvoiceStatus   `db:"status"`
	IssuedDate     *time.Time      `db:"issued_date"`
	DueDate        *time.Time      `db:"due_date"`
	IssueJournalID *string         `db:"issue_journal_id"`
	AmountPaid     decimal.Decimal `db:"amount_paid"`
	Version        int64           `db:"version"`
	AuditFields
}

// InvoiceLineItem is the db row for a billable line.
type InvoiceLineItem struct {
	LineItemID  string          `db:"line_item_id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    int64           `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TaxAmount   decimal.Decimal `db:"tax_amount"`
}

// InvoicePayment links a recorded payment to the journal that owns it.
type InvoicePayment struct {
	PaymentID  string          `db:"payment_id"`
	InvoiceID  string          `db:"invoice_id"`
	JournalID  string          `db:"journal_id"`
	Amount     decimal.Decimal `db:"amount"`
	ReceivedAt time.Time       `db:"received_at"`
}
