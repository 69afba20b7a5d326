package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingEventKind is the closed set of business events the posting engine
// knows how to translate into balanced journal entries. Voiding an issued
// invoice is not an event of its own: it reverses the issuance journal so the
// offset is exact, tax lines included.
type PostingEventKind string

const (
	EventInvoiceIssued   PostingEventKind = "invoice-issued"
	EventPaymentReceived PostingEventKind = "payment-received"
)

// PostingEvent is a business event to be recorded in the ledger.
// Reference uniquely identifies the logical event: posting the same reference
// twice returns the journal created the first time.
type PostingEvent struct {
	Kind        PostingEventKind
	Reference   string
	Description string
	Date        time.Time
	Amount      decimal.Decimal // Gross amount moved by the event
	TaxAmount   decimal.Decimal // Portion of Amount routed to the tax account, zero when untaxed
}

// PostingRule maps an event kind to the chart-of-accounts codes it debits and
// credits. Rules are configuration: they reference codes rather than account
// ids so the chart can be rebuilt without touching them.
type PostingRule struct {
	EventKind         PostingEventKind `json:"eventKind"`
	DebitAccountCode  string           `json:"debitAccountCode"`
	CreditAccountCode string           `json:"creditAccountCode"`
	TaxAccountCode    *string          `json:"taxAccountCode,omitempty"`
	AuditFields
}

// PreparedPosting is a fully validated, balanced journal ready to be appended,
// either standalone or inside a caller-owned database transaction.
type PreparedPosting struct {
	Journal        Journal
	Transactions   []Transaction
	BalanceChanges map[string]decimal.Decimal
}

// Payment records one received payment against an invoice and the journal
// that owns the corresponding ledger movement.
type Payment struct {
	PaymentID  string          `json:"paymentID"`
	InvoiceID  string          `json:"invoiceID"`
	JournalID  string          `json:"journalID"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// BalanceDrift reports a mismatch between the denormalized account balance
// and the fold over the transaction log.
type BalanceDrift struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Stored    decimal.Decimal `json:"stored"`
	Computed  decimal.Decimal `json:"computed"`
}

// InDrift reports whether the stored and computed balances disagree.
func (d BalanceDrift) InDrift() bool {
	return !d.Stored.Equal(d.Computed)
}
