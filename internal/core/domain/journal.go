package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a single, balanced financial event composed of multiple
// transaction lines. Journals are append-only: corrections happen by posting
// a linked reversal, never by mutating entries.
type Journal struct {
	JournalID   string        `json:"journalID"`           // Primary key (UUID)
	Reference   *string       `json:"reference,omitempty"` // Idempotency reference of the originating event, unique when set
	JournalDate time.Time     `json:"journalDate"`         // Date the event occurred
	Description string        `json:"description"`
	Status      JournalStatus `json:"status"` // Default: POSTED

	// Reversal links. A reversed journal points at its reversal and vice versa.
	OriginalJournalID  *string `json:"originalJournalID,omitempty"`
	ReversingJournalID *string `json:"reversingJournalID,omitempty"`

	// Amount is the economic value of the journal (the debit-side sum).
	Amount decimal.Decimal `json:"amount"`

	// Transactions are usually loaded separately.
	Transactions []Transaction `json:"transactions,omitempty"`

	AuditFields
}

// IsReversal reports whether this journal was created to reverse another one.
func (j *Journal) IsReversal() bool {
	return j.OriginalJournalID != nil
}
