package models

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

// Journal is the db row for a balanced financial event.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	Reference          *string         `db:"reference"` // Nullable, unique when set
	JournalDate        time.Time       `db:"journal_date"`
	Description        string          `db:"description"`
	Status             JournalStatus   `db:"status"`
	OriginalJournalID  *string         `db:"original_journal_id"`
	ReversingJournalID *string         `db:"reversing_journal_id"`
	Amount             decimal.Decimal `db:"amount"`
	AuditFields
}
