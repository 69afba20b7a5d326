package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction is the db row for a single line item within a journal.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"` // Positive value
	TransactionType TransactionType `db:"transaction_type"`
	Notes           string          `db:"notes"`
	RunningBalance  decimal.Decimal `db:"running_balance"`

	// Joined journal context for account statements, not columns of its own table.
	JournalDate        time.Time `db:"journal_date"`
	JournalDescription string    `db:"journal_description"`

	AuditFields
}
