package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Opposite returns the flipped side, used when building reversal journals.
func (t TransactionType) Opposite() TransactionType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// Transaction represents a single line item within a Journal, affecting one account.
// Amounts are always positive; the type carries the direction.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary key (UUID)
	JournalID       string          `json:"journalID"`     // FK -> Journal.JournalID
	AccountID       string          `json:"accountID"`     // FK -> Account.AccountID
	Amount          decimal.Decimal `json:"amount"`        // Positive value
	TransactionType TransactionType `json:"transactionType"`
	Notes           string          `json:"notes"`
	RunningBalance  decimal.Decimal `json:"runningBalance"` // Account balance after this line

	// Denormalized journal context, populated on account statements.
	JournalDescription string `json:"journalDescription,omitempty"`

	AuditFields
}

// Validate checks the structural invariants of a single transaction line.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return fmt.Errorf("transaction %s has no account reference", t.TransactionID)
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transaction amount must be positive for transaction %s", t.TransactionID)
	}
	if t.TransactionType != Debit && t.TransactionType != Credit {
		return fmt.Errorf("transaction %s has invalid type %q", t.TransactionID, t.TransactionType)
	}
	return nil
}
