package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalSide is the side on which an account naturally increases.
// It is fixed at creation together with the account type.
type NormalSide string

const (
	NormalDebit  NormalSide = "DEBIT"
	NormalCredit NormalSide = "CREDIT"
)

// NormalSideFor returns the conventional normal balance side for an account
// type. ASSET/EXPENSE accounts grow on the debit side,
// LIABILITY/EQUITY/REVENUE on the credit side. Unknown types return the
// empty string so callers can reject them.
func NormalSideFor(t AccountType) NormalSide {
	switch t {
	case Asset, Expense:
		return NormalDebit
	case Liability, Equity, Revenue:
		return NormalCredit
	default:
		return ""
	}
}

// Account represents a ledger account within the chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID   string          `json:"accountID"`   // Primary key (UUID)
	Code        string          `json:"code"`        // Unique chart-of-accounts code (e.g. "1100")
	Name        string          `json:"name"`        // Human readable name
	AccountType AccountType     `json:"accountType"` // Immutable after creation
	NormalSide  NormalSide      `json:"normalSide"`  // Immutable after creation
	Description string          `json:"description"` // Optional
	IsActive    bool            `json:"isActive"`    // Soft flag; accounts with postings are never deleted
	Balance     decimal.Decimal `json:"balance"`     // Denormalized; authoritative value is the transaction fold
	AuditFields
}
