package models

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
type NormalSide string

const (
	NormalDebit  NormalSide = "DEBIT"
	NormalCredit NormalSide = "CREDIT"
)

// Account is the db row for a ledger account.
type Account struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"` // Unique chart-of-accounts code
	Name        string          `db:"name"`
	AccountType AccountType     `db:"account_type"`
	NormalSide  NormalSide      `db:"normal_side"`
	Description string          `db:"description"`
	IsActive    bool            `db:"is_active"`
	Balance     decimal.Decimal `db:"balance"` // Denormalized, reconciled against the transaction fold
	AuditFields
}
