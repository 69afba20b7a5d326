package accounting

import (
	"fmt"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a transaction amount based
// on the account's normal balance side. A line on the account's normal side
// increases the balance, a line on the opposite side decreases it.
// This is used in both services and repositories to keep the sign convention
// in one place.
func CalculateSignedAmount(txn domain.Transaction, normalSide domain.NormalSide) (decimal.Decimal, error) {
	isDebit := txn.TransactionType == domain.Debit

	switch normalSide {
	case domain.NormalDebit:
		if isDebit {
			return txn.Amount, nil
		}
		return txn.Amount.Neg(), nil
	case domain.NormalCredit:
		if isDebit {
			return txn.Amount.Neg(), nil
		}
		return txn.Amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal side %q for account %s", normalSide, txn.AccountID)
	}
}

// SumDebitsAndCredits totals both sides of a set of transaction lines.
func SumDebitsAndCredits(transactions []domain.Transaction) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, txn := range transactions {
		if txn.TransactionType == domain.Debit {
			debits = debits.Add(txn.Amount)
		} else {
			credits = credits.Add(txn.Amount)
		}
	}
	return debits, credits
}

// ValidateJournalBalance checks the structural invariants of a journal's lines:
// at least two entries, positive amounts, and exactly equal debit and credit
// sums. It never rounds or tolerates drift; any imbalance is an error.
func ValidateJournalBalance(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return fmt.Errorf("%w: journal must have at least two transaction entries, got %d",
			apperrors.ErrEmptyTransaction, len(transactions))
	}

	for _, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
	}

	debits, credits := SumDebitsAndCredits(transactions)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}

	return nil
}
