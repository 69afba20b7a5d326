package accounting_test

import (
	"testing"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(accountID string, amount string, txnType domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		TransactionID:   "txn-" + accountID + "-" + string(txnType),
		AccountID:       accountID,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: txnType,
	}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name       string
		txnType    domain.TransactionType
		normalSide domain.NormalSide
		want       string
	}{
		{"debit to debit-normal account increases", domain.Debit, domain.NormalDebit, "100"},
		{"credit to debit-normal account decreases", domain.Credit, domain.NormalDebit, "-100"},
		{"credit to credit-normal account increases", domain.Credit, domain.NormalCredit, "100"},
		{"debit to credit-normal account decreases", domain.Debit, domain.NormalCredit, "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(txn("acc-1", "100", tt.txnType), tt.normalSide)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestCalculateSignedAmount_UnknownSide(t *testing.T) {
	_, err := accounting.CalculateSignedAmount(txn("acc-1", "100", domain.Debit), domain.NormalSide("SIDEWAYS"))
	assert.Error(t, err)
}

func TestValidateJournalBalance(t *testing.T) {
	tests := []struct {
		name    string
		txns    []domain.Transaction
		wantErr bool
	}{
		{
			name: "balanced pair",
			txns: []domain.Transaction{
				txn("ar", "100.00", domain.Debit),
				txn("rev", "100.00", domain.Credit),
			},
		},
		{
			name: "balanced three-way split with tax",
			txns: []domain.Transaction{
				txn("ar", "110.00", domain.Debit),
				txn("rev", "100.00", domain.Credit),
				txn("tax", "10.00", domain.Credit),
			},
		},
		{
			name: "unbalanced",
			txns: []domain.Transaction{
				txn("ar", "100.00", domain.Debit),
				txn("rev", "90.00", domain.Credit),
			},
			wantErr: true,
		},
		{
			name:    "single entry",
			txns:    []domain.Transaction{txn("ar", "100.00", domain.Debit)},
			wantErr: true,
		},
		{
			name:    "empty",
			txns:    nil,
			wantErr: true,
		},
		{
			name: "negative amount",
			txns: []domain.Transaction{
				txn("ar", "-100.00", domain.Debit),
				txn("rev", "-100.00", domain.Credit),
			},
			wantErr: true,
		},
		{
			name: "equal sums must be exact, not approximate",
			txns: []domain.Transaction{
				txn("ar", "100.001", domain.Debit),
				txn("rev", "100.00", domain.Credit),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateJournalBalance(tt.txns)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
