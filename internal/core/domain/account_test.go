package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

func TestNormalSideFor(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		want        domain.NormalSide
	}{
		{"asset is debit normal", domain.Asset, domain.NormalDebit},
		{"expense is debit normal", domain.Expense, domain.NormalDebit},
		{"liability is credit normal", domain.Liability, domain.NormalCredit},
		{"equity is credit normal", domain.Equity, domain.NormalCredit},
		{"revenue is credit normal", domain.Revenue, domain.NormalCredit},
		{"unknown type has no normal side", domain.AccountType("SUSPENSE"), domain.NormalSide("")},
		{"empty type has no normal side", domain.AccountType(""), domain.NormalSide("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NormalSideFor(tt.accountType))
		})
	}
}
