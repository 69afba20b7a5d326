package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// BalanceSvc derives account balances from the transaction log. The stored
// account balance and the cache are conveniences; the fold is authoritative.
type BalanceSvc interface {
	// GetBalance returns the account balance derived from the log. A nil asOf
	// means current balance; otherwise journals dated after asOf are excluded.
	GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// Invalidate drops cached balances for the given accounts. Called after
	// every journal append touching them.
	Invalidate(ctx context.Context, accountIDs []string) error

	// VerifyAccount compares the stored balance against the fold.
	VerifyAccount(ctx context.Context, accountID string) (*domain.BalanceDrift, error)

	// VerifyAll scans the whole chart and reports every account in drift.
	VerifyAll(ctx context.Context) ([]domain.BalanceDrift, error)

	// RebuildAccount recomputes the stored balance and cache from the log.
	RebuildAccount(ctx context.Context, accountID string, userID string) (decimal.Decimal, error)
}
