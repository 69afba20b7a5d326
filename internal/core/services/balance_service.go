package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
)

const balanceCacheTTL = 5 * time.Minute

type balanceService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryWithTx
	txManager   portsrepo.TransactionManager
	redisClient *redis.Client
}

// NewBalanceService creates the balance resolver. Balances are always
// derived by folding the transaction log; the redis cache and the stored
// account balance are reconstructible conveniences. A nil redis client
// disables caching without changing behaviour.
func NewBalanceService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountRepositoryWithTx, txManager portsrepo.TransactionManager, redisClient *redis.Client) portssvc.BalanceSvc {
	return &balanceService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		redisClient: redisClient,
	}
}

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}

// GetBalance returns the account balance derived from the log. Current
// balances are memoized in redis; historical (asOf) queries always fold.
func (s *balanceService) GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	if asOf != nil {
		return s.journalRepo.FoldAccountBalance(ctx, accountID, asOf)
	}

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, balanceCacheKey(accountID)).Result()
		if err == nil {
			if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
				return balance, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.LogDebug(ctx, "balance cache read failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
	}

	balance, err := s.journalRepo.FoldAccountBalance(ctx, accountID, nil)
	if err != nil {
		return decimal.Zero, err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, balanceCacheKey(accountID), balance.String(), balanceCacheTTL).Err(); err != nil {
			s.LogDebug(ctx, "balance cache write failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
	}

	return balance, nil
}

// Invalidate drops cached balances for the given accounts.
func (s *balanceService) Invalidate(ctx context.Context, accountIDs []string) error {
	if s.redisClient == nil || len(accountIDs) == 0 {
		return nil
	}
	keys := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		keys[i] = balanceCacheKey(id)
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to drop balance cache keys: %w", err)
	}
	return nil
}

// VerifyAccount compares the stored balance column against the fold.
func (s *balanceService) VerifyAccount(ctx context.Context, accountID string) (*domain.BalanceDrift, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	computed, err := s.journalRepo.FoldAccountBalance(ctx, accountID, nil)
	if err != nil {
		return nil, err
	}

	return &domain.BalanceDrift{
		AccountID: account.AccountID,
		Code:      account.Code,
		Stored:    account.Balance,
		Computed:  computed,
	}, nil
}

// VerifyAll scans the chart and reports every account whose stored balance
// disagrees with the fold.
func (s *balanceService) VerifyAll(ctx context.Context) ([]domain.BalanceDrift, error) {
	const pageSize = 100

	drifts := []domain.BalanceDrift{}
	for offset := 0; ; offset += pageSize {
		accounts, err := s.accountRepo.ListAccounts(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, account := range accounts {
			computed, err := s.journalRepo.FoldAccountBalance(ctx, account.AccountID, nil)
			if err != nil {
				return nil, err
			}
			drift := domain.BalanceDrift{
				AccountID: account.AccountID,
				Code:      account.Code,
				Stored:    account.Balance,
				Computed:  computed,
			}
			if drift.InDrift() {
				drifts = append(drifts, drift)
			}
		}
		if len(accounts) < pageSize {
			break
		}
	}
	return drifts, nil
}

// RebuildAccount recomputes the stored balance from the log and refreshes
// the cache. Used after drift is found or a cache store is lost.
func (s *balanceService) RebuildAccount(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer s.txManager.Rollback(ctx, tx)

	locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{accountID})
	if err != nil {
		return decimal.Zero, err
	}
	account, ok := locked[accountID]
	if !ok {
		return decimal.Zero, apperrors.ErrNotFound
	}

	// Fold while holding the row lock: postings serialize on the same lock,
	// so the computed figure cannot miss a journal committed mid-rebuild.
	computed, err := s.journalRepo.FoldAccountBalanceInTx(ctx, tx, accountID, nil)
	if err != nil {
		return decimal.Zero, err
	}

	delta := computed.Sub(account.Balance)
	if !delta.IsZero() {
		now := time.Now().UTC()
		changes := map[string]decimal.Decimal{accountID: delta}
		if err := s.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
			return decimal.Zero, err
		}
		s.LogInfo(ctx, "stored balance rebuilt",
			slog.String("account_id", accountID),
			slog.String("previous", account.Balance.String()),
			slog.String("computed", computed.String()))
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return decimal.Zero, err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Set(ctx, balanceCacheKey(accountID), computed.String(), balanceCacheTTL).Err(); err != nil {
			s.LogDebug(ctx, "balance cache refresh failed", slog.String("account_id", accountID), slog.String("error", err.Error()))
		}
	}

	return computed, nil
}
