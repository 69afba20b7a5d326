package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/accounting"
)

type postingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryWithTx
	ruleRepo    portsrepo.PostingRuleRepository
	balanceSvc  portssvc.BalanceSvc
}

// NewPostingService creates the posting engine, which translates business
// events into balanced journals via the configured posting rules.
func NewPostingService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountRepositoryWithTx, ruleRepo portsrepo.PostingRuleRepository, balanceSvc portssvc.BalanceSvc) portssvc.PostingSvc {
	return &postingService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		ruleRepo:    ruleRepo,
		balanceSvc:  balanceSvc,
	}
}

func validatePostingEvent(event domain.PostingEvent) error {
	if event.Reference == "" {
		return fmt.Errorf("%w: posting event reference must not be empty", apperrors.ErrValidation)
	}
	if event.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: posting event amount must be positive", apperrors.ErrValidation)
	}
	if event.TaxAmount.IsNegative() {
		return fmt.Errorf("%w: posting event tax amount must not be negative", apperrors.ErrValidation)
	}
	if event.TaxAmount.GreaterThanOrEqual(event.Amount) {
		return fmt.Errorf("%w: tax amount must be less than the gross amount", apperrors.ErrValidation)
	}
	return nil
}

// Prepare resolves the event's rule into a validated, balanced journal
// without persisting it. The gross amount lands on the debit side; the
// credit side splits into net and tax when the event carries tax.
func (s *postingService) Prepare(ctx context.Context, event domain.PostingEvent, userID string) (*domain.PreparedPosting, error) {
	if err := validatePostingEvent(event); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.FindRuleByEventKind(ctx, event.Kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no posting rule for event kind %s", apperrors.ErrValidation, event.Kind)
		}
		return nil, err
	}

	codes := []string{rule.DebitAccountCode, rule.CreditAccountCode}
	hasTax := !event.TaxAmount.IsZero()
	if hasTax {
		if rule.TaxAccountCode == nil {
			return nil, fmt.Errorf("%w: event %s carries tax but rule %s has no tax account", apperrors.ErrValidation, event.Reference, event.Kind)
		}
		codes = append(codes, *rule.TaxAccountCode)
	}

	accountsByCode, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	for _, code := range codes {
		acc, found := accountsByCode[code]
		if !found {
			return nil, fmt.Errorf("%w: no account with code %s", apperrors.ErrUnknownAccount, code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, code)
		}
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	reference := event.Reference

	journal := domain.Journal{
		JournalID:   journalID,
		Reference:   &reference,
		JournalDate: event.Date,
		Description: event.Description,
		Status:      domain.Posted,
		Amount:      event.Amount,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	newLine := func(accountID string, amount decimal.Decimal, txnType domain.TransactionType) domain.Transaction {
		return domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       accountID,
			Amount:          amount,
			TransactionType: txnType,
			Notes:           event.Description,
			AuditFields:     domain.NewAuditFields(userID, now),
		}
	}

	debitAcc := accountsByCode[rule.DebitAccountCode]
	creditAcc := accountsByCode[rule.CreditAccountCode]

	transactions := []domain.Transaction{
		newLine(debitAcc.AccountID, event.Amount, domain.Debit),
	}
	if hasTax {
		taxAcc := accountsByCode[*rule.TaxAccountCode]
		transactions = append(transactions,
			newLine(creditAcc.AccountID, event.Amount.Sub(event.TaxAmount), domain.Credit),
			newLine(taxAcc.AccountID, event.TaxAmount, domain.Credit),
		)
	} else {
		transactions = append(transactions, newLine(creditAcc.AccountID, event.Amount, domain.Credit))
	}

	// Balanced by construction, re-checked before anything is persisted.
	if err := accounting.ValidateJournalBalance(transactions); err != nil {
		return nil, err
	}

	accountsByID := make(map[string]domain.Account, len(accountsByCode))
	for _, acc := range accountsByCode {
		accountsByID[acc.AccountID] = acc
	}
	balanceChanges, err := calculateBalanceChanges(transactions, accountsByID)
	if err != nil {
		return nil, err
	}

	return &domain.PreparedPosting{
		Journal:        journal,
		Transactions:   transactions,
		BalanceChanges: balanceChanges,
	}, nil
}

// Post records the event in the ledger. Posting an already seen reference
// returns the existing journal rather than creating a new one.
func (s *postingService) Post(ctx context.Context, event domain.PostingEvent, userID string) (*domain.Journal, error) {
	existing, err := s.findExisting(ctx, event.Reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.LogInfo(ctx, "posting event already recorded", slog.String("reference", event.Reference), slog.String("journal_id", existing.JournalID))
		return existing, nil
	}

	prepared, err := s.Prepare(ctx, event, userID)
	if err != nil {
		return nil, err
	}

	err = s.journalRepo.SaveJournal(ctx, &prepared.Journal, prepared.Transactions, prepared.BalanceChanges)
	if err != nil {
		// A concurrent poster won the unique reference race; their journal
		// is the answer.
		if errors.Is(err, apperrors.ErrDuplicate) {
			if winner, findErr := s.findExisting(ctx, event.Reference); findErr == nil && winner != nil {
				return winner, nil
			}
		}
		s.LogError(ctx, err, "failed to post event", slog.String("reference", event.Reference))
		return nil, err
	}

	s.invalidate(ctx, prepared.BalanceChanges)

	s.LogInfo(ctx, "event posted",
		slog.String("reference", event.Reference),
		slog.String("journal_id", prepared.Journal.JournalID))
	prepared.Journal.Transactions = prepared.Transactions
	return &prepared.Journal, nil
}

// AppendPreparedInTx appends a prepared posting inside a caller-owned
// transaction. The caller invalidates balance caches after commit.
func (s *postingService) AppendPreparedInTx(ctx context.Context, tx pgx.Tx, prepared *domain.PreparedPosting) error {
	return s.journalRepo.SaveJournalInTx(ctx, tx, &prepared.Journal, prepared.Transactions, prepared.BalanceChanges)
}

func (s *postingService) findExisting(ctx context.Context, reference string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journal.JournalID)
	if err != nil {
		return nil, err
	}
	journal.Transactions = transactions
	return journal, nil
}

func (s *postingService) invalidate(ctx context.Context, balanceChanges map[string]decimal.Decimal) {
	if s.balanceSvc == nil {
		return
	}
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	if err := s.balanceSvc.Invalidate(ctx, ids); err != nil {
		s.LogError(ctx, err, "failed to invalidate balance cache")
	}
}
