package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/accounting"
)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	accountSvc  portssvc.AccountReaderSvc
	txManager   portsrepo.TransactionManager
	balanceSvc  portssvc.BalanceSvc
}

// NewJournalService creates the journal service, the write path of the ledger.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountSvc portssvc.AccountReaderSvc, txManager portsrepo.TransactionManager, balanceSvc portssvc.BalanceSvc) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		txManager:   txManager,
		balanceSvc:  balanceSvc,
	}
}

// resolveAccounts fetches the accounts behind a set of transactions and
// rejects unknown or inactive ones.
func (s *journalService) resolveAccounts(ctx context.Context, transactions []domain.Transaction) (map[string]domain.Account, error) {
	idSet := make(map[string]struct{}, len(transactions))
	ids := make([]string, 0, len(transactions))
	for _, txn := range transactions {
		if _, seen := idSet[txn.AccountID]; !seen {
			idSet[txn.AccountID] = struct{}{}
			ids = append(ids, txn.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return accountsMap, nil
}

// calculateBalanceChanges nets the signed effect of each transaction per
// account, using the account's normal side.
func calculateBalanceChanges(transactions []domain.Transaction, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	balanceChanges := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		acc, ok := accounts[txn.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, txn.AccountID)
		}
		signedAmount, err := accounting.CalculateSignedAmount(txn, acc.NormalSide)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate signed amount for transaction %s: %w", txn.TransactionID, err)
		}
		balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(signedAmount)
	}
	return balanceChanges, nil
}

// CreateJournal validates a manual posting and appends it to the ledger.
func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", apperrors.ErrValidation)
	}

	if len(req.Transactions) < 2 {
		return nil, fmt.Errorf("%w: journal must have at least two transaction entries, got %d", apperrors.ErrEmptyTransaction, len(req.Transactions))
	}

	accountSet := make(map[string]bool)
	for _, txn := range req.Transactions {
		accountSet[txn.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, fmt.Errorf("%w: journal must involve at least two accounts", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	domainTransactions := make([]domain.Transaction, len(req.Transactions))
	for i, txnReq := range req.Transactions {
		domainTransactions[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       txnReq.AccountID,
			Amount:          txnReq.Amount,
			TransactionType: txnReq.TransactionType,
			Notes:           txnReq.Notes,
			AuditFields:     domain.NewAuditFields(creatorUserID, now),
		}
	}

	// Double-entry check: exact equality of debits and credits.
	if err := accounting.ValidateJournalBalance(domainTransactions); err != nil {
		return nil, err
	}

	accountsMap, err := s.resolveAccounts(ctx, domainTransactions)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := calculateBalanceChanges(domainTransactions, accountsMap)
	if err != nil {
		return nil, err
	}

	debits, _ := accounting.SumDebitsAndCredits(domainTransactions)
	journal := domain.Journal{
		JournalID:   journalID,
		JournalDate: req.Date,
		Description: req.Description,
		Status:      domain.Posted,
		Amount:      debits,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.journalRepo.SaveJournal(ctx, &journal, domainTransactions, balanceChanges); err != nil {
		s.LogError(ctx, err, "failed to save journal", slog.String("journal_id", journalID))
		return nil, err
	}

	s.invalidateBalances(ctx, balanceChanges)

	s.LogInfo(ctx, "journal created", slog.String("journal_id", journalID))
	journal.Transactions = domainTransactions
	return &journal, nil
}

// newReversingJournal builds the journal that exactly offsets the original:
// same accounts and amounts, debit and credit swapped, dated at reversal time
// so point-in-time balances before it are unaffected.
func newReversingJournal(original *domain.Journal, originalTransactions []domain.Transaction, userID string, now time.Time) (domain.Journal, []domain.Transaction) {
	newJournalID := uuid.NewString()

	reversingJournal := domain.Journal{
		JournalID:         newJournalID,
		JournalDate:       now,
		Description:       fmt.Sprintf("Reversal of: %s", original.Description),
		Status:            domain.Posted,
		OriginalJournalID: &original.JournalID,
		Amount:            original.Amount,
		AuditFields:       domain.NewAuditFields(userID, now),
	}

	reversingTransactions := make([]domain.Transaction, len(originalTransactions))
	for i, origTx := range originalTransactions {
		reversingTransactions[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       newJournalID,
			AccountID:       origTx.AccountID,
			Amount:          origTx.Amount,
			TransactionType: origTx.TransactionType.Opposite(),
			Notes:           origTx.Notes,
			AuditFields:     domain.NewAuditFields(userID, now),
		}
	}
	return reversingJournal, reversingTransactions
}

// ReverseJournal appends a reversal journal mirroring the original with debit
// and credit swapped, and marks the original reversed, atomically.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	originalJournal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if originalJournal.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyReversed, journalID)
	}
	if originalJournal.IsReversal() {
		return nil, fmt.Errorf("%w: cannot reverse a journal that is itself a reversal", apperrors.ErrConflict)
	}

	originalTransactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversingJournal, reversingTransactions := newReversingJournal(originalJournal, originalTransactions, userID, now)
	newJournalID := reversingJournal.JournalID

	accountsMap, err := s.resolveAccountsForReversal(ctx, reversingTransactions)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := calculateBalanceChanges(reversingTransactions, accountsMap)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	if err := s.journalRepo.SaveJournalInTx(ctx, tx, &reversingJournal, reversingTransactions, balanceChanges); err != nil {
		s.LogError(ctx, err, "failed to save reversing journal", slog.String("journal_id", newJournalID))
		return nil, err
	}
	// The status guard inside turns a concurrent double reversal into
	// ErrAlreadyReversed for the loser.
	if err := s.journalRepo.MarkJournalReversedInTx(ctx, tx, originalJournal.JournalID, newJournalID, userID, now); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidateBalances(ctx, balanceChanges)

	s.LogInfo(ctx, "journal reversed",
		slog.String("original_journal_id", journalID),
		slog.String("reversing_journal_id", newJournalID))
	reversingJournal.Transactions = reversingTransactions
	return &reversingJournal, nil
}

// resolveAccountsForReversal fetches accounts without the active check:
// reversing entries against a deactivated account must stay possible.
func (s *journalService) resolveAccountsForReversal(ctx context.Context, transactions []domain.Transaction) (map[string]domain.Account, error) {
	ids := make([]string, 0, len(transactions))
	seen := make(map[string]struct{}, len(transactions))
	for _, txn := range transactions {
		if _, ok := seen[txn.AccountID]; !ok {
			seen[txn.AccountID] = struct{}{}
			ids = append(ids, txn.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		if _, found := accountsMap[id]; !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, id)
		}
	}
	return accountsMap, nil
}

func (s *journalService) invalidateBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal) {
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

// GetJournalByID retrieves a journal with its transactions.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "failed to find journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	journal.Transactions = transactions
	return journal, nil
}

// ListJournals retrieves a page of journals, optionally with their lines.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, params.Limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		s.LogError(ctx, err, "failed to list journals")
		return nil, err
	}

	if params.IncludeTransactions && len(journals) > 0 {
		ids := make([]string, len(journals))
		for i, j := range journals {
			ids[i] = j.JournalID
		}
		grouped, err := s.journalRepo.FindTransactionsByJournalIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range journals {
			journals[i].Transactions = grouped[journals[i].JournalID]
		}
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		resp.Journals[i] = dto.ToJournalResponse(&journals[i])
	}
	return resp, nil
}

// ListTransactionsByAccount retrieves an account statement page.
func (s *journalService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	transactions, nextToken, err := s.journalRepo.ListTransactionsByAccountID(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}
