package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// JournalReader defines read operations for journals.
type JournalReader interface {
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	// FindJournalByReference returns the journal carrying the given posting
	// reference, or apperrors.ErrNotFound when none exists.
	FindJournalByReference(ctx context.Context, reference string) (*domain.Journal, error)
	ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journals. Journals are
// append-only: the only permitted mutation after insert is linking a reversal.
type JournalWriter interface {
	// SaveJournal atomically inserts the journal with its transactions and
	// applies the balance changes to the affected accounts.
	SaveJournal(ctx context.Context, journal *domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error
}

// JournalTransactionSupport defines journal operations that run inside a
// caller-owned database transaction.
type JournalTransactionSupport interface {
	// SaveJournalInTx is SaveJournal running inside a caller-owned transaction.
	SaveJournalInTx(ctx context.Context, tx pgx.Tx, journal *domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error
	// MarkJournalReversedInTx flips the original journal to REVERSED and links
	// the reversing journal. Returns apperrors.ErrAlreadyReversed when the
	// journal was reversed by a concurrent caller.
	MarkJournalReversedInTx(ctx context.Context, tx pgx.Tx, journalID string, reversingJournalID string, userID string, now time.Time) error
	// FoldAccountBalanceInTx is FoldAccountBalance running inside a caller-owned
	// transaction. Callers that hold the account row lock use it so the fold
	// cannot race concurrent postings against the same account.
	FoldAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// TransactionReader defines read operations for journal lines.
type TransactionReader interface {
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)
	FindTransactionsByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.Transaction, error)
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
	// FoldAccountBalance derives the account balance from the transaction log,
	// signed by the account's normal side. A nil asOf folds the whole log;
	// otherwise only journals dated at or before asOf are included.
	FoldAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)
}

// JournalRepositoryFacade combines journal and transaction access.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	TransactionReader
}

// JournalRepositoryWithTx extends the facade with transaction-scoped support.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	JournalTransactionSupport
}
