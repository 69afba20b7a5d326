package services

import (
	"context"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its transactions.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals, newest first.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal validates balance and persists a new journal with its
	// transactions in one database transaction.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// ReverseJournal appends a reversal journal whose lines mirror the
	// original with debit and credit swapped, and links the pair. Reversing
	// an already reversed journal fails with ErrAlreadyReversed.
	ReverseJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
}

// TransactionReaderSvc defines read operations for journal lines
type TransactionReaderSvc interface {
	// ListTransactionsByAccount retrieves transactions touching an account.
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	TransactionReaderSvc
}
