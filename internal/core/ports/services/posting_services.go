package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// PostingSvc turns business events into balanced journal entries using the
// configured posting rules.
type PostingSvc interface {
	// Post records the event in the ledger. Posting the same event reference
	// twice returns the journal created the first time instead of a new one.
	Post(ctx context.Context, event domain.PostingEvent, userID string) (*domain.Journal, error)

	// Prepare resolves the event's posting rule into a validated, balanced
	// journal without persisting it, so callers can append it inside their
	// own database transaction.
	Prepare(ctx context.Context, event domain.PostingEvent, userID string) (*domain.PreparedPosting, error)

	// AppendPreparedInTx appends a prepared posting inside a caller-owned
	// transaction, applying account balance changes alongside.
	AppendPreparedInTx(ctx context.Context, tx pgx.Tx, prepared *domain.PreparedPosting) error
}
