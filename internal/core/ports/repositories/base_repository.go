package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager abstracts database transaction control so services can
// coordinate multi-repository work without knowing the pool.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
