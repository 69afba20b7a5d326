package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/accounting"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/mapping"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/pagination"
)

const journalColumns = `journal_id, reference, journal_date, description, status, original_journal_id, reversing_journal_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, journal_id, account_id, amount, transaction_type, notes, running_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryWithTx
}

// newPgxJournalRepository creates a new repository for journal and transaction data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryWithTx) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveJournal appends a journal with its transactions and applies the balance
// deltas, all inside one database transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal *domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.SaveJournalInTx(ctx, tx, journal, transactions, balanceChanges); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveJournalInTx appends a journal inside a caller-owned transaction. The
// affected account rows are locked before their balances move, and each
// transaction line records the running balance it produced.
func (r *PgxJournalRepository) SaveJournalInTx(ctx context.Context, tx pgx.Tx, journal *domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	now := journal.CreatedAt
	userID := journal.CreatedBy

	modelJournal := mapping.ToModelJournal(*journal)
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.Reference,
		modelJournal.JournalDate,
		modelJournal.Description,
		modelJournal.Status,
		modelJournal.OriginalJournalID,
		modelJournal.ReversingJournalID,
		modelJournal.Amount,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "journals_reference_key" {
			ref := ""
			if modelJournal.Reference != nil {
				ref = *modelJournal.Reference
			}
			return fmt.Errorf("%w: journal with reference %s already exists", apperrors.ErrDuplicate, ref)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	// Lock the affected accounts in a stable order and capture their
	// balances before this journal's changes land.
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	currentRunningBalances := make(map[string]decimal.Decimal)
	for accID, lockedAcc := range lockedAccounts {
		currentRunningBalances[accID] = lockedAcc.Balance
	}

	// Deterministic line order so running balances replay identically.
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].TransactionID < transactions[j].TransactionID
	})

	for i := range transactions {
		txn := transactions[i]
		lockedAccount, ok := lockedAccounts[txn.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "internal error: locked account "+txn.AccountID+" not found during transaction processing", nil)
		}

		signedAmount, err := accounting.CalculateSignedAmount(txn, lockedAccount.NormalSide)
		if err != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for transaction "+txn.TransactionID, err)
		}

		newRunningBalance := currentRunningBalances[txn.AccountID].Add(signedAmount)
		currentRunningBalances[txn.AccountID] = newRunningBalance

		modelTxn := mapping.ToModelTransaction(txn)
		modelTxn.RunningBalance = newRunningBalance
		modelTxn.CreatedAt = now
		modelTxn.LastUpdatedAt = now
		modelTxn.CreatedBy = userID
		modelTxn.LastUpdatedBy = userID
		transactions[i].RunningBalance = newRunningBalance

		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.JournalID,
			modelTxn.AccountID,
			modelTxn.Amount,
			modelTxn.TransactionType,
			modelTxn.Notes,
			modelTxn.RunningBalance,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction batch for journal "+modelJournal.JournalID, err)
	}

	return nil
}

// MarkJournalReversedInTx flips the original journal to REVERSED and links
// the reversing journal. The status guard in the WHERE clause makes a lost
// race surface as ErrAlreadyReversed rather than a silent double reversal.
func (r *PgxJournalRepository) MarkJournalReversedInTx(ctx context.Context, tx pgx.Tx, journalID string, reversingJournalID string, userID string, now time.Time) error {
	query := `
		UPDATE journals
		SET status = 'REVERSED', reversing_journal_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = 'POSTED' AND reversing_journal_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, query, journalID, reversingJournalID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal "+journalID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindJournalByID(ctx, journalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyReversed, journalID)
	}
	return nil
}

func scanJournal(row pgx.Row) (*models.Journal, error) {
	var m models.Journal
	var reference, originalID, reversingID sql.NullString

	err := row.Scan(
		&m.JournalID,
		&reference,
		&m.JournalDate,
		&m.Description,
		&m.Status,
		&originalID,
		&reversingID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if reference.Valid {
		m.Reference = &reference.String
	}
	if originalID.Valid {
		m.OriginalJournalID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingJournalID = &reversingID.String
	}
	return &m, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(*m)
	return &domainJournal, nil
}

// FindJournalByReference retrieves the journal that posted a given event
// reference. This is what makes posting idempotent.
func (r *PgxJournalRepository) FindJournalByReference(ctx context.Context, reference string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE reference = $1;`

	m, err := scanJournal(r.Pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by reference "+reference, err)
	}

	domainJournal := mapping.ToDomainJournal(*m)
	return &domainJournal, nil
}

func scanTransaction(rows pgx.Rows) (*models.Transaction, error) {
	var t models.Transaction
	err := rows.Scan(
		&t.TransactionID,
		&t.JournalID,
		&t.AccountID,
		&t.Amount,
		&t.TransactionType,
		&t.Notes,
		&t.RunningBalance,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTransactionsByJournalID retrieves all transactions associated with a specific journal.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE journal_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal "+journalID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row for journal "+journalID, err)
		}
		transactions = append(transactions, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows for journal "+journalID, err)
	}

	return mapping.ToDomainTransactionSlice(transactions), nil
}

// FindTransactionsByJournalIDs retrieves transactions for several journals at
// once, grouped by journal ID.
func (r *PgxJournalRepository) FindTransactionsByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.Transaction, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.Transaction{}, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journals", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.Transaction)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row during batch fetch", err)
		}
		grouped[t.JournalID] = append(grouped[t.JournalID], mapping.ToDomainTransaction(*t))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows during batch fetch", err)
	}

	return grouped, nil
}

// ListJournals retrieves a paginated list of journals using token-based
// pagination, newest first. Reversal pairs are hidden unless asked for.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals`

	filterClause := `WHERE TRUE`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND reversing_journal_id IS NULL AND original_journal_id IS NULL`
	}

	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (journal_date, created_at) < ($1, $2)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	modelJournals := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		modelJournals = append(modelJournals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var nextTokenVal *string
	if len(modelJournals) > limit {
		last := modelJournals[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		nextTokenVal = &token
		modelJournals = modelJournals[:limit]
	}

	journals := make([]domain.Journal, len(modelJournals))
	for i, m := range modelJournals {
		journals[i] = mapping.ToDomainJournal(m)
	}
	return journals, nextTokenVal, nil
}

// ListTransactionsByAccountID retrieves a paginated account statement using
// token-based pagination, newest journal first.
func (r *PgxJournalRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT t.transaction_id, t.journal_id, t.account_id, t.amount, t.transaction_type, t.notes, t.running_balance,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, j.journal_date, j.description
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		WHERE t.account_id = $1
	`
	orderByClause := `ORDER BY j.journal_date DESC, t.created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{accountID}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (j.journal_date, t.created_at) < ($2, $3)`
		args = append(args, lastJournalDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.Notes,
			&t.RunningBalance,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
			&t.JournalDate,
			&t.JournalDescription,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		modelTxns = append(modelTxns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		nextTokenVal = &token
		modelTxns = modelTxns[:limit]
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nextTokenVal, nil
}

// FoldAccountBalance derives the balance for an account by folding the
// transaction log, signed by the account's normal side. This is the
// authoritative figure; the accounts.balance column is a cache of it.
func (r *PgxJournalRepository) FoldAccountBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	return r.foldAccountBalance(ctx, r.Pool, accountID, asOf)
}

// FoldAccountBalanceInTx is FoldAccountBalance running inside a caller-owned
// transaction, so the fold sees the same snapshot as locks the caller holds.
func (r *PgxJournalRepository) FoldAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	return r.foldAccountBalance(ctx, tx, accountID, asOf)
}

func (r *PgxJournalRepository) foldAccountBalance(ctx context.Context, q rowQuerier, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN t.transaction_type = a.normal_side THEN t.amount ELSE -t.amount END
		), 0)
		FROM transactions t
		JOIN accounts a ON a.account_id = t.account_id
		JOIN journals j ON j.journal_id = t.journal_id
		WHERE t.account_id = $1
	`
	args := []interface{}{accountID}
	if asOf != nil {
		query += ` AND j.journal_date <= $2`
		args = append(args, *asOf)
	}
	query += `;`

	var balance decimal.Decimal
	if err := q.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to fold balance for account "+accountID, err)
	}
	return balance, nil
}
