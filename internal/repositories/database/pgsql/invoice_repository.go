package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/mapping"
)

const invoiceColumns = `invoice_id, customer_id, booking_id, status, issued_date, due_date, issue_journal_id, amount_paid, version, created_at, created_by, last_updated_at, last_updated_by`

const lineItemColumns = `line_item_id, invoice_id, description, quantity, unit_price, tax_amount`

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for invoice data.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	var bookingID, issueJournalID sql.NullString
	var issuedDate, dueDate sql.NullTime

	err := row.Scan(
		&m.InvoiceID,
		&m.CustomerID,
		&bookingID,
		&m.Status,
		&issuedDate,
		&dueDate,
		&issueJournalID,
		&m.AmountPaid,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	if bookingID.Valid {
		m.BookingID = &bookingID.String
	}
	if issueJournalID.Valid {
		m.IssueJournalID = &issueJournalID.String
	}
	if issuedDate.Valid {
		m.IssuedDate = &issuedDate.Time
	}
	if dueDate.Valid {
		m.DueDate = &dueDate.Time
	}
	return &m, nil
}

// SaveInvoice inserts a new invoice header with its line items atomically.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice *domain.Invoice) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(*invoice)
	headerQuery := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.InvoiceID,
		m.CustomerID,
		m.BookingID,
		m.Status,
		m.IssuedDate,
		m.DueDate,
		m.IssueJournalID,
		m.AmountPaid,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice with ID %s already exists", apperrors.ErrDuplicate, m.InvoiceID)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO invoice_line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, item := range invoice.LineItems {
		lm := mapping.ToModelLineItem(item)
		batch.Queue(lineQuery,
			lm.LineItemID,
			lm.InvoiceID,
			lm.Description,
			lm.Quantity,
			lm.UnitPrice,
			lm.TaxAmount,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert line items for invoice "+m.InvoiceID, err)
		}
	}

	return r.Commit(ctx, tx)
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PgxInvoiceRepository) loadLineItems(ctx context.Context, q rowQuerier, invoiceID string) ([]domain.InvoiceLineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM invoice_line_items
		WHERE invoice_id = $1
		ORDER BY line_item_id;
	`
	rows, err := q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query line items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	items := []models.InvoiceLineItem{}
	for rows.Next() {
		var li models.InvoiceLineItem
		if err := rows.Scan(&li.LineItemID, &li.InvoiceID, &li.Description, &li.Quantity, &li.UnitPrice, &li.TaxAmount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line item row for invoice "+invoiceID, err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line item rows for invoice "+invoiceID, err)
	}

	return mapping.ToDomainLineItemSlice(items), nil
}

func (r *PgxInvoiceRepository) loadPaymentJournalIDs(ctx context.Context, q rowQuerier, invoiceID string) ([]string, error) {
	query := `SELECT journal_id FROM invoice_payments WHERE invoice_id = $1 ORDER BY received_at;`

	rows, err := q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment journals for invoice "+invoiceID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment journal row for invoice "+invoiceID, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment journal rows for invoice "+invoiceID, err)
	}
	return ids, nil
}

// FindInvoiceByID retrieves an invoice with its line items and the journals
// of its recorded payments.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice by ID "+invoiceID, err)
	}

	d := mapping.ToDomainInvoice(*m)
	if d.LineItems, err = r.loadLineItems(ctx, r.Pool, invoiceID); err != nil {
		return nil, err
	}
	if d.PaymentJournalIDs, err = r.loadPaymentJournalIDs(ctx, r.Pool, invoiceID); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindInvoiceByIDForUpdate locks the invoice row until the surrounding
// transaction ends, serializing lifecycle moves on the same invoice.
func (r *PgxInvoiceRepository) FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1 FOR UPDATE;`

	m, err := scanInvoice(tx.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}

	d := mapping.ToDomainInvoice(*m)
	if d.LineItems, err = r.loadLineItems(ctx, tx, invoiceID); err != nil {
		return nil, err
	}
	if d.PaymentJournalIDs, err = r.loadPaymentJournalIDs(ctx, tx, invoiceID); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateInvoiceStateInTx persists the lifecycle fields and bumps the version.
// The version guard in the WHERE clause turns a lost write race into
// ErrConcurrencyConflict instead of a silent overwrite.
func (r *PgxInvoiceRepository) UpdateInvoiceStateInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, expectedVersion int64) error {
	m := mapping.ToModelInvoice(*invoice)

	query := `
		UPDATE invoices
		SET status = $2, issued_date = $3, due_date = $4, issue_journal_id = $5, amount_paid = $6,
		    version = version + 1, last_updated_at = $7, last_updated_by = $8
		WHERE invoice_id = $1 AND version = $9;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.Status,
		m.IssuedDate,
		m.DueDate,
		m.IssueJournalID,
		m.AmountPaid,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		expectedVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindInvoiceByID(ctx, m.InvoiceID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: invoice %s was modified concurrently", apperrors.ErrConcurrencyConflict, m.InvoiceID)
	}

	invoice.Version = expectedVersion + 1
	return nil
}

// SavePaymentInTx records a payment row inside a caller-owned transaction.
func (r *PgxInvoiceRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO invoice_payments (payment_id, invoice_id, journal_id, amount, received_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query,
		payment.PaymentID,
		payment.InvoiceID,
		payment.JournalID,
		payment.Amount,
		payment.ReceivedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: payment %s already recorded", apperrors.ErrDuplicate, payment.PaymentID)
		}
		return apperrors.NewAppError(500, "failed to save payment "+payment.PaymentID, err)
	}
	return nil
}

// ListInvoices retrieves invoices newest first, optionally filtered by
// customer or status. Line items are not loaded for listings.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, customerID *string, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE TRUE`
	args := []interface{}{}
	if customerID != nil && *customerID != "" {
		args = append(args, *customerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if status != nil && *status != "" {
		args = append(args, string(*status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}
	return invoices, nil
}

// ListPaymentsByInvoiceID retrieves the payments recorded for an invoice.
func (r *PgxInvoiceRepository) ListPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	query := `
		SELECT payment_id, invoice_id, journal_id, amount, received_at
		FROM invoice_payments
		WHERE invoice_id = $1
		ORDER BY received_at;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for invoice "+invoiceID, err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaymentID, &p.InvoiceID, &p.JournalID, &p.Amount, &p.ReceivedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for invoice "+invoiceID, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for invoice "+invoiceID, err)
	}
	return payments, nil
}

// SumPaymentsByInvoiceID folds the payment log for an invoice. The
// amount_paid column is reconciled against this figure.
func (r *PgxInvoiceRepository) SumPaymentsByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM invoice_payments WHERE invoice_id = $1;`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum payments for invoice "+invoiceID, err)
	}
	return total, nil
}
