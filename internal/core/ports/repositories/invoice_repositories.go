package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// InvoiceReader defines read operations for invoices. Invoices always load
// with their line items.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, customerID *string, status *domain.InvoiceStatus, limit int, offset int) ([]domain.Invoice, error)
	ListPaymentsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.Payment, error)
	// SumPaymentsByInvoiceID folds the payment log, the authoritative source
	// for the denormalized amount_paid column.
	SumPaymentsByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	SaveInvoice(ctx context.Context, invoice *domain.Invoice) error
}

// InvoiceTransactionSupport defines invoice operations that run inside a
// caller-owned database transaction. All lifecycle moves lock the invoice row
// first so writes to the same invoice serialize.
type InvoiceTransactionSupport interface {
	// FindInvoiceByIDForUpdate locks the invoice row until the transaction
	// ends, then loads it with line items.
	FindInvoiceByIDForUpdate(ctx context.Context, tx pgx.Tx, invoiceID string) (*domain.Invoice, error)
	// UpdateInvoiceStateInTx persists status, journal links, amount paid and
	// bumps the version. Returns apperrors.ErrConcurrencyConflict when the
	// stored version no longer matches expectedVersion.
	UpdateInvoiceStateInTx(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice, expectedVersion int64) error
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error
}

// InvoiceRepositoryFacade combines reader and writer for general use.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends the facade with transaction-scoped support.
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	InvoiceTransactionSupport
}
