package services

import (
	"context"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoice data
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves invoices, optionally filtered by customer or status.
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error)

	// ListPayments retrieves the payments recorded against an invoice.
	ListPayments(ctx context.Context, invoiceID string) ([]domain.Payment, error)
}

// InvoiceWriterSvc defines lifecycle operations for invoice data. Every
// state move locks the invoice row so concurrent writers serialize.
type InvoiceWriterSvc interface {
	// CreateInvoice persists a new draft invoice. Drafts have no ledger
	// footprint and may be edited freely.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// IssueInvoice moves a draft to ISSUED and posts the revenue journal in
	// the same database transaction.
	IssueInvoice(ctx context.Context, invoiceID string, req dto.IssueInvoiceRequest, userID string) (*domain.Invoice, error)

	// RecordPayment applies a payment to an issued or partially paid invoice.
	// A payment exceeding the outstanding amount fails with ErrOverpayment.
	RecordPayment(ctx context.Context, invoiceID string, req dto.RecordPaymentRequest, userID string) (*domain.Invoice, error)

	// VoidInvoice voids a draft, or an issued invoice with no payments. For
	// issued invoices the issuance journal is reversed in the same
	// transaction so the ledger offset is exact.
	VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error)
}

// InvoiceQRSvc issues short-lived payment references rendered as QR codes.
type InvoiceQRSvc interface {
	// PaymentQR returns a QR code image encoding a one-time payment
	// reference for the invoice's outstanding amount.
	PaymentQR(ctx context.Context, invoiceID string) (*dto.InvoiceQRResponse, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceQRSvc
}
