package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

const (
	defaultPaymentTermsDays = 30
	paymentReferenceTTL     = 15 * time.Minute
)

type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryWithTx
	journalRepo  portsrepo.JournalRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryWithTx
	customerRepo portsrepo.CustomerRepository
	bookingRepo  portsrepo.BookingRepository
	postingSvc   portssvc.PostingSvc
	balanceSvc   portssvc.BalanceSvc
	txManager    portsrepo.TransactionManager
	redisClient  *redis.Client
}

// NewInvoiceService creates the invoice lifecycle service. Every lifecycle
// move runs in one database transaction holding the invoice row lock, so
// concurrent writers to the same invoice serialize and re-validate.
func NewInvoiceService(
	repos portsrepo.RepositoryProvider,
	postingSvc portssvc.PostingSvc,
	balanceSvc portssvc.BalanceSvc,
	redisClient *redis.Client,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  repos.InvoiceRepo,
		journalRepo:  repos.JournalRepo,
		accountRepo:  repos.AccountRepo,
		customerRepo: repos.CustomerRepo,
		bookingRepo:  repos.BookingRepo,
		postingSvc:   postingSvc,
		balanceSvc:   balanceSvc,
		txManager:    repos.TxManager,
		redisClient:  redisClient,
	}
}

// CreateInvoice persists a new draft. Drafts have no ledger footprint.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if _, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s not found", apperrors.ErrValidation, req.CustomerID)
		}
		return nil, err
	}

	if req.BookingID != nil {
		booking, err := s.bookingRepo.FindBookingByID(ctx, *req.BookingID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: booking %s not found", apperrors.ErrValidation, *req.BookingID)
			}
			return nil, err
		}
		if booking.CustomerID != req.CustomerID {
			return nil, fmt.Errorf("%w: booking %s belongs to a different customer", apperrors.ErrValidation, *req.BookingID)
		}
	}

	now := time.Now().UTC()
	invoiceID := uuid.NewString()

	lineItems := make([]domain.InvoiceLineItem, len(req.LineItems))
	for i, item := range req.LineItems {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line item quantity must be positive", apperrors.ErrValidation)
		}
		if item.UnitPrice.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: line item unit price must be positive", apperrors.ErrValidation)
		}
		if item.TaxAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line item tax amount must not be negative", apperrors.ErrValidation)
		}
		lineItems[i] = domain.InvoiceLineItem{
			LineItemID:  uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxAmount:   item.TaxAmount,
		}
	}

	invoice := domain.Invoice{
		InvoiceID:   invoiceID,
		CustomerID:  req.CustomerID,
		BookingID:   req.BookingID,
		Status:      domain.InvoiceDraft,
		LineItems:   lineItems,
		DueDate:     req.DueDate,
		AmountPaid:  decimal.Zero,
		Version:     1,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, &invoice); err != nil {
		s.LogError(ctx, err, "failed to save invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	s.LogInfo(ctx, "invoice created", slog.String("invoice_id", invoiceID), slog.String("customer_id", req.CustomerID))
	return &invoice, nil
}

// GetInvoiceByID retrieves an invoice with its line items.
func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ListInvoices retrieves invoices, optionally filtered by customer or status.
func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	var status *domain.InvoiceStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.InvoiceStatus(*params.Status)
		status = &st
	}
	return s.invoiceRepo.ListInvoices(ctx, params.CustomerID, status, params.Limit, params.Offset)
}

// ListPayments retrieves the payments recorded against an invoice.
func (s *invoiceService) ListPayments(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	if _, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListPaymentsByInvoiceID(ctx, invoiceID)
}

// IssueInvoice moves a draft to ISSUED and posts the revenue journal in the
// same database transaction, so the invoice state and its ledger footprint
// commit or fail together.
func (s *invoiceService) IssueInvoice(ctx context.Context, invoiceID string, req dto.IssueInvoiceRequest, userID string) (*domain.Invoice, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: cannot issue invoice in status %s", apperrors.ErrInvalidState, invoice.Status)
	}

	total := invoice.Total()
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice total must be positive to issue", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	issuedDate := now
	if req.IssuedDate != nil {
		issuedDate = *req.IssuedDate
	}
	dueDate := issuedDate.AddDate(0, 0, defaultPaymentTermsDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	} else if invoice.DueDate != nil {
		dueDate = *invoice.DueDate
	}

	event := domain.PostingEvent{
		Kind:        domain.EventInvoiceIssued,
		Reference:   fmt.Sprintf("invoice-issued:%s", invoiceID),
		Description: fmt.Sprintf("Invoice %s issued to customer %s", invoiceID, invoice.CustomerID),
		Date:        issuedDate,
		Amount:      total,
		TaxAmount:   invoice.TaxTotal(),
	}
	prepared, err := s.postingSvc.Prepare(ctx, event, userID)
	if err != nil {
		return nil, err
	}

	if err := s.postingSvc.AppendPreparedInTx(ctx, tx, prepared); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: invoice %s was issued concurrently", apperrors.ErrConcurrencyConflict, invoiceID)
		}
		return nil, err
	}

	invoice.Status = domain.InvoiceIssued
	invoice.IssuedDate = &issuedDate
	invoice.DueDate = &dueDate
	invoice.IssueJournalID = &prepared.Journal.JournalID
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoiceStateInTx(ctx, tx, invoice, invoice.Version); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx, prepared.BalanceChanges)

	s.LogInfo(ctx, "invoice issued",
		slog.String("invoice_id", invoiceID),
		slog.String("journal_id", prepared.Journal.JournalID),
		slog.String("total", total.String()))
	return invoice, nil
}

// RecordPayment applies a payment under the invoice row lock. The outstanding
// check uses exact decimal comparison; a payment exceeding it is rejected
// outright rather than capped.
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, req dto.RecordPaymentRequest, userID string) (*domain.Invoice, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	paymentID := uuid.NewString()
	if req.PaymentID != nil && *req.PaymentID != "" {
		paymentID = *req.PaymentID
	}
	reference := fmt.Sprintf("payment-received:%s", paymentID)

	// Replays of an already recorded payment return the current invoice
	// instead of posting twice.
	if existing, err := s.journalRepo.FindJournalByReference(ctx, reference); err == nil && existing != nil {
		s.LogInfo(ctx, "payment already recorded", slog.String("payment_id", paymentID))
		return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.CanRecordPayment() {
		return nil, fmt.Errorf("%w: cannot record payment on invoice in status %s", apperrors.ErrInvalidState, invoice.Status)
	}

	outstanding := invoice.Outstanding()
	if req.Amount.GreaterThan(outstanding) {
		return nil, fmt.Errorf("%w: payment %s exceeds outstanding %s on invoice %s",
			apperrors.ErrOverpayment, req.Amount.String(), outstanding.String(), invoiceID)
	}

	now := time.Now().UTC()
	event := domain.PostingEvent{
		Kind:        domain.EventPaymentReceived,
		Reference:   reference,
		Description: fmt.Sprintf("Payment %s received for invoice %s", paymentID, invoiceID),
		Date:        now,
		Amount:      req.Amount,
		TaxAmount:   decimal.Zero,
	}
	prepared, err := s.postingSvc.Prepare(ctx, event, userID)
	if err != nil {
		return nil, err
	}

	if err := s.postingSvc.AppendPreparedInTx(ctx, tx, prepared); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: payment %s was recorded concurrently", apperrors.ErrConcurrencyConflict, paymentID)
		}
		return nil, err
	}

	payment := domain.Payment{
		PaymentID:  paymentID,
		InvoiceID:  invoiceID,
		JournalID:  prepared.Journal.JournalID,
		Amount:     req.Amount,
		ReceivedAt: now,
	}
	if err := s.invoiceRepo.SavePaymentInTx(ctx, tx, &payment); err != nil {
		return nil, err
	}

	invoice.AmountPaid = invoice.AmountPaid.Add(req.Amount)
	if invoice.AmountPaid.Equal(invoice.Total()) {
		invoice.Status = domain.InvoicePaid
	} else {
		invoice.Status = domain.InvoicePartiallyPaid
	}
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoiceStateInTx(ctx, tx, invoice, invoice.Version); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx, prepared.BalanceChanges)
	invoice.PaymentJournalIDs = append(invoice.PaymentJournalIDs, prepared.Journal.JournalID)

	s.LogInfo(ctx, "payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", paymentID),
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(invoice.Status)))
	return invoice, nil
}

// VoidInvoice voids a draft outright; for an issued, unpaid invoice it also
// reverses the issuance journal in the same transaction so the ledger offset
// is exact, tax lines included.
func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.txManager.Rollback(ctx, tx)

	invoice, err := s.invoiceRepo.FindInvoiceByIDForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.CanVoid() {
		return nil, fmt.Errorf("%w: cannot void invoice in status %s with %s paid",
			apperrors.ErrInvalidState, invoice.Status, invoice.AmountPaid.String())
	}

	now := time.Now().UTC()
	var balanceChanges map[string]decimal.Decimal

	if invoice.Status == domain.InvoiceIssued {
		if invoice.IssueJournalID == nil {
			return nil, apperrors.NewAppError(500, "issued invoice "+invoiceID+" has no issuance journal", nil)
		}
		balanceChanges, err = s.reverseIssuanceInTx(ctx, tx, *invoice.IssueJournalID, userID, now)
		if err != nil {
			return nil, err
		}
	}

	invoice.Status = domain.InvoiceVoided
	invoice.LastUpdatedAt = now
	invoice.LastUpdatedBy = userID

	if err := s.invoiceRepo.UpdateInvoiceStateInTx(ctx, tx, invoice, invoice.Version); err != nil {
		return nil, err
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(ctx, balanceChanges)

	s.LogInfo(ctx, "invoice voided", slog.String("invoice_id", invoiceID))
	return invoice, nil
}

func (s *invoiceService) reverseIssuanceInTx(ctx context.Context, tx pgx.Tx, issueJournalID string, userID string, now time.Time) (map[string]decimal.Decimal, error) {
	originalJournal, err := s.journalRepo.FindJournalByID(ctx, issueJournalID)
	if err != nil {
		return nil, err
	}
	if originalJournal.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: issuance journal %s", apperrors.ErrAlreadyReversed, issueJournalID)
	}

	originalTransactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, issueJournalID)
	if err != nil {
		return nil, err
	}

	reversingJournal, reversingTransactions := newReversingJournal(originalJournal, originalTransactions, userID, now)

	ids := make([]string, 0, len(reversingTransactions))
	seen := make(map[string]struct{})
	for _, txn := range reversingTransactions {
		if _, ok := seen[txn.AccountID]; !ok {
			seen[txn.AccountID] = struct{}{}
			ids = append(ids, txn.AccountID)
		}
	}
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	balanceChanges, err := calculateBalanceChanges(reversingTransactions, accountsMap)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournalInTx(ctx, tx, &reversingJournal, reversingTransactions, balanceChanges); err != nil {
		return nil, err
	}
	if err := s.journalRepo.MarkJournalReversedInTx(ctx, tx, issueJournalID, reversingJournal.JournalID, userID, now); err != nil {
		return nil, err
	}
	return balanceChanges, nil
}

// PaymentQR issues a short-lived payment reference for the outstanding
// amount and renders it as a QR code image.
func (s *invoiceService) PaymentQR(ctx context.Context, invoiceID string) (*dto.InvoiceQRResponse, error) {
	if s.redisClient == nil {
		return nil, apperrors.NewAppError(503, "payment references require redis", nil)
	}

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.CanRecordPayment() {
		return nil, fmt.Errorf("%w: invoice in status %s has nothing to pay", apperrors.ErrInvalidState, invoice.Status)
	}

	outstanding := invoice.Outstanding()
	reference := uuid.NewString()

	if err := s.redisClient.Set(ctx, "payref:"+reference, invoiceID, paymentReferenceTTL).Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to store payment reference", err)
	}

	payload := fmt.Sprintf("FLEETPAY|%s|%s|%s", invoiceID, reference, outstanding.String())
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to render payment QR code", err)
	}

	return &dto.InvoiceQRResponse{
		InvoiceID:   invoiceID,
		Reference:   reference,
		Outstanding: outstanding,
		QRImage:     base64.StdEncoding.EncodeToString(png),
		ExpiresIn:   int64(paymentReferenceTTL.Seconds()),
	}, nil
}

func (s *invoiceService) invalidate(ctx context.Context, balanceChanges map[string]decimal.Decimal) {
	if s.balanceSvc == nil || len(balanceChanges) == 0 {
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
