package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountRepository
	mockCustomerRepo *MockCustomerRepository
	mockBookingRepo  *MockBookingRepository
	mockTxManager    *MockTxManager
	mockPostingSvc   *MockPostingSvc
	mockBalanceSvc   *MockBalanceSvc
	service          portssvc.InvoiceSvcFacade

	userID   string
	customer domain.Customer
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.mockTxManager = new(MockTxManager)
	suite.mockPostingSvc = new(MockPostingSvc)
	suite.mockBalanceSvc = new(MockBalanceSvc)

	repos := portsrepo.RepositoryProvider{
		InvoiceRepo:  suite.mockInvoiceRepo,
		JournalRepo:  suite.mockJournalRepo,
		AccountRepo:  suite.mockAccountRepo,
		CustomerRepo: suite.mockCustomerRepo,
		BookingRepo:  suite.mockBookingRepo,
		TxManager:    suite.mockTxManager,
	}
	suite.service = services.NewInvoiceService(repos, suite.mockPostingSvc, suite.mockBalanceSvc, nil)

	suite.userID = uuid.NewString()
	suite.customer = domain.Customer{CustomerID: uuid.NewString(), Name: "Acme Logistics"}
}

// draftInvoice builds a draft with net 100.00 and tax 12.00, gross 112.00.
func (suite *InvoiceServiceTestSuite) draftInvoice() *domain.Invoice {
	invoiceID := uuid.NewString()
	return &domain.Invoice{
		InvoiceID:  invoiceID,
		CustomerID: suite.customer.CustomerID,
		Status:     domain.InvoiceDraft,
		LineItems: []domain.InvoiceLineItem{
			{
				LineItemID: uuid.NewString(),
				InvoiceID:  invoiceID,
				Quantity:   2,
				UnitPrice:  decimal.RequireFromString("50.00"),
				TaxAmount:  decimal.RequireFromString("12.00"),
			},
		},
		AmountPaid: decimal.Zero,
		Version:    1,
	}
}

func (suite *InvoiceServiceTestSuite) issuedInvoice() *domain.Invoice {
	inv := suite.draftInvoice()
	now := time.Now().UTC()
	journalID := uuid.NewString()
	inv.Status = domain.InvoiceIssued
	inv.IssuedDate = &now
	inv.IssueJournalID = &journalID
	inv.Version = 2
	return inv
}

func (suite *InvoiceServiceTestSuite) expectTx() {
	suite.mockTxManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxManager.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *InvoiceServiceTestSuite) expectTxRolledBack() {
	suite.mockTxManager.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

func preparedFor(reference string, amount decimal.Decimal) *domain.PreparedPosting {
	return &domain.PreparedPosting{
		Journal: domain.Journal{
			JournalID: uuid.NewString(),
			Reference: &reference,
			Status:    domain.Posted,
			Amount:    amount,
		},
		BalanceChanges: map[string]decimal.Decimal{uuid.NewString(): amount},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{
		CustomerID: suite.customer.CustomerID,
		LineItems: []dto.CreateLineItemRequest{
			{Description: "Van rental, 2 days", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00"), TaxAmount: decimal.RequireFromString("12.00")},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).
		Return(&suite.customer, nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("*domain.Invoice")).
		Return(nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceDraft, invoice.Status)
	suite.Equal(int64(1), invoice.Version)
	suite.True(invoice.AmountPaid.IsZero())
	suite.True(invoice.Total().Equal(decimal.RequireFromString("112.00")))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_BookingOfOtherCustomer() {
	ctx := context.Background()
	bookingID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		CustomerID: suite.customer.CustomerID,
		BookingID:  &bookingID,
		LineItems: []dto.CreateLineItemRequest{
			{Description: "Van rental", Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
		},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).
		Return(&suite.customer, nil).Once()
	suite.mockBookingRepo.On("FindBookingByID", ctx, bookingID).
		Return(&domain.Booking{BookingID: bookingID, CustomerID: uuid.NewString()}, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice")
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_Success() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	prepared := preparedFor("invoice-issued:"+invoice.InvoiceID, decimal.RequireFromString("112.00"))

	suite.expectTx()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockPostingSvc.On("Prepare", ctx, mock.MatchedBy(func(event domain.PostingEvent) bool {
		return event.Kind == domain.EventInvoiceIssued &&
			event.Reference == "invoice-issued:"+invoice.InvoiceID &&
			event.Amount.Equal(decimal.RequireFromString("112.00")) &&
			event.TaxAmount.Equal(decimal.RequireFromString("12.00"))
	}), suite.userID).
		Return(prepared, nil).Once()
	suite.mockPostingSvc.On("AppendPreparedInTx", ctx, mock.Anything, mock.AnythingOfType("*domain.PreparedPosting")).
		Return(nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStateInTx", ctx, mock.Anything, invoice, int64(1)).
		Return(nil).Once()
	suite.mockBalanceSvc.On("Invalidate", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	issued, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, dto.IssueInvoiceRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceIssued, issued.Status)
	suite.Require().NotNil(issued.IssuedDate)
	suite.Require().NotNil(issued.DueDate)
	suite.WithinDuration(issued.IssuedDate.AddDate(0, 0, 30), *issued.DueDate, time.Second)
	suite.Require().NotNil(issued.IssueJournalID)
	suite.Equal(prepared.Journal.JournalID, *issued.IssueJournalID)
	suite.mockTxManager.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_NotDraft() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()

	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()

	_, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, dto.IssueInvoiceRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "Prepare")
}

func (suite *InvoiceServiceTestSuite) TestIssueInvoice_ConcurrentIssue() {
	ctx := context.Background()
	invoice := suite.draftInvoice()

	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockPostingSvc.On("Prepare", ctx, mock.AnythingOfType("domain.PostingEvent"), suite.userID).
		Return(preparedFor("invoice-issued:"+invoice.InvoiceID, decimal.RequireFromString("112.00")), nil).Once()
	suite.mockPostingSvc.On("AppendPreparedInTx", ctx, mock.Anything, mock.Anything).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.IssueInvoice(ctx, invoice.InvoiceID, dto.IssueInvoiceRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStateInTx")
}

func (suite *InvoiceServiceTestSuite) recordPayment(invoice *domain.Invoice, amount string) (*domain.Invoice, error) {
	ctx := context.Background()
	paymentID := uuid.NewString()
	req := dto.RecordPaymentRequest{Amount: decimal.RequireFromString(amount), PaymentID: &paymentID}

	suite.mockJournalRepo.On("FindJournalByReference", ctx, "payment-received:"+paymentID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.expectTx()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockPostingSvc.On("Prepare", ctx, mock.MatchedBy(func(event domain.PostingEvent) bool {
		return event.Kind == domain.EventPaymentReceived &&
			event.Reference == "payment-received:"+paymentID &&
			event.Amount.Equal(req.Amount) &&
			event.TaxAmount.IsZero()
	}), suite.userID).
		Return(preparedFor("payment-received:"+paymentID, req.Amount), nil).Once()
	suite.mockPostingSvc.On("AppendPreparedInTx", ctx, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockInvoiceRepo.On("SavePaymentInTx", ctx, mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.PaymentID == paymentID && p.InvoiceID == invoice.InvoiceID && p.Amount.Equal(req.Amount)
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStateInTx", ctx, mock.Anything, invoice, invoice.Version).
		Return(nil).Once()
	suite.mockBalanceSvc.On("Invalidate", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	return suite.service.RecordPayment(ctx, invoice.InvoiceID, req, suite.userID)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_Partial() {
	invoice := suite.issuedInvoice()

	updated, err := suite.recordPayment(invoice, "60.00")

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePartiallyPaid, updated.Status)
	suite.True(updated.AmountPaid.Equal(decimal.RequireFromString("60.00")))
	suite.Len(updated.PaymentJournalIDs, 1)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_SettlesExactly() {
	invoice := suite.issuedInvoice()
	invoice.Status = domain.InvoicePartiallyPaid
	invoice.AmountPaid = decimal.RequireFromString("60.00")

	updated, err := suite.recordPayment(invoice, "52.00")

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePaid, updated.Status)
	suite.True(updated.AmountPaid.Equal(decimal.RequireFromString("112.00")))
	suite.True(updated.Outstanding().IsZero())
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_Overpayment() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	invoice.Status = domain.InvoicePartiallyPaid
	invoice.AmountPaid = decimal.RequireFromString("60.00")
	paymentID := uuid.NewString()
	req := dto.RecordPaymentRequest{Amount: decimal.RequireFromString("52.01"), PaymentID: &paymentID}

	suite.mockJournalRepo.On("FindJournalByReference", ctx, "payment-received:"+paymentID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "Prepare")
	suite.Equal(domain.InvoicePartiallyPaid, invoice.Status)
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_ReplaySamePaymentID() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	invoice.Status = domain.InvoicePartiallyPaid
	invoice.AmountPaid = decimal.RequireFromString("60.00")
	paymentID := uuid.NewString()
	req := dto.RecordPaymentRequest{Amount: decimal.RequireFromString("60.00"), PaymentID: &paymentID}

	suite.mockJournalRepo.On("FindJournalByReference", ctx, "payment-received:"+paymentID).
		Return(&domain.Journal{JournalID: uuid.NewString()}, nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).
		Return(invoice, nil).Once()

	updated, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.AmountPaid.Equal(decimal.RequireFromString("60.00")))
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin")
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "Prepare")
}

func (suite *InvoiceServiceTestSuite) TestRecordPayment_OnDraft() {
	ctx := context.Background()
	invoice := suite.draftInvoice()
	req := dto.RecordPaymentRequest{Amount: decimal.RequireFromString("10.00")}

	suite.mockJournalRepo.On("FindJournalByReference", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()

	_, err := suite.service.RecordPayment(ctx, invoice.InvoiceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_Draft() {
	ctx := context.Background()
	invoice := suite.draftInvoice()

	suite.expectTx()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStateInTx", ctx, mock.Anything, invoice, int64(1)).
		Return(nil).Once()

	voided, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceVoided, voided.Status)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournalInTx")
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_IssuedReversesIssuance() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	issueJournalID := *invoice.IssueJournalID

	receivables := domain.Account{AccountID: uuid.NewString(), Code: "1100", AccountType: domain.Asset, NormalSide: domain.NormalDebit, IsActive: true}
	revenue := domain.Account{AccountID: uuid.NewString(), Code: "4000", AccountType: domain.Revenue, NormalSide: domain.NormalCredit, IsActive: true}
	taxPayable := domain.Account{AccountID: uuid.NewString(), Code: "2100", AccountType: domain.Liability, NormalSide: domain.NormalCredit, IsActive: true}
	issueTxns := []domain.Transaction{
		{TransactionID: uuid.NewString(), JournalID: issueJournalID, AccountID: receivables.AccountID, Amount: decimal.RequireFromString("112.00"), TransactionType: domain.Debit},
		{TransactionID: uuid.NewString(), JournalID: issueJournalID, AccountID: revenue.AccountID, Amount: decimal.RequireFromString("100.00"), TransactionType: domain.Credit},
		{TransactionID: uuid.NewString(), JournalID: issueJournalID, AccountID: taxPayable.AccountID, Amount: decimal.RequireFromString("12.00"), TransactionType: domain.Credit},
	}

	suite.expectTx()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, issueJournalID).
		Return(&domain.Journal{JournalID: issueJournalID, Status: domain.Posted, Description: "Invoice issued", Amount: decimal.RequireFromString("112.00")}, nil).Once()
	suite.mockJournalRepo.On("FindTransactionsByJournalID", ctx, issueJournalID).
		Return(issueTxns, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			receivables.AccountID: receivables,
			revenue.AccountID:     revenue,
			taxPayable.AccountID:  taxPayable,
		}, nil).Once()
	suite.mockJournalRepo.On("SaveJournalInTx", ctx, mock.Anything, mock.MatchedBy(func(j *domain.Journal) bool {
		return j.OriginalJournalID != nil && *j.OriginalJournalID == issueJournalID
	}), mock.AnythingOfType("[]domain.Transaction"), mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
		// The reversal offsets the issuance exactly, tax line included.
		return changes[receivables.AccountID].Equal(decimal.RequireFromString("-112.00")) &&
			changes[revenue.AccountID].Equal(decimal.RequireFromString("-100.00")) &&
			changes[taxPayable.AccountID].Equal(decimal.RequireFromString("-12.00"))
	})).Return(nil).Once()
	suite.mockJournalRepo.On("MarkJournalReversedInTx", ctx, mock.Anything, issueJournalID, mock.AnythingOfType("string"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStateInTx", ctx, mock.Anything, invoice, invoice.Version).
		Return(nil).Once()
	suite.mockBalanceSvc.On("Invalidate", ctx, mock.AnythingOfType("[]string")).Return(nil).Once()

	voided, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoiceVoided, voided.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_PartiallyPaid() {
	ctx := context.Background()
	invoice := suite.issuedInvoice()
	invoice.Status = domain.InvoicePartiallyPaid
	invoice.AmountPaid = decimal.RequireFromString("60.00")

	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()

	_, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalByID")
}

func (suite *InvoiceServiceTestSuite) TestVoidInvoice_VersionConflict() {
	ctx := context.Background()
	invoice := suite.draftInvoice()

	suite.expectTxRolledBack()
	suite.mockInvoiceRepo.On("FindInvoiceByIDForUpdate", ctx, mock.Anything, invoice.InvoiceID).
		Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStateInTx", ctx, mock.Anything, invoice, int64(1)).
		Return(apperrors.ErrConcurrencyConflict).Once()

	_, err := suite.service.VoidInvoice(ctx, invoice.InvoiceID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Commit")
}

func (suite *InvoiceServiceTestSuite) TestPaymentQR_WithoutRedis() {
	ctx := context.Background()

	_, err := suite.service.PaymentQR(ctx, uuid.NewString())

	suite.Require().Error(err)
	var appErr *apperrors.AppError
	suite.Require().ErrorAs(err, &appErr)
	suite.Equal(503, appErr.Code)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
