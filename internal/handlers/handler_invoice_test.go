package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/handlers"
	"github.com/migueldeguzman/web-erp-app-sub001/pkg/config"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListPayments(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockInvoiceService) IssueInvoice(ctx context.Context, invoiceID string, req dto.IssueInvoiceRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) RecordPayment(ctx context.Context, invoiceID string, req dto.RecordPaymentRequest, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) VoidInvoice(ctx context.Context, invoiceID string, userID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) PaymentQR(ctx context.Context, invoiceID string) (*dto.InvoiceQRResponse, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InvoiceQRResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Test Suite ---
type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	jwtSecret          string
	userID             string
}

func (suite *InvoiceHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "erp-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.mockInvoiceService = new(MockInvoiceService)

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true, // skip swagger wiring in tests
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Invoice: suite.mockInvoiceService,
	})
}

func (suite *InvoiceHandlerTestSuite) doRequest(method, url string, body any, authenticated bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *InvoiceHandlerTestSuite) TestRecordPayment_Success() {
	invoiceID := uuid.NewString()
	paymentID := uuid.NewString()
	updated := &domain.Invoice{
		InvoiceID:  invoiceID,
		CustomerID: uuid.NewString(),
		Status:     domain.InvoicePartiallyPaid,
		AmountPaid: decimal.RequireFromString("60.00"),
		Version:    2,
	}

	suite.mockInvoiceService.On("RecordPayment",
		mock.Anything,
		invoiceID,
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return req.Amount.Equal(decimal.RequireFromString("60.00")) &&
				req.PaymentID != nil && *req.PaymentID == paymentID
		}),
		suite.userID,
	).Return(updated, nil).Once()

	body := dto.RecordPaymentRequest{Amount: decimal.RequireFromString("60.00"), PaymentID: &paymentID}
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", invoiceID), body, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(invoiceID, resp.InvoiceID)
	suite.Equal(domain.InvoicePartiallyPaid, resp.Status)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestRecordPayment_Overpayment() {
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("RecordPayment", mock.Anything, invoiceID, mock.AnythingOfType("dto.RecordPaymentRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: payment exceeds outstanding", apperrors.ErrOverpayment)).Once()

	body := dto.RecordPaymentRequest{Amount: decimal.RequireFromString("999.00")}
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", invoiceID), body, true)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_InvalidState() {
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("IssueInvoice", mock.Anything, invoiceID, mock.AnythingOfType("dto.IssueInvoiceRequest"), suite.userID).
		Return(nil, fmt.Errorf("%w: cannot issue invoice in status ISSUED", apperrors.ErrInvalidState)).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/issue", invoiceID), nil, true)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestIssueInvoice_Success() {
	invoiceID := uuid.NewString()
	now := time.Now().UTC()
	due := now.AddDate(0, 0, 30)
	issued := &domain.Invoice{
		InvoiceID:  invoiceID,
		CustomerID: uuid.NewString(),
		Status:     domain.InvoiceIssued,
		IssuedDate: &now,
		DueDate:    &due,
		AmountPaid: decimal.Zero,
		Version:    1,
	}

	suite.mockInvoiceService.On("IssueInvoice", mock.Anything, invoiceID, mock.AnythingOfType("dto.IssueInvoiceRequest"), suite.userID).
		Return(issued, nil).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/issue", invoiceID), nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.InvoiceIssued, resp.Status)
}

func (suite *InvoiceHandlerTestSuite) TestVoidInvoice_NotFound() {
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("VoidInvoice", mock.Anything, invoiceID, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/void", invoiceID), nil, true)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *InvoiceHandlerTestSuite) TestRecordPayment_MissingToken() {
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/payments", uuid.NewString()),
		dto.RecordPaymentRequest{Amount: decimal.RequireFromString("10.00")}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "RecordPayment")
}

func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
