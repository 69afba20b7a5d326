package dto

import (
	"time"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineItemRequest is one billable line on a draft invoice.
type CreateLineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required,dgt0"`
	TaxAmount   decimal.Decimal `json:"taxAmount" binding:"dgte0"`
}

// CreateInvoiceRequest creates an invoice in draft.
type CreateInvoiceRequest struct {
	CustomerID string                  `json:"customerID" binding:"required"`
	BookingID  *string                 `json:"bookingID"`
	DueDate    *time.Time              `json:"dueDate"`
	LineItems  []CreateLineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// IssueInvoiceRequest issues a draft invoice. An omitted due date defaults
// to thirty days after issuance.
type IssueInvoiceRequest struct {
	IssuedDate *time.Time `json:"issuedDate"`
	DueDate    *time.Time `json:"dueDate"`
}

// RecordPaymentRequest records a payment against an issued invoice.
// PaymentID identifies the logical payment for idempotent posting; omitted
// ids are generated server-side.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required,dgt0"`
	PaymentID *string         `json:"paymentID"`
}

// PaymentResponse defines the data returned for a recorded payment.
type PaymentResponse struct {
	PaymentID  string          `json:"paymentID"`
	InvoiceID  string          `json:"invoiceID"`
	JournalID  string          `json:"journalID"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// ToPaymentResponses converts recorded payments to their DTOs.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = PaymentResponse{
			PaymentID:  p.PaymentID,
			InvoiceID:  p.InvoiceID,
			JournalID:  p.JournalID,
			Amount:     p.Amount,
			ReceivedAt: p.ReceivedAt,
		}
	}
	return res
}

// ListPaymentsResponse wraps the payments recorded against an invoice.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// LineItemResponse is one line on an invoice.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string               `json:"invoiceID"`
	CustomerID     string               `json:"customerID"`
	BookingID      *string              `json:"bookingID,omitempty"`
	Status         domain.InvoiceStatus `json:"status"`
	LineItems      []LineItemResponse   `json:"lineItems,omitempty"`
	Total          decimal.Decimal      `json:"total"`
	TaxTotal       decimal.Decimal      `json:"taxTotal"`
	AmountPaid     decimal.Decimal      `json:"amountPaid"`
	Outstanding    decimal.Decimal      `json:"outstanding"`
	IssuedDate     *time.Time           `json:"issuedDate,omitempty"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	IssueJournalID *string              `json:"issueJournalID,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
	CreatedBy      string               `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		CustomerID:     inv.CustomerID,
		BookingID:      inv.BookingID,
		Status:         inv.Status,
		Total:          inv.Total(),
		TaxTotal:       inv.TaxTotal(),
		AmountPaid:     inv.AmountPaid,
		Outstanding:    inv.Outstanding(),
		IssuedDate:     inv.IssuedDate,
		DueDate:        inv.DueDate,
		IssueJournalID: inv.IssueJournalID,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
	}
	if len(inv.LineItems) > 0 {
		resp.LineItems = make([]LineItemResponse, len(inv.LineItems))
		for i, li := range inv.LineItems {
			resp.LineItems[i] = LineItemResponse{
				LineItemID:  li.LineItemID,
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				TaxAmount:   li.TaxAmount,
			}
		}
	}
	return resp
}

// ToListInvoiceResponse converts a slice of domain.Invoice to DTOs.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Limit      int     `form:"limit,default=20"`
	Offset     int     `form:"offset,default=0"`
	CustomerID *string `form:"customerID"`
	Status     *string `form:"status"`
}

// ListInvoicesResponse wraps the list of invoices.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// InvoiceQRResponse carries the one-time payment QR for an issued invoice.
type InvoiceQRResponse struct {
	InvoiceID   string          `json:"invoiceID"`
	Reference   string          `json:"reference"`
	Outstanding decimal.Decimal `json:"outstanding"`
	QRImage     string          `json:"qrImage"` // base64 PNG
	ExpiresIn   int64           `json:"expiresInSeconds"`
}
