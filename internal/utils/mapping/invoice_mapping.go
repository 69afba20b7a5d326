package mapping

import (
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
)

// ToModelInvoice converts a domain invoice header to its db representation.
// Line items are stored separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		CustomerID:     d.CustomerID,
		BookingID:      d.BookingID,
		Status:         models.InvoiceStatus(d.Status),
		IssuedDate:     d.IssuedDate,
		DueDate:        d.DueDate,
		IssueJournalID: d.IssueJournalID,
		AmountPaid:     d.AmountPaid,
		Version:        d.Version,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a db invoice row to the domain representation.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		CustomerID:     m.CustomerID,
		BookingID:      m.BookingID,
		Status:         domain.InvoiceStatus(m.Status),
		IssuedDate:     m.IssuedDate,
		DueDate:        m.DueDate,
		IssueJournalID: m.IssueJournalID,
		AmountPaid:     m.AmountPaid,
		Version:        m.Version,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain line item to its db representation.
func ToModelLineItem(d domain.InvoiceLineItem) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		LineItemID:  d.LineItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		TaxAmount:   d.TaxAmount,
	}
}

// ToDomainLineItem converts a db line item row to the domain representation.
func ToDomainLineItem(m models.InvoiceLineItem) domain.InvoiceLineItem {
	return domain.InvoiceLineItem{
		LineItemID:  m.LineItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		TaxAmount:   m.TaxAmount,
	}
}

// ToDomainLineItemSlice converts a slice of db line item rows.
func ToDomainLineItemSlice(ms []models.InvoiceLineItem) []domain.InvoiceLineItem {
	ds := make([]domain.InvoiceLineItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLineItem(m)
	}
	return ds
}
