package mapping

import (
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
)

func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelVehicle(d domain.Vehicle) models.Vehicle {
	return models.Vehicle{
		VehicleID:      d.VehicleID,
		RegistrationNo: d.RegistrationNo,
		Make:           d.Make,
		Model:          d.Model,
		DailyRate:      d.DailyRate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainVehicle(m models.Vehicle) domain.Vehicle {
	return domain.Vehicle{
		VehicleID:      m.VehicleID,
		RegistrationNo: m.RegistrationNo,
		Make:           m.Make,
		Model:          m.Model,
		DailyRate:      m.DailyRate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelBooking(d domain.Booking) models.Booking {
	return models.Booking{
		BookingID:   d.BookingID,
		CustomerID:  d.CustomerID,
		VehicleID:   d.VehicleID,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{
		BookingID:   m.BookingID,
		CustomerID:  m.CustomerID,
		VehicleID:   m.VehicleID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      domain.BookingStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelPostingRule(d domain.PostingRule) models.PostingRule {
	return models.PostingRule{
		EventKind:         string(d.EventKind),
		DebitAccountCode:  d.DebitAccountCode,
		CreditAccountCode: d.CreditAccountCode,
		TaxAccountCode:    d.TaxAccountCode,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPostingRule(m models.PostingRule) domain.PostingRule {
	return domain.PostingRule{
		EventKind:         domain.PostingEventKind(m.EventKind),
		DebitAccountCode:  m.DebitAccountCode,
		CreditAccountCode: m.CreditAccountCode,
		TaxAccountCode:    m.TaxAccountCode,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
