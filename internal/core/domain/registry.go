package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is reference data consumed by invoicing.
type Customer struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	AuditFields
}

// Vehicle is a rentable unit of the fleet.
type Vehicle struct {
	VehicleID      string          `json:"vehicleID"`
	RegistrationNo string          `json:"registrationNo"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	AuditFields
}

// BookingStatus is the state of a rental booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking links a customer to a vehicle for a rental period.
// Bookings never touch the ledger directly; invoicing does.
type Booking struct {
	BookingID  string        `json:"bookingID"`
	CustomerID string        `json:"customerID"`
	VehicleID  string        `json:"vehicleID"`
	StartDate  time.Time     `json:"startDate"`
	EndDate    time.Time     `json:"endDate"`
	Status     BookingStatus `json:"status"`
	AuditFields
}

// RentalDays is the chargeable day count, minimum one.
func (b *Booking) RentalDays() int64 {
	days := int64(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
