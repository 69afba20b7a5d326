package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the db row for a customer record.
type Customer struct {
	CustomerID string `db:"customer_id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Phone      string `db:"phone"`
	AuditFields
}

// Vehicle is the db row for a fleet vehicle.
type Vehicle struct {
	VehicleID      string          `db:"vehicle_id"`
	RegistrationNo string          `db:"registration_no"`
	Make           string          `db:"make"`
	Model          string          `db:"model"`
	DailyRate      decimal.Decimal `db:"daily_rate"`
	AuditFields
}

// Booking is the db row for a rental booking.
type Booking struct {
	BookingID  string    `db:"booking_id"`
	CustomerID string    `db:"customer_id"`
	VehicleID  string    `db:"vehicle_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	Status     string    `db:"status"`
	AuditFields
}
