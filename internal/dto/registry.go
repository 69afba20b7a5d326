package dto

import (
	"time"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest creates a customer record.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID string    `json:"customerID"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		CreatedAt:  c.CreatedAt,
	}
}

// CreateVehicleRequest creates a fleet vehicle record.
type CreateVehicleRequest struct {
	RegistrationNo string          `json:"registrationNo" binding:"required"`
	Make           string          `json:"make" binding:"required"`
	Model          string          `json:"model" binding:"required"`
	DailyRate      decimal.Decimal `json:"dailyRate" binding:"required,dgt0"`
}

// VehicleResponse defines the data returned for a vehicle.
type VehicleResponse struct {
	VehicleID      string          `json:"vehicleID"`
	RegistrationNo string          `json:"registrationNo"`
	Make           string          `json:"make"`
	Model          string          `json:"model"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func ToVehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		VehicleID:      v.VehicleID,
		RegistrationNo: v.RegistrationNo,
		Make:           v.Make,
		Model:          v.Model,
		DailyRate:      v.DailyRate,
		CreatedAt:      v.CreatedAt,
	}
}

// CreateBookingRequest creates a rental booking.
type CreateBookingRequest struct {
	CustomerID string    `json:"customerID" binding:"required"`
	VehicleID  string    `json:"vehicleID" binding:"required"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// BookingResponse defines the data returned for a booking.
type BookingResponse struct {
	BookingID  string               `json:"bookingID"`
	CustomerID string               `json:"customerID"`
	VehicleID  string               `json:"vehicleID"`
	StartDate  time.Time            `json:"startDate"`
	EndDate    time.Time            `json:"endDate"`
	Status     domain.BookingStatus `json:"status"`
	RentalDays int64                `json:"rentalDays"`
	CreatedAt  time.Time            `json:"createdAt"`
}

func ToBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:  b.BookingID,
		CustomerID: b.CustomerID,
		VehicleID:  b.VehicleID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		Status:     b.Status,
		RentalDays: b.RentalDays(),
		CreatedAt:  b.CreatedAt,
	}
}

// ListParams is shared offset pagination for registry listings.
type ListParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
