package services

import (
	"context"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

// RegistryReaderSvc defines read operations for the rental registry.
type RegistryReaderSvc interface {
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)

	GetVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, limit int, offset int) ([]domain.Vehicle, error)

	GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, customerID *string, limit int, offset int) ([]domain.Booking, error)
}

// RegistryWriterSvc defines write operations for the rental registry.
type RegistryWriterSvc interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)
	CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest, userID string) (*domain.Vehicle, error)

	// CreateBooking validates the customer and vehicle exist before saving.
	CreateBooking(ctx context.Context, req dto.CreateBookingRequest, userID string) (*domain.Booking, error)

	// CompleteBooking marks an active booking completed.
	CompleteBooking(ctx context.Context, bookingID string, userID string) (*domain.Booking, error)

	// CancelBooking marks an active booking cancelled.
	CancelBooking(ctx context.Context, bookingID string, userID string) (*domain.Booking, error)
}

// RegistrySvcFacade combines all registry-related service interfaces
type RegistrySvcFacade interface {
	RegistryReaderSvc
	RegistryWriterSvc
}
