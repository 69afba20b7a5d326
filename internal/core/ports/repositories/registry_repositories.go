package repositories

import (
	"context"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
)

// CustomerRepository defines access to the customer registry.
type CustomerRepository interface {
	SaveCustomer(ctx context.Context, customer *domain.Customer) error
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error)
}

// VehicleRepository defines access to the vehicle registry.
type VehicleRepository interface {
	SaveVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, limit int, offset int) ([]domain.Vehicle, error)
}

// BookingRepository defines access to the booking registry.
type BookingRepository interface {
	SaveBooking(ctx context.Context, booking *domain.Booking) error
	UpdateBooking(ctx context.Context, booking *domain.Booking) error
	FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context, customerID *string, limit int, offset int) ([]domain.Booking, error)
}
