package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

type registryService struct {
	BaseService
	customerRepo portsrepo.CustomerRepository
	vehicleRepo  portsrepo.VehicleRepository
	bookingRepo  portsrepo.BookingRepository
}

// NewRegistryService creates the customer/vehicle/booking registry service.
func NewRegistryService(repos portsrepo.RepositoryProvider) portssvc.RegistrySvcFacade {
	return &registryService{
		customerRepo: repos.CustomerRepo,
		vehicleRepo:  repos.VehicleRepo,
		bookingRepo:  repos.BookingRepo,
	}
}

func (s *registryService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}

	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}

	if err := s.customerRepo.SaveCustomer(ctx, &customer); err != nil {
		s.LogError(ctx, err, "failed to save customer")
		return nil, err
	}

	s.LogInfo(ctx, "customer created", slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

func (s *registryService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, customerID)
}

func (s *registryService) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	return s.customerRepo.ListCustomers(ctx, limit, offset)
}

func (s *registryService) CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest, userID string) (*domain.Vehicle, error) {
	if req.RegistrationNo == "" {
		return nil, fmt.Errorf("%w: vehicle registration number is required", apperrors.ErrValidation)
	}
	if req.DailyRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: vehicle daily rate must be positive", apperrors.ErrValidation)
	}

	vehicle := domain.Vehicle{
		VehicleID:      uuid.NewString(),
		RegistrationNo: req.RegistrationNo,
		Make:           req.Make,
		Model:          req.Model,
		DailyRate:      req.DailyRate,
		AuditFields:    domain.NewAuditFields(userID, time.Now().UTC()),
	}

	if err := s.vehicleRepo.SaveVehicle(ctx, &vehicle); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: registration number %s already exists", apperrors.ErrDuplicate, req.RegistrationNo)
		}
		s.LogError(ctx, err, "failed to save vehicle")
		return nil, err
	}

	s.LogInfo(ctx, "vehicle created",
		slog.String("vehicle_id", vehicle.VehicleID),
		slog.String("registration_no", vehicle.RegistrationNo))
	return &vehicle, nil
}

func (s *registryService) GetVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	return s.vehicleRepo.FindVehicleByID(ctx, vehicleID)
}

func (s *registryService) ListVehicles(ctx context.Context, limit int, offset int) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListVehicles(ctx, limit, offset)
}

func (s *registryService) CreateBooking(ctx context.Context, req dto.CreateBookingRequest, userID string) (*domain.Booking, error) {
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: booking end date must be after start date", apperrors.ErrValidation)
	}

	if _, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s not found", apperrors.ErrValidation, req.CustomerID)
		}
		return nil, err
	}
	if _, err := s.vehicleRepo.FindVehicleByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: vehicle %s not found", apperrors.ErrValidation, req.VehicleID)
		}
		return nil, err
	}

	booking := domain.Booking{
		BookingID:   uuid.NewString(),
		CustomerID:  req.CustomerID,
		VehicleID:   req.VehicleID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.BookingActive,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}

	if err := s.bookingRepo.SaveBooking(ctx, &booking); err != nil {
		s.LogError(ctx, err, "failed to save booking")
		return nil, err
	}

	s.LogInfo(ctx, "booking created",
		slog.String("booking_id", booking.BookingID),
		slog.String("customer_id", booking.CustomerID),
		slog.String("vehicle_id", booking.VehicleID))
	return &booking, nil
}

func (s *registryService) GetBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookingRepo.FindBookingByID(ctx, bookingID)
}

func (s *registryService) ListBookings(ctx context.Context, customerID *string, limit int, offset int) ([]domain.Booking, error) {
	return s.bookingRepo.ListBookings(ctx, customerID, limit, offset)
}

func (s *registryService) CompleteBooking(ctx context.Context, bookingID string, userID string) (*domain.Booking, error) {
	return s.transitionBooking(ctx, bookingID, userID, domain.BookingCompleted)
}

func (s *registryService) CancelBooking(ctx context.Context, bookingID string, userID string) (*domain.Booking, error) {
	return s.transitionBooking(ctx, bookingID, userID, domain.BookingCancelled)
}

func (s *registryService) transitionBooking(ctx context.Context, bookingID string, userID string, target domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingActive {
		return nil, fmt.Errorf("%w: booking %s is %s", apperrors.ErrValidation, bookingID, booking.Status)
	}

	booking.Status = target
	booking.LastUpdatedAt = time.Now().UTC()
	booking.LastUpdatedBy = userID

	if err := s.bookingRepo.UpdateBooking(ctx, booking); err != nil {
		s.LogError(ctx, err, "failed to update booking", slog.String("booking_id", bookingID))
		return nil, err
	}

	s.LogInfo(ctx, "booking updated",
		slog.String("booking_id", bookingID),
		slog.String("status", string(target)))
	return booking, nil
}
