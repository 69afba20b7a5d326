package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

type RegistryServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	mockVehicleRepo  *MockVehicleRepository
	mockBookingRepo  *MockBookingRepository
	service          portssvc.RegistrySvcFacade
	userID           string
}

func (suite *RegistryServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockVehicleRepo = new(MockVehicleRepository)
	suite.mockBookingRepo = new(MockBookingRepository)
	suite.service = services.NewRegistryService(portsrepo.RepositoryProvider{
		CustomerRepo: suite.mockCustomerRepo,
		VehicleRepo:  suite.mockVehicleRepo,
		BookingRepo:  suite.mockBookingRepo,
	})
	suite.userID = uuid.NewString()
}

func (suite *RegistryServiceTestSuite) TestCreateCustomer_Success() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "Acme Logistics", Email: "ops@acme.test"}

	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("*domain.Customer")).
		Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotEmpty(customer.CustomerID)
	suite.Equal(req.Name, customer.Name)
	suite.Equal(suite.userID, customer.CreatedBy)
}

func (suite *RegistryServiceTestSuite) TestCreateCustomer_MissingName() {
	_, err := suite.service.CreateCustomer(context.Background(), dto.CreateCustomerRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "SaveCustomer")
}

func (suite *RegistryServiceTestSuite) TestCreateVehicle_DuplicateRegistration() {
	ctx := context.Background()
	req := dto.CreateVehicleRequest{RegistrationNo: "ABC-1234", Make: "Toyota", Model: "HiAce", DailyRate: decimal.RequireFromString("85.00")}

	suite.mockVehicleRepo.On("SaveVehicle", ctx, mock.AnythingOfType("*domain.Vehicle")).
		Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateVehicle(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *RegistryServiceTestSuite) TestCreateVehicle_NonPositiveRate() {
	req := dto.CreateVehicleRequest{RegistrationNo: "ABC-1234", Make: "Toyota", Model: "HiAce", DailyRate: decimal.Zero}

	_, err := suite.service.CreateVehicle(context.Background(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVehicleRepo.AssertNotCalled(suite.T(), "SaveVehicle")
}

func (suite *RegistryServiceTestSuite) TestCreateBooking_Success() {
	ctx := context.Background()
	customerID := uuid.NewString()
	vehicleID := uuid.NewString()
	start := time.Now().AddDate(0, 0, 1)
	req := dto.CreateBookingRequest{
		CustomerID: customerID,
		VehicleID:  vehicleID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).
		Return(&domain.Customer{CustomerID: customerID, Name: "Acme"}, nil).Once()
	suite.mockVehicleRepo.On("FindVehicleByID", ctx, vehicleID).
		Return(&domain.Vehicle{VehicleID: vehicleID, RegistrationNo: "ABC-1234"}, nil).Once()
	suite.mockBookingRepo.On("SaveBooking", ctx, mock.AnythingOfType("*domain.Booking")).
		Return(nil).Once()

	booking, err := suite.service.CreateBooking(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BookingActive, booking.Status)
	suite.mockBookingRepo.AssertExpectations(suite.T())
}

func (suite *RegistryServiceTestSuite) TestCreateBooking_EndBeforeStart() {
	start := time.Now()
	req := dto.CreateBookingRequest{
		CustomerID: uuid.NewString(),
		VehicleID:  uuid.NewString(),
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, -1),
	}

	_, err := suite.service.CreateBooking(context.Background(), req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByID")
}

func (suite *RegistryServiceTestSuite) TestCreateBooking_UnknownVehicle() {
	ctx := context.Background()
	customerID := uuid.NewString()
	vehicleID := uuid.NewString()
	start := time.Now()
	req := dto.CreateBookingRequest{CustomerID: customerID, VehicleID: vehicleID, StartDate: start, EndDate: start.AddDate(0, 0, 2)}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, customerID).
		Return(&domain.Customer{CustomerID: customerID}, nil).Once()
	suite.mockVehicleRepo.On("FindVehicleByID", ctx, vehicleID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateBooking(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "SaveBooking")
}

func (suite *RegistryServiceTestSuite) TestCompleteBooking_Active() {
	ctx := context.Background()
	booking := &domain.Booking{BookingID: uuid.NewString(), Status: domain.BookingActive}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).
		Return(booking, nil).Once()
	suite.mockBookingRepo.On("UpdateBooking", ctx, booking).
		Return(nil).Once()

	updated, err := suite.service.CompleteBooking(ctx, booking.BookingID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.BookingCompleted, updated.Status)
}

func (suite *RegistryServiceTestSuite) TestCancelBooking_AlreadyCompleted() {
	ctx := context.Background()
	booking := &domain.Booking{BookingID: uuid.NewString(), Status: domain.BookingCompleted}

	suite.mockBookingRepo.On("FindBookingByID", ctx, booking.BookingID).
		Return(booking, nil).Once()

	_, err := suite.service.CancelBooking(ctx, booking.BookingID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBookingRepo.AssertNotCalled(suite.T(), "UpdateBooking")
}

func TestRegistryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceTestSuite))
}
