package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/migueldeguzman/web-erp-app-sub001/internal/apperrors"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/core/domain"
	portsrepo "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/repositories"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/models"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/utils/mapping"
)

type PgxCustomerRepository struct {
	pool *pgxpool.Pool
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepository {
	return &PgxCustomerRepository{pool: pool}
}

var _ portsrepo.CustomerRepository = (*PgxCustomerRepository)(nil)

const customerColumns = `customer_id, name, email, phone, created_at, created_by, last_updated_at, last_updated_by`

// SaveCustomer inserts a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer *domain.Customer) error {
	m := mapping.ToModelCustomer(*customer)

	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.pool.Exec(ctx, query,
		m.CustomerID, m.Name, m.Email, m.Phone,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: customer %s already exists", apperrors.ErrDuplicate, m.CustomerID)
		}
		return apperrors.NewAppError(500, "failed to save customer "+m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	var m models.Customer
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&m.CustomerID, &m.Name, &m.Email, &m.Phone,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find customer "+customerID, err)
	}

	d := mapping.ToDomainCustomer(m)
	return &d, nil
}

// ListCustomers retrieves a paginated list of customers ordered by name.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, limit int, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name LIMIT $1 OFFSET $2;`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query customers", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var m models.Customer
		if err := rows.Scan(
			&m.CustomerID, &m.Name, &m.Email, &m.Phone,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan customer row", err)
		}
		customers = append(customers, mapping.ToDomainCustomer(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating customer rows", err)
	}
	return customers, nil
}

type PgxVehicleRepository struct {
	pool *pgxpool.Pool
}

// newPgxVehicleRepository creates a new repository for vehicle data.
func newPgxVehicleRepository(pool *pgxpool.Pool) portsrepo.VehicleRepository {
	return &PgxVehicleRepository{pool: pool}
}

var _ portsrepo.VehicleRepository = (*PgxVehicleRepository)(nil)

const vehicleColumns = `vehicle_id, registration_no, make, model, daily_rate, created_at, created_by, last_updated_at, last_updated_by`

// SaveVehicle inserts a new vehicle. The registration number is unique.
func (r *PgxVehicleRepository) SaveVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	m := mapping.ToModelVehicle(*vehicle)

	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		m.VehicleID, m.RegistrationNo, m.Make, m.Model, m.DailyRate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: vehicle with registration %s already exists", apperrors.ErrDuplicate, m.RegistrationNo)
		}
		return apperrors.NewAppError(500, "failed to save vehicle "+m.VehicleID, err)
	}
	return nil
}

// FindVehicleByID retrieves a vehicle by ID.
func (r *PgxVehicleRepository) FindVehicleByID(ctx context.Context, vehicleID string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE vehicle_id = $1;`

	var m models.Vehicle
	err := r.pool.QueryRow(ctx, query, vehicleID).Scan(
		&m.VehicleID, &m.RegistrationNo, &m.Make, &m.Model, &m.DailyRate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find vehicle "+vehicleID, err)
	}

	d := mapping.ToDomainVehicle(m)
	return &d, nil
}

// ListVehicles retrieves a paginated list of vehicles ordered by registration.
func (r *PgxVehicleRepository) ListVehicles(ctx context.Context, limit int, offset int) ([]domain.Vehicle, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY registration_no LIMIT $1 OFFSET $2;`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vehicles", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		var m models.Vehicle
		if err := rows.Scan(
			&m.VehicleID, &m.RegistrationNo, &m.Make, &m.Model, &m.DailyRate,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan vehicle row", err)
		}
		vehicles = append(vehicles, mapping.ToDomainVehicle(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating vehicle rows", err)
	}
	return vehicles, nil
}

type PgxBookingRepository struct {
	pool *pgxpool.Pool
}

// newPgxBookingRepository creates a new repository for booking data.
func newPgxBookingRepository(pool *pgxpool.Pool) portsrepo.BookingRepository {
	return &PgxBookingRepository{pool: pool}
}

var _ portsrepo.BookingRepository = (*PgxBookingRepository)(nil)

const bookingColumns = `booking_id, customer_id, vehicle_id, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

// SaveBooking inserts a new booking.
func (r *PgxBookingRepository) SaveBooking(ctx context.Context, booking *domain.Booking) error {
	m := mapping.ToModelBooking(*booking)

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.BookingID, m.CustomerID, m.VehicleID, m.StartDate, m.EndDate, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: booking %s already exists", apperrors.ErrDuplicate, m.BookingID)
		}
		return apperrors.NewAppError(500, "failed to save booking "+m.BookingID, err)
	}
	return nil
}

// UpdateBooking persists a booking's mutable fields, chiefly its status.
func (r *PgxBookingRepository) UpdateBooking(ctx context.Context, booking *domain.Booking) error {
	m := mapping.ToModelBooking(*booking)

	query := `
		UPDATE bookings
		SET start_date = $2, end_date = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE booking_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.BookingID, m.StartDate, m.EndDate, m.Status, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update booking "+m.BookingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindBookingByID retrieves a booking by ID.
func (r *PgxBookingRepository) FindBookingByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_id = $1;`

	var m models.Booking
	err := r.pool.QueryRow(ctx, query, bookingID).Scan(
		&m.BookingID, &m.CustomerID, &m.VehicleID, &m.StartDate, &m.EndDate, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find booking "+bookingID, err)
	}

	d := mapping.ToDomainBooking(m)
	return &d, nil
}

// ListBookings retrieves bookings newest first, optionally per customer.
func (r *PgxBookingRepository) ListBookings(ctx context.Context, customerID *string, limit int, offset int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE TRUE`
	args := []interface{}{}
	if customerID != nil && *customerID != "" {
		args = append(args, *customerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY start_date DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d;", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bookings", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var m models.Booking
		if err := rows.Scan(
			&m.BookingID, &m.CustomerID, &m.VehicleID, &m.StartDate, &m.EndDate, &m.Status,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan booking row", err)
		}
		bookings = append(bookings, mapping.ToDomainBooking(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating booking rows", err)
	}
	return bookings, nil
}
