package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/migueldeguzman/web-erp-app-sub001/internal/core/ports/services"
	"github.com/migueldeguzman/web-erp-app-sub001/internal/dto"
)

// registryHandler handles HTTP requests for customers, vehicles and bookings.
type registryHandler struct {
	registryService portssvc.RegistrySvcFacade
}

func newRegistryHandler(rs portssvc.RegistrySvcFacade) *registryHandler {
	return &registryHandler{registryService: rs}
}

// registerRegistryRoutes registers customer, vehicle and booking routes.
func registerRegistryRoutes(rg *gin.RouterGroup, registryService portssvc.RegistrySvcFacade) {
	h := newRegistryHandler(registryService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:id", h.getCustomer)
	}

	vehicles := rg.Group("/vehicles")
	{
		vehicles.POST("", h.createVehicle)
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/:id", h.getVehicle)
	}

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/:id", h.getBooking)
		bookings.POST("/:id/complete", h.completeBooking)
		bookings.POST("/:id/cancel", h.cancelBooking)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags registry
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /customers [post]
func (h *registryHandler) createCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	customer, err := h.registryService.CreateCustomer(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Tags registry
// @Produce  json
// @Param   id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /customers/{id} [get]
func (h *registryHandler) getCustomer(c *gin.Context) {
	customer, err := h.registryService.GetCustomerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers
// @Tags registry
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.CustomerResponse
// @Security BearerAuth
// @Router /customers [get]
func (h *registryHandler) listCustomers(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	customers, err := h.registryService.ListCustomers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list customers")
		return
	}

	res := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		res[i] = dto.ToCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, res)
}

// createVehicle godoc
// @Summary Register a fleet vehicle
// @Tags registry
// @Accept  json
// @Produce  json
// @Param   vehicle body dto.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} dto.VehicleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Duplicate registration number"
// @Security BearerAuth
// @Router /vehicles [post]
func (h *registryHandler) createVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	vehicle, err := h.registryService.CreateVehicle(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create vehicle")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVehicleResponse(vehicle))
}

// getVehicle godoc
// @Summary Get a vehicle by ID
// @Tags registry
// @Produce  json
// @Param   id path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponse
// @Failure 404 {object} map[string]string "Vehicle not found"
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *registryHandler) getVehicle(c *gin.Context) {
	vehicle, err := h.registryService.GetVehicleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve vehicle")
		return
	}
	c.JSON(http.StatusOK, dto.ToVehicleResponse(vehicle))
}

// listVehicles godoc
// @Summary List fleet vehicles
// @Tags registry
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.VehicleResponse
// @Security BearerAuth
// @Router /vehicles [get]
func (h *registryHandler) listVehicles(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	vehicles, err := h.registryService.ListVehicles(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list vehicles")
		return
	}

	res := make([]dto.VehicleResponse, len(vehicles))
	for i := range vehicles {
		res[i] = dto.ToVehicleResponse(&vehicles[i])
	}
	c.JSON(http.StatusOK, res)
}

// createBooking godoc
// @Summary Create a rental booking
// @Tags registry
// @Accept  json
// @Produce  json
// @Param   booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown customer/vehicle"
// @Security BearerAuth
// @Router /bookings [post]
func (h *registryHandler) createBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	booking, err := h.registryService.CreateBooking(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

// getBooking godoc
// @Summary Get a booking by ID
// @Tags registry
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (h *registryHandler) getBooking(c *gin.Context) {
	booking, err := h.registryService.GetBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve booking")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// listBookings godoc
// @Summary List bookings
// @Tags registry
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Param   customerID query string false "Filter by customer"
// @Success 200 {array} dto.BookingResponse
// @Security BearerAuth
// @Router /bookings [get]
func (h *registryHandler) listBookings(c *gin.Context) {
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var customerID *string
	if raw := c.Query("customerID"); raw != "" {
		customerID = &raw
	}

	bookings, err := h.registryService.ListBookings(c.Request.Context(), customerID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}

	res := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		res[i] = dto.ToBookingResponse(&bookings[i])
	}
	c.JSON(http.StatusOK, res)
}

// completeBooking godoc
// @Summary Mark an active booking completed
// @Tags registry
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Security BearerAuth
// @Router /bookings/{id}/complete [post]
func (h *registryHandler) completeBooking(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	booking, err := h.registryService.CompleteBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to complete booking")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// cancelBooking godoc
// @Summary Cancel an active booking
// @Tags registry
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Security BearerAuth
// @Router /bookings/{id}/cancel [post]
func (h *registryHandler) cancelBooking(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	booking, err := h.registryService.CancelBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
