package handler

import (
	"net/http"

	"clinicpos/internal/middleware"
	"clinicpos/internal/service"
	"clinicpos/pkg/pagination"
	"clinicpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/api/bookings", middleware.RequireAuth())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/redeemable", h.ListRedeemable)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id/cancel", h.CancelBooking)
	}
}

// CreateBooking records an advance deposit
// @Summary      Create advance booking
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookingRequest  true  "Create Booking Payload"
// @Success      201      {object}  response.Response{data=service.BookingResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, booking))
}

// ListBookings returns a paginated list of bookings
// @Summary      List bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (ACTIVE, CONSUMED, CANCELLED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	params := pagination.Parse(c)

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListRedeemable returns a patient's bookings still available for redemption
// @Summary      List redeemable bookings
// @Description  ACTIVE bookings for the patient that no payment record has claimed
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        patient_id  query     string  true  "Patient ID"
// @Success      200         {object}  response.Response{data=[]service.BookingResponse}
// @Failure      400         {object}  response.Response
// @Router       /api/bookings/redeemable [get]
func (h *BookingHandler) ListRedeemable(c *gin.Context) {
	patientID := c.Query("patient_id")
	if patientID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "patient_id is required"))
		return
	}

	bookings, err := h.bookingService.ListRedeemable(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bookings))
}

// GetBooking returns one booking
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}

// CancelBooking cancels an ACTIVE booking
// @Summary      Cancel booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Booking ID"
// @Success      200  {object}  response.Response{data=service.BookingResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/bookings/{id}/cancel [put]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, booking))
}
