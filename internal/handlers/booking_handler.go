package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// BookingHandler handles pickup booking requests
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create handles POST /citizen/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListForCitizen handles GET /citizen/bookings
func (h *BookingHandler) ListForCitizen(c *gin.Context) {
	bookings, err := h.bookingService.ListByCitizen(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Edit handles PUT /citizen/bookings/:id
func (h *BookingHandler) Edit(c *gin.Context) {
	var req services.BookingUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.Edit(c.Request.Context(), callerID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Cancel handles DELETE /citizen/bookings/:id
func (h *BookingHandler) Cancel(c *gin.Context) {
	booking, err := h.bookingService.Cancel(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListForCollector handles GET /collector/bookings
func (h *BookingHandler) ListForCollector(c *gin.Context) {
	bookings, err := h.bookingService.ListByCollector(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

type bookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /collector/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), callerID(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
