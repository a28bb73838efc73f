package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// CitizenHandler handles citizen profile and dashboard requests
type CitizenHandler struct {
	citizenService *services.CitizenService
}

// NewCitizenHandler creates a new CitizenHandler
func NewCitizenHandler(citizenService *services.CitizenService) *CitizenHandler {
	return &CitizenHandler{citizenService: citizenService}
}

// GetProfile handles GET /citizen/profile
func (h *CitizenHandler) GetProfile(c *gin.Context) {
	citizen, err := h.citizenService.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, citizen)
}

// UpdateProfile handles PUT /citizen/profile
func (h *CitizenHandler) UpdateProfile(c *gin.Context) {
	var req services.CitizenProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	citizen, err := h.citizenService.UpdateProfile(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, citizen)
}

// UpdateLanguage handles PUT /citizen/language
func (h *CitizenHandler) UpdateLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.citizenService.UpdateLanguage(c.Request.Context(), callerID(c), req.Language); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "language updated"})
}

// GetDashboard handles GET /citizen/dashboard
func (h *CitizenHandler) GetDashboard(c *gin.Context) {
	dash, err := h.citizenService.GetDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
