package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// CollectorHandler handles collector profile, coin and search requests
type CollectorHandler struct {
	collectorService *services.CollectorService
}

// NewCollectorHandler creates a new CollectorHandler
func NewCollectorHandler(collectorService *services.CollectorService) *CollectorHandler {
	return &CollectorHandler{collectorService: collectorService}
}

// GetProfile handles GET /collector/profile
func (h *CollectorHandler) GetProfile(c *gin.Context) {
	collector, err := h.collectorService.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collector)
}

// UpdateProfile handles PUT /collector/profile
func (h *CollectorHandler) UpdateProfile(c *gin.Context) {
	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collector, err := h.collectorService.UpdateProfile(c.Request.Context(), callerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collector)
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

// UpdateLanguage handles PUT /collector/language
func (h *CollectorHandler) UpdateLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.collectorService.UpdateLanguage(c.Request.Context(), callerID(c), req.Language); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "language updated"})
}

// GetDashboard handles GET /collector/dashboard
func (h *CollectorHandler) GetDashboard(c *gin.Context) {
	dash, err := h.collectorService.GetDashboard(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// GetCoinStatus handles GET /collector/kcoins
func (h *CollectorHandler) GetCoinStatus(c *gin.Context) {
	status, err := h.collectorService.GetCoinStatus(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type redeemRequest struct {
	Commodity string `json:"commodity" binding:"required"`
}

// Redeem handles POST /collector/kcoins/redeem
func (h *CollectorHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.collectorService.Redeem(c.Request.Context(), callerID(c), req.Commodity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseCoords(c *gin.Context) (float64, float64, bool) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return 0, 0, false
	}
	return lat, lng, true
}

// FindNearby handles GET /collectors/nearby?lat=..&lng=..&radiusKm=..
func (h *CollectorHandler) FindNearby(c *gin.Context) {
	lat, lng, ok := parseCoords(c)
	if !ok {
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radiusKm", "10"), 64)
	if err != nil || radius <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "radiusKm must be a positive number"})
		return
	}

	collectors, err := h.collectorService.FindNearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectors)
}

// FindPriority handles GET /collectors/priority?lat=..&lng=..
func (h *CollectorHandler) FindPriority(c *gin.Context) {
	lat, lng, ok := parseCoords(c)
	if !ok {
		return
	}

	collectors, err := h.collectorService.FindPriority(c.Request.Context(), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectors)
}
