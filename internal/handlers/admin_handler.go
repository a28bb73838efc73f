package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// AdminHandler handles back-office requests
type AdminHandler struct {
	adminService  *services.AdminService
	ledgerService *services.LedgerService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *services.AdminService, ledgerService *services.LedgerService) *AdminHandler {
	return &AdminHandler{adminService: adminService, ledgerService: ledgerService}
}

// GetOverview handles GET /admin/overview
func (h *AdminHandler) GetOverview(c *gin.Context) {
	overview, err := h.adminService.GetOverview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ListCollectors handles GET /admin/collectors
func (h *AdminHandler) ListCollectors(c *gin.Context) {
	collectors, err := h.adminService.ListCollectors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectors)
}

// ListCitizens handles GET /admin/citizens
func (h *AdminHandler) ListCitizens(c *gin.Context) {
	citizens, err := h.adminService.ListCitizens(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, citizens)
}

// ListTransactions handles GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	txs, err := h.adminService.ListTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// ListConfig handles GET /admin/config
func (h *AdminHandler) ListConfig(c *gin.Context) {
	entries, err := h.adminService.ListConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type setConfigRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// SetConfig handles PUT /admin/config
func (h *AdminHandler) SetConfig(c *gin.Context) {
	var req setConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.adminService.SetConfig(c.Request.Context(), req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "config updated"})
}

// RunDailyReset handles POST /admin/jobs/daily-reset, a manual trigger for
// the scheduled job.
func (h *AdminHandler) RunDailyReset(c *gin.Context) {
	count, err := h.ledgerService.RunDailyReset(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collectorsReset": count})
}
