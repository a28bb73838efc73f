package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// TransactionHandler handles pickup transaction requests
type TransactionHandler struct {
	ledgerService *services.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

type logTransactionRequest struct {
	CitizenID    string  `json:"citizenId"`
	MaterialType string  `json:"materialType" binding:"required"`
	WeightKg     float64 `json:"weightKg" binding:"required"`
	PricePerKg   float64 `json:"pricePerKg" binding:"required"`
}

// LogTransaction handles POST /collector/transactions. The collector id is
// taken from the token, never from the body.
func (h *TransactionHandler) LogTransaction(c *gin.Context) {
	var req logTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.ledgerService.LogTransaction(c.Request.Context(), services.TransactionRequest{
		CollectorID:  callerID(c),
		CitizenID:    req.CitizenID,
		MaterialType: req.MaterialType,
		WeightKg:     req.WeightKg,
		PricePerKg:   req.PricePerKg,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// CollectorTransactions handles GET /collector/transactions?filter=daily
func (h *TransactionHandler) CollectorTransactions(c *gin.Context) {
	txs, err := h.ledgerService.CollectorTransactions(c.Request.Context(), callerID(c), c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// CitizenTransactions handles GET /citizen/transactions?filter=monthly
func (h *TransactionHandler) CitizenTransactions(c *gin.Context) {
	txs, err := h.ledgerService.CitizenTransactions(c.Request.Context(), callerID(c), c.Query("filter"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}
