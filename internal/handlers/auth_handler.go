package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kabadiconnect/kabadi-backend/internal/services"
)

// AuthHandler handles OTP and admin login requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type sendOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// SendOTP handles POST /auth/otp/send
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mockCode, err := h.authService.SendOTP(c.Request.Context(), req.Mobile, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"message": "OTP sent"}
	if mockCode != "" {
		resp["otp"] = mockCode
	}
	c.JSON(http.StatusOK, resp)
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	Role   string `json:"role" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

// VerifyOTP handles POST /auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.VerifyOTP(c.Request.Context(), req.Mobile, req.Role, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RegisterCitizen handles POST /auth/register/citizen
func (h *AuthHandler) RegisterCitizen(c *gin.Context) {
	var req services.CitizenRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.RegisterCitizen(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RegisterCollector handles POST /auth/register/collector
func (h *AuthHandler) RegisterCollector(c *gin.Context) {
	var req services.CollectorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.RegisterCollector(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
