package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kabadiconnect/kabadi-backend/internal/config"
	"github.com/kabadiconnect/kabadi-backend/internal/handlers"
	"github.com/kabadiconnect/kabadi-backend/internal/middleware"
	"github.com/kabadiconnect/kabadi-backend/internal/utils"
)

// Handlers bundles the wired handlers for the router.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Transaction *handlers.TransactionHandler
	Collector   *handlers.CollectorHandler
	Citizen     *handlers.CitizenHandler
	Booking     *handlers.BookingHandler
	Admin       *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, logger zerolog.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/otp/send", h.Auth.SendOTP)
			auth.POST("/otp/verify", h.Auth.VerifyOTP)
			auth.POST("/register/citizen", h.Auth.RegisterCitizen)
			auth.POST("/register/collector", h.Auth.RegisterCollector)
			auth.POST("/admin/login", h.Auth.AdminLogin)
		}

		// Collector discovery is open to citizens' apps before login
		public.GET("/collectors/nearby", h.Collector.FindNearby)
		public.GET("/collectors/priority", h.Collector.FindPriority)
	}

	// Collector routes
	collector := router.Group("/api/v1/collector")
	collector.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireRole(utils.RoleCollector))
	{
		collector.GET("/profile", h.Collector.GetProfile)
		collector.PUT("/profile", h.Collector.UpdateProfile)
		collector.PUT("/language", h.Collector.UpdateLanguage)
		collector.GET("/dashboard", h.Collector.GetDashboard)

		collector.POST("/transactions", h.Transaction.LogTransaction)
		collector.GET("/transactions", h.Transaction.CollectorTransactions)

		collector.GET("/kcoins", h.Collector.GetCoinStatus)
		collector.POST("/kcoins/redeem", h.Collector.Redeem)

		collector.GET("/bookings", h.Booking.ListForCollector)
		collector.PUT("/bookings/:id/status", h.Booking.UpdateStatus)
	}

	// Citizen routes
	citizen := router.Group("/api/v1/citizen")
	citizen.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireRole(utils.RoleCitizen))
	{
		citizen.GET("/profile", h.Citizen.GetProfile)
		citizen.PUT("/profile", h.Citizen.UpdateProfile)
		citizen.PUT("/language", h.Citizen.UpdateLanguage)
		citizen.GET("/dashboard", h.Citizen.GetDashboard)

		citizen.GET("/transactions", h.Transaction.CitizenTransactions)

		citizen.POST("/bookings", h.Booking.Create)
		citizen.GET("/bookings", h.Booking.ListForCitizen)
		citizen.PUT("/bookings/:id", h.Booking.Edit)
		citizen.DELETE("/bookings/:id", h.Booking.Cancel)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireRole(utils.RoleAdmin))
	{
		admin.GET("/overview", h.Admin.GetOverview)
		admin.GET("/collectors", h.Admin.ListCollectors)
		admin.GET("/citizens", h.Admin.ListCitizens)
		admin.GET("/transactions", h.Admin.ListTransactions)
		admin.GET("/config", h.Admin.ListConfig)
		admin.PUT("/config", h.Admin.SetConfig)
		admin.POST("/jobs/daily-reset", h.Admin.RunDailyReset)
	}

	return router
}
