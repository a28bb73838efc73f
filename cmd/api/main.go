package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/kabadiconnect/kabadi-backend/api/routes"
	"github.com/kabadiconnect/kabadi-backend/internal/config"
	"github.com/kabadiconnect/kabadi-backend/internal/events"
	"github.com/kabadiconnect/kabadi-backend/internal/handlers"
	"github.com/kabadiconnect/kabadi-backend/internal/otp"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	mongorepo "github.com/kabadiconnect/kabadi-backend/internal/repositories/mongodb"
	"github.com/kabadiconnect/kabadi-backend/internal/scheduler"
	"github.com/kabadiconnect/kabadi-backend/internal/services"
	"github.com/kabadiconnect/kabadi-backend/pkg/mongodb"
	"github.com/kabadiconnect/kabadi-backend/pkg/sms"
)

func main() {
	// .env is optional, real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger := newLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	// Repositories
	var collectorRepo repositories.CollectorRepository = mongorepo.NewCollectorRepository(db)
	var citizenRepo repositories.CitizenRepository = mongorepo.NewCitizenRepository(db)
	var txRepo repositories.TransactionRepository = mongorepo.NewTransactionRepository(db)
	redemptionRepoImpl := mongorepo.NewRedemptionRepository(db)
	if err := redemptionRepoImpl.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create redemption indexes")
	}
	var redemptionRepo repositories.RedemptionRepository = redemptionRepoImpl
	var ledgerRepo repositories.LedgerRepository = mongorepo.NewLedgerRepository(mongoClient.Raw(), db)
	var bookingRepo repositories.BookingRepository = mongorepo.NewBookingRepository(db)
	var adminRepo repositories.AdminRepository = mongorepo.NewAdminRepository(db)
	var configRepo repositories.ConfigRepository = mongorepo.NewConfigRepository(db)

	// Shared infrastructure
	otpStore := otp.NewRedisStore(redisClient)
	gateway := sms.NewMockGateway(logger)
	producer := events.NewProducer(cfg.Kafka, logger)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event producer")
		}
	}()
	locks := services.NewCollectorLocks()

	// Services
	configSvc := services.NewConfigService(configRepo, logger)
	ledgerSvc := services.NewLedgerService(collectorRepo, citizenRepo, txRepo, ledgerRepo, configSvc, producer, locks, logger)
	collectorSvc := services.NewCollectorService(collectorRepo, txRepo, redemptionRepo, ledgerRepo, configSvc, producer, locks, logger)
	citizenSvc := services.NewCitizenService(citizenRepo, txRepo, logger)
	bookingSvc := services.NewBookingService(bookingRepo, citizenRepo, collectorRepo, logger)
	authSvc := services.NewAuthService(citizenRepo, collectorRepo, adminRepo, otpStore, gateway, cfg, logger)
	adminSvc := services.NewAdminService(collectorRepo, citizenRepo, txRepo, configRepo, logger)

	if err := services.NewSeeder(adminRepo, configRepo, logger).Seed(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed defaults")
	}

	// Background jobs
	jobs := scheduler.New(cfg.Jobs, ledgerSvc, collectorSvc, logger)
	jobs.Start()
	defer jobs.Stop()

	router := routes.SetupRouter(cfg, logger, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authSvc),
		Transaction: handlers.NewTransactionHandler(ledgerSvc),
		Collector:   handlers.NewCollectorHandler(collectorSvc),
		Citizen:     handlers.NewCitizenHandler(citizenSvc),
		Booking:     handlers.NewBookingHandler(bookingSvc),
		Admin:       handlers.NewAdminHandler(adminSvc, ledgerSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
