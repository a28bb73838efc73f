package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// AdminOverview is the back-office landing summary.
type AdminOverview struct {
	Collectors   int64 `json:"collectors"`
	Citizens     int64 `json:"citizens"`
	Transactions int64 `json:"transactions"`
}

// AdminService serves the back-office: entity listings and reward config.
type AdminService struct {
	collectorRepo repositories.CollectorRepository
	citizenRepo   repositories.CitizenRepository
	txRepo        repositories.TransactionRepository
	configRepo    repositories.ConfigRepository
	logger        zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	collectorRepo repositories.CollectorRepository,
	citizenRepo repositories.CitizenRepository,
	txRepo repositories.TransactionRepository,
	configRepo repositories.ConfigRepository,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		collectorRepo: collectorRepo,
		citizenRepo:   citizenRepo,
		txRepo:        txRepo,
		configRepo:    configRepo,
		logger:        logger,
	}
}

// GetOverview returns entity counts for the dashboard
func (s *AdminService) GetOverview(ctx context.Context) (*AdminOverview, error) {
	collectors, err := s.collectorRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	citizens, err := s.citizenRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminOverview{Collectors: collectors, Citizens: citizens, Transactions: transactions}, nil
}

// ListCollectors returns all collectors
func (s *AdminService) ListCollectors(ctx context.Context) ([]*models.Collector, error) {
	return s.collectorRepo.FindAll(ctx)
}

// ListCitizens returns all citizens
func (s *AdminService) ListCitizens(ctx context.Context) ([]*models.Citizen, error) {
	return s.citizenRepo.FindAll(ctx)
}

// ListTransactions returns all transactions, newest first
func (s *AdminService) ListTransactions(ctx context.Context) ([]*models.Transaction, error) {
	return s.txRepo.FindAll(ctx)
}

// ListConfig returns every admin config entry
func (s *AdminService) ListConfig(ctx context.Context) ([]*models.AdminConfig, error) {
	return s.configRepo.FindAll(ctx)
}

// rewardConfigKinds maps reward keys to the numeric validation they need.
// Unknown keys are accepted as free-form strings.
var rewardConfigKinds = map[string]string{
	models.ConfigKeyDailyThresholdKg:    "float",
	models.ConfigKeyKCoinsPerExtraKg:    "float",
	models.ConfigKeyRedemptionThreshold: "int",
	models.ConfigKeyRedemptionValidity:  "int",
}

// SetConfig validates and upserts one config entry. Reward tunables must be
// positive numbers; changes take effect on the next ledger operation, already
// earned coins and running daily totals are never recomputed.
func (s *AdminService) SetConfig(ctx context.Context, key, value string) error {
	if key == "" || value == "" {
		return apperrors.Validation("key and value are required")
	}
	switch rewardConfigKinds[key] {
	case "float":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v <= 0 {
			return apperrors.Validation("%s must be a positive number", key)
		}
	case "int":
		v, err := strconv.Atoi(value)
		if err != nil || v <= 0 {
			return apperrors.Validation("%s must be a positive integer", key)
		}
	}
	if err := s.configRepo.UpsertByKey(ctx, key, value); err != nil {
		return err
	}
	s.logger.Info().Str("key", key).Str("value", value).Msg("admin config updated")
	return nil
}
