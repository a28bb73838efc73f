package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	"github.com/kabadiconnect/kabadi-backend/internal/rewards"
)

// ConfigService reads reward tunables from the admin config store, falling
// back to defaults when a key is absent or unparseable.
type ConfigService struct {
	configRepo repositories.ConfigRepository
	logger     zerolog.Logger
}

// NewConfigService creates a new ConfigService
func NewConfigService(configRepo repositories.ConfigRepository, logger zerolog.Logger) *ConfigService {
	return &ConfigService{configRepo: configRepo, logger: logger}
}

// GetInt returns the integer value for key, or def when absent or invalid
func (s *ConfigService) GetInt(ctx context.Context, key string, def int) int {
	entry, err := s.configRepo.FindByKey(ctx, key)
	if err != nil {
		return def
	}
	v, err := strconv.Atoi(entry.Value)
	if err != nil {
		s.logger.Warn().Str("key", key).Str("value", entry.Value).Msg("non-integer config value, using default")
		return def
	}
	return v
}

// GetFloat returns the float value for key, or def when absent or invalid
func (s *ConfigService) GetFloat(ctx context.Context, key string, def float64) float64 {
	entry, err := s.configRepo.FindByKey(ctx, key)
	if err != nil {
		return def
	}
	v, err := strconv.ParseFloat(entry.Value, 64)
	if err != nil {
		s.logger.Warn().Str("key", key).Str("value", entry.Value).Msg("non-numeric config value, using default")
		return def
	}
	return v
}

// RewardParams returns the current reward tunables as one consistent read
func (s *ConfigService) RewardParams(ctx context.Context) rewards.Params {
	return rewards.Params{
		DailyThresholdKg: s.GetFloat(ctx, models.ConfigKeyDailyThresholdKg, rewards.Defaults.DailyThresholdKg),
		KgPerCoin:        s.GetFloat(ctx, models.ConfigKeyKCoinsPerExtraKg, rewards.Defaults.KgPerCoin),
		RedemptionCost:   s.GetInt(ctx, models.ConfigKeyRedemptionThreshold, rewards.Defaults.RedemptionCost),
		ValidityDays:     s.GetInt(ctx, models.ConfigKeyRedemptionValidity, rewards.Defaults.ValidityDays),
	}
}
