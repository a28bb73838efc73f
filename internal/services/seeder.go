package services

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	"github.com/kabadiconnect/kabadi-backend/internal/rewards"
)

// Seeder writes the default admin user and reward config on first boot.
// Existing records are left untouched, so it is safe to run on every start.
type Seeder struct {
	adminRepo  repositories.AdminRepository
	configRepo repositories.ConfigRepository
	logger     zerolog.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(adminRepo repositories.AdminRepository, configRepo repositories.ConfigRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{adminRepo: adminRepo, configRepo: configRepo, logger: logger}
}

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin@123"
)

// Seed ensures the default admin and reward tunables exist.
func (s *Seeder) Seed(ctx context.Context) error {
	if _, err := s.adminRepo.FindByUsername(ctx, defaultAdminUsername); apperrors.IsNotFound(err) {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Internal("failed to hash default admin password", err)
		}
		if err := s.adminRepo.Create(ctx, &models.Admin{Username: defaultAdminUsername, PasswordHash: string(hash)}); err != nil {
			return err
		}
		s.logger.Info().Str("username", defaultAdminUsername).Msg("seeded default admin user")
	} else if err != nil {
		return err
	}

	defaults := map[string]string{
		models.ConfigKeyDailyThresholdKg:    strconv.FormatFloat(rewards.Defaults.DailyThresholdKg, 'f', -1, 64),
		models.ConfigKeyKCoinsPerExtraKg:    strconv.FormatFloat(rewards.Defaults.KgPerCoin, 'f', -1, 64),
		models.ConfigKeyRedemptionThreshold: strconv.Itoa(rewards.Defaults.RedemptionCost),
		models.ConfigKeyRedemptionValidity:  strconv.Itoa(rewards.Defaults.ValidityDays),
	}
	for key, value := range defaults {
		if _, err := s.configRepo.FindByKey(ctx, key); apperrors.IsNotFound(err) {
			if err := s.configRepo.UpsertByKey(ctx, key, value); err != nil {
				return err
			}
			s.logger.Info().Str("key", key).Str("value", value).Msg("seeded reward config default")
		} else if err != nil {
			return err
		}
	}
	return nil
}
