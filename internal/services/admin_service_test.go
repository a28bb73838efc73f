package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/rs/zerolog"
)

func TestSetConfig_Validation(t *testing.T) {
	configRepo := newFakeConfigRepo()
	svc := NewAdminService(newFakeCollectorRepo(), newFakeCitizenRepo(), newFakeTransactionRepo(), configRepo, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.SetConfig(ctx, models.ConfigKeyDailyThresholdKg, "25.5"))
	require.NoError(t, svc.SetConfig(ctx, models.ConfigKeyRedemptionValidity, "3"))

	assert.True(t, apperrors.IsValidation(svc.SetConfig(ctx, models.ConfigKeyDailyThresholdKg, "abc")))
	assert.True(t, apperrors.IsValidation(svc.SetConfig(ctx, models.ConfigKeyDailyThresholdKg, "-1")))
	assert.True(t, apperrors.IsValidation(svc.SetConfig(ctx, models.ConfigKeyRedemptionThreshold, "2.5")))
	assert.True(t, apperrors.IsValidation(svc.SetConfig(ctx, models.ConfigKeyRedemptionThreshold, "0")))
	assert.True(t, apperrors.IsValidation(svc.SetConfig(ctx, "", "1")))

	// free-form keys are stored as-is
	require.NoError(t, svc.SetConfig(ctx, "support_phone", "1800-123-456"))

	entry, err := configRepo.FindByKey(ctx, models.ConfigKeyDailyThresholdKg)
	require.NoError(t, err)
	assert.Equal(t, "25.5", entry.Value)
}

func TestSeeder_Idempotent(t *testing.T) {
	adminRepo := newFakeAdminRepo()
	configRepo := newFakeConfigRepo()
	seeder := NewSeeder(adminRepo, configRepo, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, seeder.Seed(ctx))

	admin, err := adminRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	firstHash := admin.PasswordHash

	entries, err := configRepo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	// a second run changes nothing, including admin-edited values
	require.NoError(t, configRepo.UpsertByKey(ctx, models.ConfigKeyDailyThresholdKg, "25"))
	require.NoError(t, seeder.Seed(ctx))

	admin, err = adminRepo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, firstHash, admin.PasswordHash)

	entry, err := configRepo.FindByKey(ctx, models.ConfigKeyDailyThresholdKg)
	require.NoError(t, err)
	assert.Equal(t, "25", entry.Value)
}
