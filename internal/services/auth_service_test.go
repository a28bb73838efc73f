package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/config"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/utils"
	"github.com/rs/zerolog"
)

// memOTPStore is a map-backed OTP store for tests. TTL is ignored.
type memOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

func newMemOTPStore() *memOTPStore { return &memOTPStore{codes: make(map[string]string)} }

func (s *memOTPStore) Save(ctx context.Context, mobile, role, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[role+":"+mobile] = code
	return nil
}

func (s *memOTPStore) Consume(ctx context.Context, mobile, role, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.codes[role+":"+mobile]
	if !ok {
		return false, nil
	}
	delete(s.codes, role+":"+mobile)
	return stored == code, nil
}

type nopGateway struct{}

func (nopGateway) SendOTP(ctx context.Context, mobile, code string) error { return nil }

type authFixture struct {
	citizens   *fakeCitizenRepo
	collectors *fakeCollectorRepo
	admins     *fakeAdminRepo
	otps       *memOTPStore
	cfg        *config.Config
	svc        *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		citizens:   newFakeCitizenRepo(),
		collectors: newFakeCollectorRepo(),
		admins:     newFakeAdminRepo(),
		otps:       newMemOTPStore(),
		cfg: &config.Config{
			JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
			SMS: config.SMSConfig{MockGateway: true, OTPTTL: 5 * time.Minute},
		},
	}
	f.svc = NewAuthService(f.citizens, f.collectors, f.admins, f.otps, nopGateway{}, f.cfg, zerolog.Nop())
	return f
}

func TestOTPFlow_NewCollector(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	code, err := f.svc.SendOTP(ctx, "9876543210", utils.RoleCollector)
	require.NoError(t, err)
	require.Len(t, code, 6)

	// first contact creates a bare record that still needs registration
	result, err := f.svc.VerifyOTP(ctx, "9876543210", utils.RoleCollector, code)
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Empty(t, result.Token)

	reg, err := f.svc.RegisterCollector(ctx, CollectorRegistration{
		Mobile: "9876543210",
		Name:   "Ramu",
		Area:   "Kothrud",
	})
	require.NoError(t, err)
	assert.True(t, reg.Registered)
	require.NotEmpty(t, reg.Token)

	claims, err := utils.ValidateJWT(reg.Token, f.cfg)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleCollector, claims["role"])
}

func TestOTPFlow_RegisteredCitizenGetsTokenDirectly(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	code, err := f.svc.SendOTP(ctx, "9123456780", utils.RoleCitizen)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "9123456780", utils.RoleCitizen, code)
	require.NoError(t, err)

	reg, err := f.svc.RegisterCitizen(ctx, CitizenRegistration{Mobile: "9123456780", Name: "Sita"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)

	citizen, err := f.citizens.FindByMobile(ctx, "9123456780")
	require.NoError(t, err)
	assert.NotEmpty(t, citizen.WasteRecyclerID)

	// next login round-trips straight to a token
	code, err = f.svc.SendOTP(ctx, "9123456780", utils.RoleCitizen)
	require.NoError(t, err)
	result, err := f.svc.VerifyOTP(ctx, "9123456780", utils.RoleCitizen, code)
	require.NoError(t, err)
	assert.True(t, result.Registered)
	assert.NotEmpty(t, result.Token)
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	code, err := f.svc.SendOTP(ctx, "9876543210", utils.RoleCollector)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "9876543210", utils.RoleCollector, code)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, "9876543210", utils.RoleCollector, code)
	assert.True(t, apperrors.IsValidation(err))
}

func TestVerifyOTP_WrongRole(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	code, err := f.svc.SendOTP(ctx, "9876543210", utils.RoleCollector)
	require.NoError(t, err)

	// a collector OTP must not verify a citizen login
	_, err = f.svc.VerifyOTP(ctx, "9876543210", utils.RoleCitizen, code)
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegisterCollector_Twice(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.SendOTP(ctx, "9876543210", utils.RoleCollector)
	require.NoError(t, err)
	_, err = f.svc.RegisterCollector(ctx, CollectorRegistration{Mobile: "9876543210", Name: "Ramu"})
	require.NoError(t, err)

	_, err = f.svc.RegisterCollector(ctx, CollectorRegistration{Mobile: "9876543210", Name: "Ramu"})
	assert.True(t, apperrors.IsInvalidState(err))
}

func TestAdminLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.admins.Create(ctx, &models.Admin{Username: "admin", PasswordHash: string(hash)}))

	result, err := f.svc.AdminLogin(ctx, "admin", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, utils.RoleAdmin, result.Role)
	assert.NotEmpty(t, result.Token)

	_, err = f.svc.AdminLogin(ctx, "admin", "wrong")
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.AdminLogin(ctx, "ghost", "s3cret")
	assert.True(t, apperrors.IsValidation(err))
}
