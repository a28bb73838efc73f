package services

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/config"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/otp"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	"github.com/kabadiconnect/kabadi-backend/internal/utils"
	"github.com/kabadiconnect/kabadi-backend/pkg/sms"
)

// AuthResult is returned after OTP verification or registration.
type AuthResult struct {
	Token      string `json:"token,omitempty"`
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	Registered bool   `json:"registered"`
	Name       string `json:"name,omitempty"`
}

// CitizenRegistration carries the fields to complete a citizen sign-up.
type CitizenRegistration struct {
	Mobile            string `json:"mobile"`
	Name              string `json:"name"`
	AddressLine1      string `json:"addressLine1"`
	AddressLine2      string `json:"addressLine2"`
	Pincode           string `json:"pincode"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// CollectorRegistration carries the fields to complete a collector sign-up.
type CollectorRegistration struct {
	Mobile            string   `json:"mobile"`
	Name              string   `json:"name"`
	Area              string   `json:"area"`
	PreferredLanguage string   `json:"preferredLanguage"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

// AuthService handles OTP login for citizens and collectors and password
// login for admins. OTPs are single-use and scoped to the requesting role.
type AuthService struct {
	citizenRepo   repositories.CitizenRepository
	collectorRepo repositories.CollectorRepository
	adminRepo     repositories.AdminRepository
	otpStore      otp.Store
	gateway       sms.Gateway
	cfg           *config.Config
	logger        zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	citizenRepo repositories.CitizenRepository,
	collectorRepo repositories.CollectorRepository,
	adminRepo repositories.AdminRepository,
	otpStore otp.Store,
	gateway sms.Gateway,
	cfg *config.Config,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		citizenRepo:   citizenRepo,
		collectorRepo: collectorRepo,
		adminRepo:     adminRepo,
		otpStore:      otpStore,
		gateway:       gateway,
		cfg:           cfg,
		logger:        logger,
	}
}

func validRole(role string) bool {
	return role == utils.RoleCitizen || role == utils.RoleCollector
}

// SendOTP issues an OTP to the mobile number for the given role, creating a
// bare user record on first contact. The response never reveals whether the
// number was known before.
func (s *AuthService) SendOTP(ctx context.Context, mobile, role string) (string, error) {
	if mobile == "" {
		return "", apperrors.Validation("mobile is required")
	}
	if !validRole(role) {
		return "", apperrors.Validation("role must be CITIZEN or COLLECTOR")
	}

	switch role {
	case utils.RoleCitizen:
		if _, err := s.citizenRepo.FindByMobile(ctx, mobile); apperrors.IsNotFound(err) {
			if err := s.citizenRepo.Create(ctx, &models.Citizen{Mobile: mobile}); err != nil {
				return "", err
			}
		} else if err != nil {
			return "", err
		}
	case utils.RoleCollector:
		if _, err := s.collectorRepo.FindByMobile(ctx, mobile); apperrors.IsNotFound(err) {
			if err := s.collectorRepo.Create(ctx, &models.Collector{Mobile: mobile, IsActive: true}); err != nil {
				return "", err
			}
		} else if err != nil {
			return "", err
		}
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return "", apperrors.Internal("failed to generate OTP", err)
	}
	if err := s.otpStore.Save(ctx, mobile, role, code, s.cfg.SMS.OTPTTL); err != nil {
		return "", apperrors.Internal("failed to store OTP", err)
	}
	if err := s.gateway.SendOTP(ctx, mobile, code); err != nil {
		return "", apperrors.Internal("failed to deliver OTP", err)
	}

	// Local and staging runs echo the code back instead of sending SMS.
	if s.cfg.SMS.MockGateway {
		return code, nil
	}
	return "", nil
}

// VerifyOTP consumes the OTP and, on a match, returns a token for registered
// users or a registration-required result for bare records.
func (s *AuthService) VerifyOTP(ctx context.Context, mobile, role, code string) (*AuthResult, error) {
	if mobile == "" || code == "" {
		return nil, apperrors.Validation("mobile and otp are required")
	}
	if !validRole(role) {
		return nil, apperrors.Validation("role must be CITIZEN or COLLECTOR")
	}

	ok, err := s.otpStore.Consume(ctx, mobile, role, code)
	if err != nil {
		return nil, apperrors.Internal("failed to verify OTP", err)
	}
	if !ok {
		return nil, apperrors.Validation("invalid or expired OTP")
	}

	switch role {
	case utils.RoleCitizen:
		citizen, err := s.citizenRepo.FindByMobile(ctx, mobile)
		if err != nil {
			return nil, err
		}
		result := &AuthResult{UserID: citizen.ID.Hex(), Role: role, Registered: citizen.Registered(), Name: citizen.Name}
		if citizen.Registered() {
			result.Token, err = utils.GenerateJWT(citizen.ID.Hex(), role, citizen.Name, citizen.PreferredLanguage, s.cfg)
			if err != nil {
				return nil, apperrors.Internal("failed to sign token", err)
			}
		}
		return result, nil
	default:
		collector, err := s.collectorRepo.FindByMobile(ctx, mobile)
		if err != nil {
			return nil, err
		}
		result := &AuthResult{UserID: collector.ID.Hex(), Role: role, Registered: collector.Registered(), Name: collector.Name}
		if collector.Registered() {
			result.Token, err = utils.GenerateJWT(collector.ID.Hex(), role, collector.Name, collector.PreferredLanguage, s.cfg)
			if err != nil {
				return nil, apperrors.Internal("failed to sign token", err)
			}
		}
		return result, nil
	}
}

// RegisterCitizen completes a citizen sign-up after OTP verification and
// returns a token. Registering twice is rejected.
func (s *AuthService) RegisterCitizen(ctx context.Context, reg CitizenRegistration) (*AuthResult, error) {
	if reg.Mobile == "" || reg.Name == "" {
		return nil, apperrors.Validation("mobile and name are required")
	}
	citizen, err := s.citizenRepo.FindByMobile(ctx, reg.Mobile)
	if err != nil {
		return nil, err
	}
	if citizen.Registered() {
		return nil, apperrors.InvalidState("citizen already registered")
	}

	recyclerID, err := utils.GenerateRecyclerID()
	if err != nil {
		return nil, apperrors.Internal("failed to generate recycler id", err)
	}
	citizen.Name = reg.Name
	citizen.WasteRecyclerID = recyclerID
	citizen.AddressLine1 = reg.AddressLine1
	citizen.AddressLine2 = reg.AddressLine2
	citizen.Pincode = reg.Pincode
	citizen.PreferredLanguage = reg.PreferredLanguage
	if err := s.citizenRepo.Update(ctx, citizen); err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(citizen.ID.Hex(), utils.RoleCitizen, citizen.Name, citizen.PreferredLanguage, s.cfg)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token", err)
	}
	s.logger.Info().Str("citizenId", citizen.ID.Hex()).Str("recyclerId", recyclerID).Msg("citizen registered")
	return &AuthResult{Token: token, UserID: citizen.ID.Hex(), Role: utils.RoleCitizen, Registered: true, Name: citizen.Name}, nil
}

// RegisterCollector completes a collector sign-up after OTP verification and
// returns a token.
func (s *AuthService) RegisterCollector(ctx context.Context, reg CollectorRegistration) (*AuthResult, error) {
	if reg.Mobile == "" || reg.Name == "" {
		return nil, apperrors.Validation("mobile and name are required")
	}
	collector, err := s.collectorRepo.FindByMobile(ctx, reg.Mobile)
	if err != nil {
		return nil, err
	}
	if collector.Registered() {
		return nil, apperrors.InvalidState("collector already registered")
	}

	collector.Name = reg.Name
	collector.Area = reg.Area
	collector.PreferredLanguage = reg.PreferredLanguage
	collector.Latitude = reg.Latitude
	collector.Longitude = reg.Longitude
	collector.IsActive = true
	if err := s.collectorRepo.Update(ctx, collector); err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(collector.ID.Hex(), utils.RoleCollector, collector.Name, collector.PreferredLanguage, s.cfg)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token", err)
	}
	s.logger.Info().Str("collectorId", collector.ID.Hex()).Msg("collector registered")
	return &AuthResult{Token: token, UserID: collector.ID.Hex(), Role: utils.RoleCollector, Registered: true, Name: collector.Name}, nil
}

// AdminLogin checks username/password and returns a token.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, apperrors.Validation("username and password are required")
	}
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if apperrors.IsNotFound(err) {
		return nil, apperrors.Validation("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Validation("invalid credentials")
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), utils.RoleAdmin, admin.Username, "", s.cfg)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token", err)
	}
	return &AuthResult{Token: token, UserID: admin.ID.Hex(), Role: utils.RoleAdmin, Registered: true, Name: admin.Username}, nil
}
