package services

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// CitizenDashboard aggregates a citizen's selling history.
type CitizenDashboard struct {
	TotalEarnings    float64 `json:"totalEarnings"`
	TotalWasteSoldKg float64 `json:"totalWasteSoldKg"`
	TransactionCount int     `json:"transactionCount"`
}

// CitizenProfileUpdate carries optional profile fields; nil means unchanged.
type CitizenProfileUpdate struct {
	Name              *string `json:"name"`
	AddressLine1      *string `json:"addressLine1"`
	AddressLine2      *string `json:"addressLine2"`
	Pincode           *string `json:"pincode"`
	PreferredLanguage *string `json:"preferredLanguage"`
}

// CitizenService manages citizen profiles and dashboards.
type CitizenService struct {
	citizenRepo repositories.CitizenRepository
	txRepo      repositories.TransactionRepository
	logger      zerolog.Logger
}

// NewCitizenService creates a new CitizenService
func NewCitizenService(citizenRepo repositories.CitizenRepository, txRepo repositories.TransactionRepository, logger zerolog.Logger) *CitizenService {
	return &CitizenService{citizenRepo: citizenRepo, txRepo: txRepo, logger: logger}
}

// GetProfile returns one citizen
func (s *CitizenService) GetProfile(ctx context.Context, citizenID string) (*models.Citizen, error) {
	id, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	return s.citizenRepo.FindByID(ctx, id)
}

// UpdateProfile applies the provided fields to the citizen's profile
func (s *CitizenService) UpdateProfile(ctx context.Context, citizenID string, upd CitizenProfileUpdate) (*models.Citizen, error) {
	citizen, err := s.GetProfile(ctx, citizenID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		citizen.Name = *upd.Name
	}
	if upd.AddressLine1 != nil {
		citizen.AddressLine1 = *upd.AddressLine1
	}
	if upd.AddressLine2 != nil {
		citizen.AddressLine2 = *upd.AddressLine2
	}
	if upd.Pincode != nil {
		citizen.Pincode = *upd.Pincode
	}
	if upd.PreferredLanguage != nil {
		citizen.PreferredLanguage = *upd.PreferredLanguage
	}
	if err := s.citizenRepo.Update(ctx, citizen); err != nil {
		return nil, err
	}
	return citizen, nil
}

// UpdateLanguage updates only the preferred language
func (s *CitizenService) UpdateLanguage(ctx context.Context, citizenID, language string) error {
	_, err := s.UpdateProfile(ctx, citizenID, CitizenProfileUpdate{PreferredLanguage: &language})
	return err
}

// GetDashboard sums the citizen's lifetime earnings and sold weight from the
// transaction ledger.
func (s *CitizenService) GetDashboard(ctx context.Context, citizenID string) (*CitizenDashboard, error) {
	id, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	if _, err := s.citizenRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	txs, err := s.txRepo.FindByCitizen(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	dash := &CitizenDashboard{TransactionCount: len(txs)}
	for _, tx := range txs {
		dash.TotalEarnings += tx.AmountPaid
		dash.TotalWasteSoldKg += tx.WeightKg
	}
	return dash, nil
}
