package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// BookingRequest is a citizen's pickup request.
type BookingRequest struct {
	PickupAddress    string    `json:"pickupAddress"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	ScheduledAt      time.Time `json:"scheduledAt"`
	MaterialType     string    `json:"materialType"`
	ExpectedWeightKg float64   `json:"expectedWeightKg"`
}

// BookingUpdate carries editable fields; nil means unchanged. Only PENDING
// bookings may be edited.
type BookingUpdate struct {
	PickupAddress    *string    `json:"pickupAddress"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	MaterialType     *string    `json:"materialType"`
	ExpectedWeightKg *float64   `json:"expectedWeightKg"`
}

// BookingService manages the pickup booking lifecycle.
type BookingService struct {
	bookingRepo   repositories.BookingRepository
	citizenRepo   repositories.CitizenRepository
	collectorRepo repositories.CollectorRepository
	logger        zerolog.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo repositories.BookingRepository,
	citizenRepo repositories.CitizenRepository,
	collectorRepo repositories.CollectorRepository,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		citizenRepo:   citizenRepo,
		collectorRepo: collectorRepo,
		logger:        logger,
	}
}

// Create opens a PENDING booking for the citizen. When no pickup address is
// given the citizen's profile address is used.
func (s *BookingService) Create(ctx context.Context, citizenID string, req BookingRequest) (*models.Booking, error) {
	id, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	citizen, err := s.citizenRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ScheduledAt.IsZero() {
		return nil, apperrors.Validation("scheduled time is required")
	}

	address := req.PickupAddress
	if address == "" {
		address = citizen.AddressLine1
		if citizen.AddressLine2 != "" {
			address += ", " + citizen.AddressLine2
		}
	}
	if address == "" {
		return nil, apperrors.Validation("pickup address is required")
	}

	booking := &models.Booking{
		CitizenID:        id,
		PickupAddress:    address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		ScheduledAt:      req.ScheduledAt,
		Status:           models.BookingStatusPending,
		MaterialType:     req.MaterialType,
		ExpectedWeightKg: req.ExpectedWeightKg,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info().Str("bookingId", booking.ID.Hex()).Str("citizenId", id.Hex()).Msg("booking created")
	return booking, nil
}

// ListByCitizen returns the citizen's bookings, newest first
func (s *BookingService) ListByCitizen(ctx context.Context, citizenID string) ([]*models.Booking, error) {
	id, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	return s.bookingRepo.FindByCitizen(ctx, id)
}

// ListByCollector returns bookings assigned to the collector
func (s *BookingService) ListByCollector(ctx context.Context, collectorID string) ([]*models.Booking, error) {
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}
	return s.bookingRepo.FindByCollector(ctx, id)
}

// Edit updates a PENDING booking owned by the citizen.
func (s *BookingService) Edit(ctx context.Context, citizenID, bookingID string, upd BookingUpdate) (*models.Booking, error) {
	booking, err := s.ownedByCitizen(ctx, citizenID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, apperrors.InvalidState("only pending bookings can be edited")
	}
	if upd.PickupAddress != nil {
		booking.PickupAddress = *upd.PickupAddress
	}
	if upd.ScheduledAt != nil {
		booking.ScheduledAt = *upd.ScheduledAt
	}
	if upd.MaterialType != nil {
		booking.MaterialType = *upd.MaterialType
	}
	if upd.ExpectedWeightKg != nil {
		booking.ExpectedWeightKg = *upd.ExpectedWeightKg
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Cancel cancels a booking owned by the citizen. Completed or already
// cancelled bookings cannot be cancelled.
func (s *BookingService) Cancel(ctx context.Context, citizenID, bookingID string) (*models.Booking, error) {
	booking, err := s.ownedByCitizen(ctx, citizenID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCompleted || booking.Status == models.BookingStatusCancelled {
		return nil, apperrors.InvalidState("booking is already %s", booking.Status)
	}
	booking.Status = models.BookingStatusCancelled
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateStatus moves a booking along the lifecycle on behalf of a collector.
// ACCEPTED claims an unassigned booking for the caller; terminal states never
// change again.
func (s *BookingService) UpdateStatus(ctx context.Context, collectorID, bookingID, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, apperrors.Validation("unknown booking status %q", status)
	}
	cid, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}
	bid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, apperrors.Validation("invalid booking id")
	}

	booking, err := s.bookingRepo.FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCompleted || booking.Status == models.BookingStatusCancelled {
		return nil, apperrors.InvalidState("booking is already %s", booking.Status)
	}
	if booking.CollectorID != nil && *booking.CollectorID != cid {
		return nil, apperrors.InvalidState("booking is assigned to another collector")
	}

	switch status {
	case models.BookingStatusAccepted:
		if booking.Status != models.BookingStatusPending {
			return nil, apperrors.InvalidState("only pending bookings can be accepted")
		}
		booking.CollectorID = &cid
	case models.BookingStatusCompleted:
		if booking.Status != models.BookingStatusAccepted {
			return nil, apperrors.InvalidState("only accepted bookings can be completed")
		}
	case models.BookingStatusPending:
		return nil, apperrors.InvalidState("bookings cannot move back to pending")
	}
	booking.Status = status
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info().Str("bookingId", bid.Hex()).Str("status", status).Msg("booking status updated")
	return booking, nil
}

func (s *BookingService) ownedByCitizen(ctx context.Context, citizenID, bookingID string) (*models.Booking, error) {
	cid, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	bid, err := primitive.ObjectIDFromHex(bookingID)
	if err != nil {
		return nil, apperrors.Validation("invalid booking id")
	}
	booking, err := s.bookingRepo.FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if booking.CitizenID != cid {
		return nil, apperrors.NotFound("booking not found")
	}
	return booking, nil
}
