package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses. Only PENDING bookings are editable.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusAccepted  = "ACCEPTED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// ValidBookingStatus reports whether s is a recognised booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a citizen's pickup request, optionally claimed by a collector.
type Booking struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	CitizenID        primitive.ObjectID  `bson:"citizenId" json:"citizenId"`
	CollectorID      *primitive.ObjectID `bson:"collectorId,omitempty" json:"collectorId,omitempty"`
	PickupAddress    string              `bson:"pickupAddress" json:"pickupAddress"`
	Latitude         *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude        *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	ScheduledAt      time.Time           `bson:"scheduledAt" json:"scheduledAt"`
	Status           string              `bson:"status" json:"status"`
	MaterialType     string              `bson:"materialType,omitempty" json:"materialType,omitempty"`
	ExpectedWeightKg float64             `bson:"expectedWeightKg,omitempty" json:"expectedWeightKg,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
