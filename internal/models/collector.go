package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collector represents a waste collector (kabadi-wala) and carries the
// mutable rewards state for the coin ledger.
type Collector struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name                  string             `bson:"name,omitempty" json:"name,omitempty"`
	Mobile                string             `bson:"mobile" json:"mobile"`
	Area                  string             `bson:"area,omitempty" json:"area,omitempty"`
	IsActive              bool               `bson:"isActive" json:"isActive"`
	KCoinsBalance         int                `bson:"kCoinsBalance" json:"kCoinsBalance"`
	DailyCollectedKg      float64            `bson:"dailyCollectedKg" json:"dailyCollectedKg"`
	DailyThresholdUnlocked bool              `bson:"dailyThresholdUnlocked" json:"dailyThresholdUnlocked"`
	LastThresholdReset    time.Time          `bson:"lastThresholdReset,omitempty" json:"lastThresholdReset,omitempty"`
	PriorityActive        bool               `bson:"priorityActive" json:"priorityActive"`
	PriorityExpiresAt     *time.Time         `bson:"priorityExpiresAt,omitempty" json:"priorityExpiresAt,omitempty"`
	PreferredLanguage     string             `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	Latitude              *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude             *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Registered reports whether the collector completed registration after OTP
// verification. Unregistered records only hold a mobile number.
func (c *Collector) Registered() bool {
	return c.Name != ""
}
