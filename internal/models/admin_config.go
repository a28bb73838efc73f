package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward tunables stored in the admin_config collection. Defaults apply when
// a key is absent.
const (
	ConfigKeyDailyThresholdKg    = "daily_unlock_threshold_kg"
	ConfigKeyKCoinsPerExtraKg    = "kcoins_per_extra_kg"
	ConfigKeyRedemptionThreshold = "redemption_threshold_coins"
	ConfigKeyRedemptionValidity  = "redemption_validity_days"
)

// AdminConfig is a single key/value tunable. Values are stored as strings and
// parsed by the config service.
type AdminConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key"`
	Value     string             `bson:"value" json:"value"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
