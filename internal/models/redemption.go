package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Redemption records one K-Coin redemption. At most one redemption per
// collector is active at any time; expired records are kept as history.
type Redemption struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CollectorID       primitive.ObjectID `bson:"collectorId" json:"collectorId"`
	CoinsRedeemed     int                `bson:"coinsRedeemed" json:"coinsRedeemed"`
	SelectedCommodity string             `bson:"selectedCommodity" json:"selectedCommodity"`
	RedeemedAt        time.Time          `bson:"redeemedAt" json:"redeemedAt"`
	ValidUntil        time.Time          `bson:"validUntil" json:"validUntil"`
	IsActive          bool               `bson:"isActive" json:"isActive"`
}
