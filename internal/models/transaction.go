package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction records one completed pickup: a collector bought scrap from a
// citizen (or a walk-in without an account). Transactions are append-only and
// are the sole input driving coin accrual.
type Transaction struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	CollectorID     primitive.ObjectID  `bson:"collectorId" json:"collectorId"`
	CitizenID       *primitive.ObjectID `bson:"citizenId,omitempty" json:"citizenId,omitempty"`
	MaterialType    string              `bson:"materialType" json:"materialType"`
	WeightKg        float64             `bson:"weightKg" json:"weightKg"`
	PricePerKg      float64             `bson:"pricePerKg" json:"pricePerKg"`
	AmountPaid      float64             `bson:"amountPaid" json:"amountPaid"`
	TransactionTime time.Time           `bson:"transactionTime" json:"transactionTime"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
}
