package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Citizen represents a household user selling scrap to collectors.
type Citizen struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name,omitempty" json:"name,omitempty"`
	Mobile            string             `bson:"mobile" json:"mobile"`
	WasteRecyclerID   string             `bson:"wasteRecyclerId,omitempty" json:"wasteRecyclerId,omitempty"`
	AddressLine1      string             `bson:"addressLine1,omitempty" json:"addressLine1,omitempty"`
	AddressLine2      string             `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	Pincode           string             `bson:"pincode,omitempty" json:"pincode,omitempty"`
	PreferredLanguage string             `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Registered reports whether the citizen completed registration.
func (u *Citizen) Registered() bool {
	return u.WasteRecyclerID != ""
}
