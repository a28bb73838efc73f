package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// Compile-time check to ensure RedemptionRepository implements the interface
var _ repositories.RedemptionRepository = (*RedemptionRepository)(nil)

// RedemptionRepository handles MongoDB operations for Redemption
type RedemptionRepository struct {
	collection *mongo.Collection
}

// NewRedemptionRepository creates a new RedemptionRepository
func NewRedemptionRepository(db *mongo.Database) *RedemptionRepository {
	return &RedemptionRepository{
		collection: db.Collection("k_coin_redemptions"),
	}
}

// EnsureIndexes creates the partial unique index enforcing at most one
// active redemption per collector. The in-process check in the service layer
// covers a single instance; this index makes the invariant hold across
// instances too.
func (r *RedemptionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "collectorId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"isActive": true}),
	})
	return err
}

// FindActiveByCollector returns the collector's active redemption, or nil if
// there is none
func (r *RedemptionRepository) FindActiveByCollector(ctx context.Context, collectorID primitive.ObjectID) (*models.Redemption, error) {
	var redemption models.Redemption
	filter := bson.M{"collectorId": collectorID, "isActive": true}
	err := r.collection.FindOne(ctx, filter).Decode(&redemption)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &redemption, nil
}

// FindExpiredActive returns redemptions still flagged active whose validity
// window has passed
func (r *RedemptionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Redemption, error) {
	filter := bson.M{"isActive": true, "validUntil": bson.M{"$lt": now}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redemptions []*models.Redemption
	if err = cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}
	if redemptions == nil {
		redemptions = []*models.Redemption{}
	}
	return redemptions, nil
}

// Deactivate flips one redemption to inactive
func (r *RedemptionRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false}})
	return err
}

// FindByCollector returns a collector's redemption history, newest first
func (r *RedemptionRepository) FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Redemption, error) {
	opts := options.Find().SetSort(bson.M{"redeemedAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"collectorId": collectorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redemptions []*models.Redemption
	if err = cursor.All(ctx, &redemptions); err != nil {
		return nil, err
	}
	if redemptions == nil {
		redemptions = []*models.Redemption{}
	}
	return redemptions, nil
}
