package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	"github.com/kabadiconnect/kabadi-backend/internal/rewards"
)

// Compile-time check to ensure CollectorRepository implements the interface
var _ repositories.CollectorRepository = (*CollectorRepository)(nil)

// CollectorRepository handles MongoDB operations for Collector
type CollectorRepository struct {
	collection *mongo.Collection
}

// NewCollectorRepository creates a new CollectorRepository
func NewCollectorRepository(db *mongo.Database) *CollectorRepository {
	return &CollectorRepository{
		collection: db.Collection("collectors"),
	}
}

// Create inserts a new collector with zeroed reward fields
func (r *CollectorRepository) Create(ctx context.Context, collector *models.Collector) error {
	collector.ID = primitive.NewObjectID()
	collector.IsActive = true
	collector.CreatedAt = time.Now()
	collector.UpdatedAt = collector.CreatedAt
	_, err := r.collection.InsertOne(ctx, collector)
	return err
}

// FindByID finds a collector by ID
func (r *CollectorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collector, error) {
	var collector models.Collector
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&collector)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("collector %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &collector, nil
}

// FindByMobile finds a collector by mobile number
func (r *CollectorRepository) FindByMobile(ctx context.Context, mobile string) (*models.Collector, error) {
	var collector models.Collector
	err := r.collection.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&collector)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("collector with mobile %s not found", mobile)
	}
	if err != nil {
		return nil, err
	}
	return &collector, nil
}

// Update replaces the stored collector document
func (r *CollectorRepository) Update(ctx context.Context, collector *models.Collector) error {
	collector.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": collector.ID}, bson.M{"$set": collector})
	return err
}

// FindAll retrieves all collectors
func (r *CollectorRepository) FindAll(ctx context.Context) ([]*models.Collector, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collectors []*models.Collector
	if err = cursor.All(ctx, &collectors); err != nil {
		return nil, err
	}
	if collectors == nil {
		collectors = []*models.Collector{}
	}
	return collectors, nil
}

// Count counts all collectors
func (r *CollectorRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// FindActiveWithLocation returns active collectors that have coordinates set
func (r *CollectorRepository) FindActiveWithLocation(ctx context.Context) ([]*models.Collector, error) {
	filter := bson.M{
		"isActive":  true,
		"latitude":  bson.M{"$ne": nil},
		"longitude": bson.M{"$ne": nil},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collectors []*models.Collector
	if err = cursor.All(ctx, &collectors); err != nil {
		return nil, err
	}
	if collectors == nil {
		collectors = []*models.Collector{}
	}
	return collectors, nil
}

// ClearPriority drops the priority flag and expiry on one collector
func (r *CollectorRepository) ClearPriority(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set":   bson.M{"priorityActive": false, "updatedAt": time.Now()},
		"$unset": bson.M{"priorityExpiresAt": ""},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("collector %s not found", id.Hex())
	}
	return nil
}

// ResetAllStale resets daily counters on every collector whose last reset is
// unset or before today. The filter makes the write conditional, so a
// collector already stamped with today's date by a concurrent transaction is
// left untouched.
func (r *CollectorRepository) ResetAllStale(ctx context.Context, today time.Time) (int64, error) {
	day := rewards.StartOfDay(today)
	filter := bson.M{"$or": bson.A{
		bson.M{"lastThresholdReset": bson.M{"$lt": day}},
		bson.M{"lastThresholdReset": bson.M{"$exists": false}},
		bson.M{"lastThresholdReset": nil},
	}}
	update := bson.M{"$set": bson.M{
		"dailyCollectedKg":       0.0,
		"dailyThresholdUnlocked": false,
		"lastThresholdReset":     day,
		"updatedAt":              time.Now(),
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
