package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// Compile-time check to ensure ConfigRepository implements the interface
var _ repositories.ConfigRepository = (*ConfigRepository)(nil)

// ConfigRepository handles MongoDB operations for admin config key/values
type ConfigRepository struct {
	collection *mongo.Collection
}

// NewConfigRepository creates a new ConfigRepository
func NewConfigRepository(db *mongo.Database) *ConfigRepository {
	return &ConfigRepository{
		collection: db.Collection("admin_config"),
	}
}

// FindByKey finds a config entry by key
func (r *ConfigRepository) FindByKey(ctx context.Context, key string) (*models.AdminConfig, error) {
	var config models.AdminConfig
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&config)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("config key %s not found", key)
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// UpsertByKey updates a config value by key, creating it if absent
func (r *ConfigRepository) UpsertByKey(ctx context.Context, key, value string) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set":         bson.M{"value": value, "updatedAt": time.Now()},
		"$setOnInsert": bson.M{"key": key},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindAll retrieves all config entries sorted by key
func (r *ConfigRepository) FindAll(ctx context.Context) ([]*models.AdminConfig, error) {
	opts := options.Find().SetSort(bson.M{"key": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*models.AdminConfig
	if err = cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []*models.AdminConfig{}
	}
	return configs, nil
}
