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
)

// Compile-time check to ensure CitizenRepository implements the interface
var _ repositories.CitizenRepository = (*CitizenRepository)(nil)

// CitizenRepository handles MongoDB operations for Citizen
type CitizenRepository struct {
	collection *mongo.Collection
}

// NewCitizenRepository creates a new CitizenRepository
func NewCitizenRepository(db *mongo.Database) *CitizenRepository {
	return &CitizenRepository{
		collection: db.Collection("citizens"),
	}
}

// Create inserts a new citizen
func (r *CitizenRepository) Create(ctx context.Context, citizen *models.Citizen) error {
	citizen.ID = primitive.NewObjectID()
	citizen.CreatedAt = time.Now()
	citizen.UpdatedAt = citizen.CreatedAt
	_, err := r.collection.InsertOne(ctx, citizen)
	return err
}

// FindByID finds a citizen by ID
func (r *CitizenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Citizen, error) {
	var citizen models.Citizen
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&citizen)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("citizen %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &citizen, nil
}

// FindByMobile finds a citizen by mobile number
func (r *CitizenRepository) FindByMobile(ctx context.Context, mobile string) (*models.Citizen, error) {
	var citizen models.Citizen
	err := r.collection.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&citizen)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("citizen with mobile %s not found", mobile)
	}
	if err != nil {
		return nil, err
	}
	return &citizen, nil
}

// Update replaces the stored citizen document
func (r *CitizenRepository) Update(ctx context.Context, citizen *models.Citizen) error {
	citizen.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": citizen.ID}, bson.M{"$set": citizen})
	return err
}

// FindAll retrieves all citizens
func (r *CitizenRepository) FindAll(ctx context.Context) ([]*models.Citizen, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var citizens []*models.Citizen
	if err = cursor.All(ctx, &citizens); err != nil {
		return nil, err
	}
	if citizens == nil {
		citizens = []*models.Citizen{}
	}
	return citizens, nil
}

// Count counts all citizens
func (r *CitizenRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
