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

// Compile-time check to ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)

// AdminRepository handles MongoDB operations for Admin
type AdminRepository struct {
	collection *mongo.Collection
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{
		collection: db.Collection("admins"),
	}
}

// Create inserts a new admin user
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

// FindByUsername finds an admin by username
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("admin %s not found", username)
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}
