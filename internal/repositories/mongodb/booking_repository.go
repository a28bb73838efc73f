package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// Compile-time check to ensure BookingRepository implements the interface
var _ repositories.BookingRepository = (*BookingRepository)(nil)

// BookingRepository handles MongoDB operations for Booking
type BookingRepository struct {
	collection *mongo.Collection
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		collection: db.Collection("bookings"),
	}
}

// Create inserts a new booking
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	_, err := r.collection.InsertOne(ctx, booking)
	return err
}

// FindByID finds a booking by ID
func (r *BookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("booking %s not found", id.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) findSorted(ctx context.Context, filter bson.M) ([]*models.Booking, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	return bookings, nil
}

// FindByCitizen returns a citizen's bookings, newest first
func (r *BookingRepository) FindByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Booking, error) {
	return r.findSorted(ctx, bson.M{"citizenId": citizenID})
}

// FindByCollector returns a collector's bookings, newest first
func (r *BookingRepository) FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Booking, error) {
	return r.findSorted(ctx, bson.M{"collectorId": collectorID})
}

// Update replaces the stored booking document
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	booking.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": booking.ID}, bson.M{"$set": booking})
	return err
}
