package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB reads of the transaction ledger
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("waste_transactions"),
	}
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*models.Transaction, error) {
	opts := options.Find().SetSort(bson.M{"transactionTime": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*models.Transaction
	if err = cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	return txs, nil
}

// FindByCollector finds transactions for a collector, optionally from a given instant
func (r *TransactionRepository) FindByCollector(ctx context.Context, collectorID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error) {
	filter := bson.M{"collectorId": collectorID}
	if since != nil {
		filter["transactionTime"] = bson.M{"$gte": *since}
	}
	return r.find(ctx, filter)
}

// FindByCitizen finds transactions for a citizen, optionally from a given instant
func (r *TransactionRepository) FindByCitizen(ctx context.Context, citizenID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error) {
	filter := bson.M{"citizenId": citizenID}
	if since != nil {
		filter["transactionTime"] = bson.M{"$gte": *since}
	}
	return r.find(ctx, filter)
}

// FindAll retrieves all transactions, newest first
func (r *TransactionRepository) FindAll(ctx context.Context) ([]*models.Transaction, error) {
	return r.find(ctx, bson.M{})
}

// Count counts all transactions
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// SumWeightByCollectorSince sums transaction weights for one collector from
// the given instant
func (r *TransactionRepository) SumWeightByCollectorSince(ctx context.Context, collectorID primitive.ObjectID, since time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"collectorId":     collectorID,
			"transactionTime": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$weightKg"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
