package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
)

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository performs the multi-document writes of the coin ledger
// inside a mongo session transaction, so the transaction record and the
// collector update commit together or not at all. Requires the deployment to
// be a replica set (a single-node replica set is enough locally).
type LedgerRepository struct {
	client       *mongo.Client
	transactions *mongo.Collection
	collectors   *mongo.Collection
	redemptions  *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(client *mongo.Client, db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		client:       client,
		transactions: db.Collection("waste_transactions"),
		collectors:   db.Collection("collectors"),
		redemptions:  db.Collection("k_coin_redemptions"),
	}
}

// CommitAccrual inserts the transaction and applies the daily counters and
// coin increment to the owning collector as one atomic unit. The balance is
// written with $inc rather than $set so it composes with a concurrent
// redemption debit from another process.
func (r *LedgerRepository) CommitAccrual(ctx context.Context, tx *models.Transaction, collector *models.Collector, coinsAwarded int) error {
	tx.ID = primitive.NewObjectID()
	tx.CreatedAt = time.Now()

	session, err := r.client.StartSession()
	if err != nil {
		return apperrors.Internal("failed to start mongo session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.transactions.InsertOne(sc, tx); err != nil {
			return nil, err
		}
		update := bson.M{
			"$set": bson.M{
				"dailyCollectedKg":       collector.DailyCollectedKg,
				"dailyThresholdUnlocked": collector.DailyThresholdUnlocked,
				"lastThresholdReset":     collector.LastThresholdReset,
				"updatedAt":              time.Now(),
			},
			"$inc": bson.M{"kCoinsBalance": coinsAwarded},
		}
		result, err := r.collectors.UpdateOne(sc, bson.M{"_id": collector.ID}, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, apperrors.NotFound("collector %s not found", collector.ID.Hex())
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	return nil
}

// CommitRedemption debits the coin cost, activates priority and inserts the
// redemption record atomically. The debit filter demands the balance still
// covers the cost, so when two redeem attempts race across processes exactly
// one matches; the loser gets an invalid-state error and nothing is written.
func (r *LedgerRepository) CommitRedemption(ctx context.Context, redemption *models.Redemption, cost int) error {
	redemption.ID = primitive.NewObjectID()

	session, err := r.client.StartSession()
	if err != nil {
		return apperrors.Internal("failed to start mongo session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{
			"_id":           redemption.CollectorID,
			"kCoinsBalance": bson.M{"$gte": cost},
		}
		update := bson.M{
			"$inc": bson.M{"kCoinsBalance": -cost},
			"$set": bson.M{
				"priorityActive":    true,
				"priorityExpiresAt": redemption.ValidUntil,
				"updatedAt":         time.Now(),
			},
		}
		result, err := r.collectors.UpdateOne(sc, filter, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, apperrors.InvalidState("insufficient K-Coin balance, need %d to redeem", cost)
		}
		if _, err := r.redemptions.InsertOne(sc, redemption); err != nil {
			// the partial unique index fires when another instance committed
			// an active redemption first; the transaction aborts the debit
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.InvalidState("an active redemption already exists, redemptions cannot stack")
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	return nil
}
