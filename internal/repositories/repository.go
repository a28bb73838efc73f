package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
)

// CollectorRepository defines the interface for collector data operations.
type CollectorRepository interface {
	Create(ctx context.Context, collector *models.Collector) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collector, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Collector, error)
	Update(ctx context.Context, collector *models.Collector) error
	FindAll(ctx context.Context) ([]*models.Collector, error)
	Count(ctx context.Context) (int64, error)
	// FindActiveWithLocation returns active collectors that have coordinates
	// set, for the nearby/priority searches.
	FindActiveWithLocation(ctx context.Context) ([]*models.Collector, error)
	// ClearPriority drops the priority flag and expiry on one collector. Used
	// by the expiry sweep only.
	ClearPriority(ctx context.Context, id primitive.ObjectID) error
	// ResetAllStale applies the daily reset to every collector whose last
	// reset date is unset or before today, as a single conditional bulk
	// update scoped to the three fields the reset owns. It never overwrites a
	// record already stamped with today's date. Returns the number of
	// collectors reset.
	ResetAllStale(ctx context.Context, today time.Time) (int64, error)
}

// CitizenRepository defines the interface for citizen data operations.
type CitizenRepository interface {
	Create(ctx context.Context, citizen *models.Citizen) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Citizen, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Citizen, error)
	Update(ctx context.Context, citizen *models.Citizen) error
	FindAll(ctx context.Context) ([]*models.Citizen, error)
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines read access to the append-only transaction
// ledger. Writes go through LedgerRepository so they commit together with the
// collector update.
type TransactionRepository interface {
	FindByCollector(ctx context.Context, collectorID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error)
	FindByCitizen(ctx context.Context, citizenID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error)
	FindAll(ctx context.Context) ([]*models.Transaction, error)
	Count(ctx context.Context) (int64, error)
	// SumWeightByCollectorSince sums transaction weights for one collector
	// from the given instant, for the live daily dashboard figure.
	SumWeightByCollectorSince(ctx context.Context, collectorID primitive.ObjectID, since time.Time) (float64, error)
}

// RedemptionRepository defines the interface for redemption records.
type RedemptionRepository interface {
	FindActiveByCollector(ctx context.Context, collectorID primitive.ObjectID) (*models.Redemption, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Redemption, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Redemption, error)
}

// LedgerRepository owns the two multi-document writes of the coin ledger.
// Both commit as one atomic unit: either every document lands or none does.
type LedgerRepository interface {
	// CommitAccrual persists the transaction and the updated daily counters,
	// incrementing the coin balance by coinsAwarded.
	CommitAccrual(ctx context.Context, tx *models.Transaction, collector *models.Collector, coinsAwarded int) error
	// CommitRedemption debits cost coins and activates priority on the
	// collector, then persists the redemption record. The debit is
	// conditional on the balance still covering the cost; a concurrent debit
	// that got there first makes this return an invalid-state error with no
	// documents written.
	CommitRedemption(ctx context.Context, redemption *models.Redemption, cost int) error
}

// BookingRepository defines the interface for booking data operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	FindByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Booking, error)
	FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
}

// AdminRepository defines the interface for admin user operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// ConfigRepository defines the interface for admin config key/values.
type ConfigRepository interface {
	FindByKey(ctx context.Context, key string) (*models.AdminConfig, error)
	UpsertByKey(ctx context.Context, key, value string) error
	FindAll(ctx context.Context) ([]*models.AdminConfig, error)
}
