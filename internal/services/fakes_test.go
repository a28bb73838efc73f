package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/rewards"
)

// In-memory repository fakes. Each fake guards its state with its own mutex
// so concurrency tests exercise the services' locking, not data races in the
// fakes.

type fakeCollectorRepo struct {
	mu         sync.Mutex
	collectors map[primitive.ObjectID]*models.Collector
}

func newFakeCollectorRepo() *fakeCollectorRepo {
	return &fakeCollectorRepo{collectors: make(map[primitive.ObjectID]*models.Collector)}
}

func (r *fakeCollectorRepo) Create(ctx context.Context, c *models.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	clone := *c
	r.collectors[c.ID] = &clone
	return nil
}

func (r *fakeCollectorRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collectors[id]
	if !ok {
		return nil, apperrors.NotFound("collector not found")
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCollectorRepo) FindByMobile(ctx context.Context, mobile string) (*models.Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.collectors {
		if c.Mobile == mobile {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("collector not found")
}

func (r *fakeCollectorRepo) Update(ctx context.Context, c *models.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.collectors[c.ID]; !ok {
		return apperrors.NotFound("collector not found")
	}
	clone := *c
	r.collectors[c.ID] = &clone
	return nil
}

func (r *fakeCollectorRepo) FindAll(ctx context.Context) ([]*models.Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Collector, 0, len(r.collectors))
	for _, c := range r.collectors {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeCollectorRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.collectors)), nil
}

func (r *fakeCollectorRepo) FindActiveWithLocation(ctx context.Context) ([]*models.Collector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Collector
	for _, c := range r.collectors {
		if c.IsActive && c.Latitude != nil && c.Longitude != nil {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeCollectorRepo) ClearPriority(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.collectors[id]
	if !ok {
		return apperrors.NotFound("collector not found")
	}
	c.PriorityActive = false
	c.PriorityExpiresAt = nil
	return nil
}

func (r *fakeCollectorRepo) ResetAllStale(ctx context.Context, today time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.collectors {
		if rewards.ApplyDailyResetIfStale(c, today) {
			count++
		}
	}
	return count, nil
}

type fakeCitizenRepo struct {
	mu       sync.Mutex
	citizens map[primitive.ObjectID]*models.Citizen
}

func newFakeCitizenRepo() *fakeCitizenRepo {
	return &fakeCitizenRepo{citizens: make(map[primitive.ObjectID]*models.Citizen)}
}

func (r *fakeCitizenRepo) Create(ctx context.Context, c *models.Citizen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	clone := *c
	r.citizens[c.ID] = &clone
	return nil
}

func (r *fakeCitizenRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Citizen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.citizens[id]
	if !ok {
		return nil, apperrors.NotFound("citizen not found")
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCitizenRepo) FindByMobile(ctx context.Context, mobile string) (*models.Citizen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.citizens {
		if c.Mobile == mobile {
			clone := *c
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("citizen not found")
}

func (r *fakeCitizenRepo) Update(ctx context.Context, c *models.Citizen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.citizens[c.ID]; !ok {
		return apperrors.NotFound("citizen not found")
	}
	clone := *c
	r.citizens[c.ID] = &clone
	return nil
}

func (r *fakeCitizenRepo) FindAll(ctx context.Context) ([]*models.Citizen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Citizen, 0, len(r.citizens))
	for _, c := range r.citizens {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeCitizenRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.citizens)), nil
}

type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs []*models.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo { return &fakeTransactionRepo{} }

func (r *fakeTransactionRepo) add(tx *models.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *tx
	r.txs = append(r.txs, &clone)
}

func (r *fakeTransactionRepo) FindByCollector(ctx context.Context, collectorID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.CollectorID != collectorID {
			continue
		}
		if since != nil && tx.TransactionTime.Before(*since) {
			continue
		}
		clone := *tx
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByCitizen(ctx context.Context, citizenID primitive.ObjectID, since *time.Time) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range r.txs {
		if tx.CitizenID == nil || *tx.CitizenID != citizenID {
			continue
		}
		if since != nil && tx.TransactionTime.Before(*since) {
			continue
		}
		clone := *tx
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindAll(ctx context.Context) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		clone := *tx
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeTransactionRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.txs)), nil
}

func (r *fakeTransactionRepo) SumWeightByCollectorSince(ctx context.Context, collectorID primitive.ObjectID, since time.Time) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, tx := range r.txs {
		if tx.CollectorID == collectorID && !tx.TransactionTime.Before(since) {
			sum += tx.WeightKg
		}
	}
	return sum, nil
}

type fakeRedemptionRepo struct {
	mu          sync.Mutex
	redemptions map[primitive.ObjectID]*models.Redemption
}

func newFakeRedemptionRepo() *fakeRedemptionRepo {
	return &fakeRedemptionRepo{redemptions: make(map[primitive.ObjectID]*models.Redemption)}
}

func (r *fakeRedemptionRepo) add(red *models.Redemption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if red.ID.IsZero() {
		red.ID = primitive.NewObjectID()
	}
	clone := *red
	r.redemptions[red.ID] = &clone
}

func (r *fakeRedemptionRepo) FindActiveByCollector(ctx context.Context, collectorID primitive.ObjectID) (*models.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, red := range r.redemptions {
		if red.CollectorID == collectorID && red.IsActive {
			clone := *red
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeRedemptionRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]*models.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Redemption
	for _, red := range r.redemptions {
		if red.IsActive && red.ValidUntil.Before(now) {
			clone := *red
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeRedemptionRepo) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	red, ok := r.redemptions[id]
	if !ok {
		return apperrors.NotFound("redemption not found")
	}
	red.IsActive = false
	return nil
}

func (r *fakeRedemptionRepo) FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Redemption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Redemption
	for _, red := range r.redemptions {
		if red.CollectorID == collectorID {
			clone := *red
			out = append(out, &clone)
		}
	}
	return out, nil
}

// fakeLedgerRepo applies the same commit semantics as the mongo
// implementation: the accrual persists the transaction and collector
// together, the redemption debit is conditional on the balance.
type fakeLedgerRepo struct {
	collectors  *fakeCollectorRepo
	txs         *fakeTransactionRepo
	redemptions *fakeRedemptionRepo
}

func (r *fakeLedgerRepo) CommitAccrual(ctx context.Context, tx *models.Transaction, collector *models.Collector, coinsAwarded int) error {
	r.collectors.mu.Lock()
	stored, ok := r.collectors.collectors[collector.ID]
	if !ok {
		r.collectors.mu.Unlock()
		return apperrors.NotFound("collector not found")
	}
	stored.DailyCollectedKg = collector.DailyCollectedKg
	stored.DailyThresholdUnlocked = collector.DailyThresholdUnlocked
	stored.LastThresholdReset = collector.LastThresholdReset
	stored.KCoinsBalance += coinsAwarded
	r.collectors.mu.Unlock()

	if tx.ID.IsZero() {
		tx.ID = primitive.NewObjectID()
	}
	r.txs.add(tx)
	return nil
}

func (r *fakeLedgerRepo) CommitRedemption(ctx context.Context, redemption *models.Redemption, cost int) error {
	// mirrors the partial unique index on {collectorId, isActive:true}: a
	// second active redemption aborts the whole commit, debit included
	r.redemptions.mu.Lock()
	for _, red := range r.redemptions.redemptions {
		if red.CollectorID == redemption.CollectorID && red.IsActive {
			r.redemptions.mu.Unlock()
			return apperrors.InvalidState("an active redemption already exists, redemptions cannot stack")
		}
	}
	r.redemptions.mu.Unlock()

	r.collectors.mu.Lock()
	stored, ok := r.collectors.collectors[redemption.CollectorID]
	if !ok || stored.KCoinsBalance < cost {
		r.collectors.mu.Unlock()
		return apperrors.InvalidState("insufficient K-Coins")
	}
	stored.KCoinsBalance -= cost
	stored.PriorityActive = true
	expiry := redemption.ValidUntil
	stored.PriorityExpiresAt = &expiry
	r.collectors.mu.Unlock()

	r.redemptions.add(redemption)
	return nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[string]*models.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]*models.Admin)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, a *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	clone := *a
	r.admins[a.Username] = &clone
	return nil
}

func (r *fakeAdminRepo) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[username]
	if !ok {
		return nil, apperrors.NotFound("admin not found")
	}
	clone := *a
	return &clone, nil
}

type fakeConfigRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{values: make(map[string]string)}
}

func (r *fakeConfigRepo) FindByKey(ctx context.Context, key string) (*models.AdminConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return nil, apperrors.NotFound("config key not found")
	}
	return &models.AdminConfig{Key: key, Value: v}, nil
}

func (r *fakeConfigRepo) UpsertByKey(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeConfigRepo) FindAll(ctx context.Context) ([]*models.AdminConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.AdminConfig, 0, len(r.values))
	for k, v := range r.values {
		out = append(out, &models.AdminConfig{Key: k, Value: v})
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) FindByCitizen(ctx context.Context, citizenID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.CitizenID == citizenID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByCollector(ctx context.Context, collectorID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.CollectorID != nil && *b.CollectorID == collectorID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return apperrors.NotFound("booking not found")
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}
