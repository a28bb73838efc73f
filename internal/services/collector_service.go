package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kabadiconnect/kabadi-backend/internal/apperrors"
	"github.com/kabadiconnect/kabadi-backend/internal/events"
	"github.com/kabadiconnect/kabadi-backend/internal/metrics"
	"github.com/kabadiconnect/kabadi-backend/internal/models"
	"github.com/kabadiconnect/kabadi-backend/internal/repositories"
	"github.com/kabadiconnect/kabadi-backend/internal/rewards"
	"github.com/kabadiconnect/kabadi-backend/internal/utils"
)

// RedemptionSummary is the active-redemption view embedded in CoinStatus.
type RedemptionSummary struct {
	Commodity     string    `json:"commodity"`
	ValidUntil    time.Time `json:"validUntil"`
	CoinsRedeemed int       `json:"coinsRedeemed"`
}

// CoinStatus is the read-only coin view for one collector.
type CoinStatus struct {
	KCoinsBalance      int                `json:"kCoinsBalance"`
	DailyCollectedKg   float64            `json:"dailyCollectedKg"`
	ThresholdUnlocked  bool               `json:"thresholdUnlocked"`
	RedemptionEligible bool               `json:"redemptionEligible"`
	PriorityActive     bool               `json:"priorityActive"`
	PriorityExpiresAt  *time.Time         `json:"priorityExpiresAt,omitempty"`
	ActiveRedemption   *RedemptionSummary `json:"activeRedemption,omitempty"`
}

// RedemptionResult is returned after a successful redemption.
type RedemptionResult struct {
	ValidUntil     time.Time `json:"validUntil"`
	Commodity      string    `json:"commodity"`
	PriorityActive bool      `json:"priorityActive"`
}

// Dashboard aggregates the collector's headline figures.
type Dashboard struct {
	TotalCollectedKg  float64 `json:"totalCollectedKg"`
	DailyCollectedKg  float64 `json:"dailyCollectedKg"`
	ThresholdUnlocked bool    `json:"thresholdUnlocked"`
	ThresholdKg       float64 `json:"thresholdKg"`
	KCoinsBalance     int     `json:"kCoinsBalance"`
	PriorityActive    bool    `json:"priorityActive"`
	TransactionCount  int     `json:"transactionCount"`
}

// ProfileUpdate carries optional profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name              *string  `json:"name"`
	Area              *string  `json:"area"`
	PreferredLanguage *string  `json:"preferredLanguage"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}

// CollectorService manages collector profiles and the redemption lifecycle.
type CollectorService struct {
	collectorRepo  repositories.CollectorRepository
	txRepo         repositories.TransactionRepository
	redemptionRepo repositories.RedemptionRepository
	ledgerRepo     repositories.LedgerRepository
	configSvc      *ConfigService
	producer       *events.Producer
	locks          *CollectorLocks
	logger         zerolog.Logger
}

// NewCollectorService creates a new CollectorService
func NewCollectorService(
	collectorRepo repositories.CollectorRepository,
	txRepo repositories.TransactionRepository,
	redemptionRepo repositories.RedemptionRepository,
	ledgerRepo repositories.LedgerRepository,
	configSvc *ConfigService,
	producer *events.Producer,
	locks *CollectorLocks,
	logger zerolog.Logger,
) *CollectorService {
	return &CollectorService{
		collectorRepo:  collectorRepo,
		txRepo:         txRepo,
		redemptionRepo: redemptionRepo,
		ledgerRepo:     ledgerRepo,
		configSvc:      configSvc,
		producer:       producer,
		locks:          locks,
		logger:         logger,
	}
}

// GetProfile returns one collector
func (s *CollectorService) GetProfile(ctx context.Context, collectorID string) (*models.Collector, error) {
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}
	return s.collectorRepo.FindByID(ctx, id)
}

// UpdateProfile applies the provided fields to the collector's profile
func (s *CollectorService) UpdateProfile(ctx context.Context, collectorID string, upd ProfileUpdate) (*models.Collector, error) {
	unlock := s.locks.Lock(collectorID)
	defer unlock()

	collector, err := s.GetProfile(ctx, collectorID)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		collector.Name = *upd.Name
	}
	if upd.Area != nil {
		collector.Area = *upd.Area
	}
	if upd.PreferredLanguage != nil {
		collector.PreferredLanguage = *upd.PreferredLanguage
	}
	if upd.Latitude != nil {
		collector.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		collector.Longitude = upd.Longitude
	}
	if err := s.collectorRepo.Update(ctx, collector); err != nil {
		return nil, err
	}
	return collector, nil
}

// UpdateLanguage updates only the preferred language
func (s *CollectorService) UpdateLanguage(ctx context.Context, collectorID, language string) error {
	_, err := s.UpdateProfile(ctx, collectorID, ProfileUpdate{PreferredLanguage: &language})
	return err
}

// GetDashboard returns the collector's headline figures. The daily total is
// computed live from the transaction ledger so the dashboard is fresh even
// before the first transaction of the day touched the record.
func (s *CollectorService) GetDashboard(ctx context.Context, collectorID string) (*Dashboard, error) {
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}

	unlock := s.locks.Lock(collectorID)
	defer unlock()

	collector, err := s.collectorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allTxs, err := s.txRepo.FindByCollector(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	totalCollected := 0.0
	for _, tx := range allTxs {
		totalCollected += tx.WeightKg
	}

	now := time.Now()
	daily, err := s.txRepo.SumWeightByCollectorSince(ctx, id, rewards.StartOfDay(now))
	if err != nil {
		return nil, err
	}

	params := s.configSvc.RewardParams(ctx)
	unlocked := rewards.ThresholdReached(daily, params.DailyThresholdKg)

	// Keep the record in sync so the accrual delta stays consistent on the
	// next transaction.
	if rewards.ApplyDailyResetIfStale(collector, now) {
		collector.DailyCollectedKg = daily
		collector.DailyThresholdUnlocked = unlocked
		if err := s.collectorRepo.Update(ctx, collector); err != nil {
			return nil, err
		}
	}

	return &Dashboard{
		TotalCollectedKg:  totalCollected,
		DailyCollectedKg:  daily,
		ThresholdUnlocked: unlocked,
		ThresholdKg:       params.DailyThresholdKg,
		KCoinsBalance:     collector.KCoinsBalance,
		PriorityActive:    collector.PriorityActive,
		TransactionCount:  len(allTxs),
	}, nil
}

// GetCoinStatus returns the coin balance, daily progress and redemption state
// for one collector. Read-only.
func (s *CollectorService) GetCoinStatus(ctx context.Context, collectorID string) (*CoinStatus, error) {
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}
	collector, err := s.collectorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params := s.configSvc.RewardParams(ctx)

	status := &CoinStatus{
		KCoinsBalance:      collector.KCoinsBalance,
		DailyCollectedKg:   collector.DailyCollectedKg,
		ThresholdUnlocked:  collector.DailyThresholdUnlocked,
		RedemptionEligible: collector.KCoinsBalance >= params.RedemptionCost,
		PriorityActive:     collector.PriorityActive,
		PriorityExpiresAt:  collector.PriorityExpiresAt,
	}

	active, err := s.redemptionRepo.FindActiveByCollector(ctx, id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		status.ActiveRedemption = &RedemptionSummary{
			Commodity:     active.SelectedCommodity,
			ValidUntil:    active.ValidUntil,
			CoinsRedeemed: active.CoinsRedeemed,
		}
	}
	return status, nil
}

// Redeem exchanges the configured coin cost for a time-limited priority
// boost. At most one redemption per collector may be active; a second
// attempt while one is outstanding fails with an invalid-state error.
func (s *CollectorService) Redeem(ctx context.Context, collectorID, commodity string) (*RedemptionResult, error) {
	if commodity == "" {
		return nil, apperrors.Validation("selected commodity is required")
	}
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}

	// Serialize against concurrent redeems and accruals for this collector:
	// the balance check, the active-redemption check and the debit must act
	// on a single consistent view.
	unlock := s.locks.Lock(collectorID)
	defer unlock()

	collector, err := s.collectorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	params := s.configSvc.RewardParams(ctx)

	if collector.KCoinsBalance < params.RedemptionCost {
		return nil, apperrors.InvalidState("insufficient K-Coins, need %d to redeem", params.RedemptionCost)
	}
	active, err := s.redemptionRepo.FindActiveByCollector(ctx, id)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperrors.InvalidState("an active redemption already exists, redemptions cannot stack")
	}

	now := time.Now()
	redemption := &models.Redemption{
		CollectorID:       id,
		CoinsRedeemed:     params.RedemptionCost,
		SelectedCommodity: commodity,
		RedeemedAt:        now,
		ValidUntil:        now.AddDate(0, 0, params.ValidityDays),
		IsActive:          true,
	}
	if err := s.ledgerRepo.CommitRedemption(ctx, redemption, params.RedemptionCost); err != nil {
		return nil, err
	}

	metrics.Redemptions.Inc()
	s.producer.PublishCoinsRedeemed(events.CoinsRedeemed{
		RedemptionID:  redemption.ID.Hex(),
		CollectorID:   id.Hex(),
		CoinsRedeemed: redemption.CoinsRedeemed,
		Commodity:     commodity,
		ValidUntil:    redemption.ValidUntil,
		RedeemedAt:    now,
	})
	s.logger.Info().
		Str("collectorId", id.Hex()).
		Str("commodity", commodity).
		Time("validUntil", redemption.ValidUntil).
		Msg("K-Coins redeemed")

	return &RedemptionResult{
		ValidUntil:     redemption.ValidUntil,
		Commodity:      commodity,
		PriorityActive: true,
	}, nil
}

// ExpireRedemptions deactivates every active redemption whose validity
// window has passed and clears the owning collector's priority. This sweep is
// the sole place priority is revoked on expiry; between sweeps the flag may
// read stale-true for up to one interval. Per-item failures are logged and
// the sweep continues.
func (s *CollectorService) ExpireRedemptions(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.redemptionRepo.FindExpiredActive(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, redemption := range expired {
		unlock := s.locks.Lock(redemption.CollectorID.Hex())
		if err := s.redemptionRepo.Deactivate(ctx, redemption.ID); err != nil {
			s.logger.Error().Err(err).Str("redemptionId", redemption.ID.Hex()).Msg("failed to deactivate redemption")
			unlock()
			continue
		}
		if err := s.collectorRepo.ClearPriority(ctx, redemption.CollectorID); err != nil {
			s.logger.Error().Err(err).Str("collectorId", redemption.CollectorID.Hex()).Msg("failed to clear priority")
			unlock()
			continue
		}
		unlock()
		count++
		metrics.RedemptionsExpired.Inc()
	}
	if count > 0 {
		s.logger.Info().Int("expired", count).Msg("expired K-Coin redemptions")
	}
	return count, nil
}

// FindNearby returns active collectors within radiusKm of the given point
func (s *CollectorService) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*models.Collector, error) {
	collectors, err := s.collectorRepo.FindActiveWithLocation(ctx)
	if err != nil {
		return nil, err
	}
	var nearby []*models.Collector
	for _, c := range collectors {
		if utils.HaversineKm(lat, lng, *c.Latitude, *c.Longitude) <= radiusKm {
			nearby = append(nearby, c)
		}
	}
	if nearby == nil {
		nearby = []*models.Collector{}
	}
	return nearby, nil
}

// defaultPriorityRadiusKm bounds the priority search area.
const defaultPriorityRadiusKm = 5.0

// FindPriority returns collectors with an active priority boost within the
// default radius, closest first. The priority flag is consumed as-is; whether
// it is current is the expiry sweep's responsibility.
func (s *CollectorService) FindPriority(ctx context.Context, lat, lng float64) ([]*models.Collector, error) {
	nearby, err := s.FindNearby(ctx, lat, lng, defaultPriorityRadiusKm)
	if err != nil {
		return nil, err
	}
	var priority []*models.Collector
	for _, c := range nearby {
		if c.PriorityActive {
			priority = append(priority, c)
		}
	}
	if priority == nil {
		priority = []*models.Collector{}
	}
	sort.Slice(priority, func(i, j int) bool {
		di := utils.HaversineKm(lat, lng, *priority[i].Latitude, *priority[i].Longitude)
		dj := utils.HaversineKm(lat, lng, *priority[j].Latitude, *priority[j].Longitude)
		return di < dj
	})
	return priority, nil
}
