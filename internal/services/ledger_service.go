package services

import (
	"context"
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

// TransactionRequest is a pickup transaction submitted by a collector.
type TransactionRequest struct {
	CollectorID  string
	CitizenID    string // optional
	MaterialType string
	WeightKg     float64
	PricePerKg   float64
}

// TransactionReceipt is returned to the collector after a successful log.
type TransactionReceipt struct {
	TransactionID     string  `json:"transactionId"`
	AmountPaid        float64 `json:"amountPaid"`
	KCoinsEarned      int     `json:"kCoinsEarned"`
	NewKCoinBalance   int     `json:"newKCoinBalance"`
	DailyCollectedKg  float64 `json:"dailyCollectedKg"`
	ThresholdUnlocked bool    `json:"thresholdUnlocked"`
}

// LedgerService is the transaction ledger writer: it persists pickup
// transactions and converts them into incremental coin awards. It also owns
// the eager daily reset used by the scheduler.
type LedgerService struct {
	collectorRepo repositories.CollectorRepository
	citizenRepo   repositories.CitizenRepository
	txRepo        repositories.TransactionRepository
	ledgerRepo    repositories.LedgerRepository
	configSvc     *ConfigService
	producer      *events.Producer
	locks         *CollectorLocks
	logger        zerolog.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	collectorRepo repositories.CollectorRepository,
	citizenRepo repositories.CitizenRepository,
	txRepo repositories.TransactionRepository,
	ledgerRepo repositories.LedgerRepository,
	configSvc *ConfigService,
	producer *events.Producer,
	locks *CollectorLocks,
	logger zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		collectorRepo: collectorRepo,
		citizenRepo:   citizenRepo,
		txRepo:        txRepo,
		ledgerRepo:    ledgerRepo,
		configSvc:     configSvc,
		producer:      producer,
		locks:         locks,
		logger:        logger,
	}
}

// LogTransaction validates and persists a pickup transaction, then applies
// the coin accrual to the owning collector. The coins awarded are the
// difference between the floor-division of the cumulative daily excess after
// and before this transaction, so splitting a pickup across several logs
// never changes the total coins for a given cumulative weight.
func (s *LedgerService) LogTransaction(ctx context.Context, req TransactionRequest) (*TransactionReceipt, error) {
	if req.WeightKg <= 0 {
		return nil, apperrors.Validation("weight must be positive")
	}
	if req.PricePerKg <= 0 {
		return nil, apperrors.Validation("price per kg must be positive")
	}
	if req.MaterialType == "" {
		return nil, apperrors.Validation("material type is required")
	}
	collectorID, err := primitive.ObjectIDFromHex(req.CollectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}

	var citizenID *primitive.ObjectID
	if req.CitizenID != "" {
		id, err := primitive.ObjectIDFromHex(req.CitizenID)
		if err != nil {
			return nil, apperrors.Validation("invalid citizen id")
		}
		if _, err := s.citizenRepo.FindByID(ctx, id); err != nil {
			return nil, err
		}
		citizenID = &id
	}

	// Serialize with every other writer for this collector so the accrual
	// delta sees the immediately-preceding committed daily total.
	unlock := s.locks.Lock(req.CollectorID)
	defer unlock()

	collector, err := s.collectorRepo.FindByID(ctx, collectorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rewards.ApplyDailyResetIfStale(collector, now)

	params := s.configSvc.RewardParams(ctx)
	prevTotal := collector.DailyCollectedKg
	newTotal, awarded := rewards.AccrualDelta(prevTotal, req.WeightKg, params.DailyThresholdKg, params.KgPerCoin)
	collector.DailyCollectedKg = newTotal
	if rewards.ThresholdReached(newTotal, params.DailyThresholdKg) {
		collector.DailyThresholdUnlocked = true
	}

	tx := &models.Transaction{
		CollectorID:     collectorID,
		CitizenID:       citizenID,
		MaterialType:    req.MaterialType,
		WeightKg:        req.WeightKg,
		PricePerKg:      req.PricePerKg,
		AmountPaid:      rewards.RoundAmount(req.WeightKg, req.PricePerKg),
		TransactionTime: now,
	}

	if err := s.ledgerRepo.CommitAccrual(ctx, tx, collector, awarded); err != nil {
		return nil, err
	}
	newBalance := collector.KCoinsBalance + awarded

	metrics.TransactionsLogged.Inc()
	metrics.CoinsAwarded.Add(float64(awarded))
	s.producer.PublishTransactionLogged(events.TransactionLogged{
		TransactionID:    tx.ID.Hex(),
		CollectorID:      collectorID.Hex(),
		MaterialType:     tx.MaterialType,
		WeightKg:         tx.WeightKg,
		AmountPaid:       tx.AmountPaid,
		CoinsEarned:      awarded,
		DailyCollectedKg: newTotal,
		LoggedAt:         now,
	})
	s.logger.Info().
		Str("collectorId", collectorID.Hex()).
		Float64("weightKg", req.WeightKg).
		Int("coinsEarned", awarded).
		Float64("dailyCollectedKg", newTotal).
		Msg("transaction logged")

	return &TransactionReceipt{
		TransactionID:     tx.ID.Hex(),
		AmountPaid:        tx.AmountPaid,
		KCoinsEarned:      awarded,
		NewKCoinBalance:   newBalance,
		DailyCollectedKg:  newTotal,
		ThresholdUnlocked: collector.DailyThresholdUnlocked,
	}, nil
}

// RunDailyReset eagerly applies the daily reset to every stale collector.
// Correctness does not depend on it: the ledger self-heals lazily on the
// first transaction of the day. The job only bounds staleness for dashboards.
func (s *LedgerService) RunDailyReset(ctx context.Context) (int64, error) {
	count, err := s.collectorRepo.ResetAllStale(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	metrics.DailyResets.Add(float64(count))
	s.logger.Info().Int64("collectors", count).Msg("daily threshold reset applied")
	return count, nil
}

// CollectorTransactions lists a collector's transactions, optionally limited
// to the current daily/monthly/yearly period.
func (s *LedgerService) CollectorTransactions(ctx context.Context, collectorID string, filter string) ([]*models.Transaction, error) {
	id, err := primitive.ObjectIDFromHex(collectorID)
	if err != nil {
		return nil, apperrors.Validation("invalid collector id")
	}
	return s.txRepo.FindByCollector(ctx, id, utils.PeriodStart(filter, time.Now()))
}

// CitizenTransactions lists a citizen's transactions, optionally limited to
// the current daily/monthly/yearly period.
func (s *LedgerService) CitizenTransactions(ctx context.Context, citizenID string, filter string) ([]*models.Transaction, error) {
	id, err := primitive.ObjectIDFromHex(citizenID)
	if err != nil {
		return nil, apperrors.Validation("invalid citizen id")
	}
	return s.txRepo.FindByCitizen(ctx, id, utils.PeriodStart(filter, time.Now()))
}
