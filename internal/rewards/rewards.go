// Package rewards holds the pure K-Coin accrual arithmetic. Everything here
// is side-effect free; persistence and locking live in the services layer.
package rewards

import (
	"math"
	"time"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
)

// Params are the reward tunables read from admin config.
type Params struct {
	DailyThresholdKg float64
	KgPerCoin        float64
	RedemptionCost   int
	ValidityDays     int
}

// Defaults mirror the seeded admin_config values.
var Defaults = Params{
	DailyThresholdKg: 20,
	KgPerCoin:        5,
	RedemptionCost:   30,
	ValidityDays:     2,
}

// guards against float noise on exact multiples, e.g. (25.0-20.0)/5.0
const epsilon = 1e-9

// CoinsForTotal returns the coins owed for a cumulative daily total: the
// excess over the threshold, clamped at zero, floor-divided by kgPerCoin.
func CoinsForTotal(totalKg, thresholdKg, kgPerCoin float64) int {
	if kgPerCoin <= 0 {
		return 0
	}
	excess := totalKg - thresholdKg
	if excess < 0 {
		return 0
	}
	return int(math.Floor(excess/kgPerCoin + epsilon))
}

// AccrualDelta computes the coins awarded by one transaction as the
// difference between the floor-division of the cumulative total after and
// before it. Splitting one pickup into several logged transactions therefore
// never changes the total coins awarded for a given cumulative weight.
func AccrualDelta(prevTotalKg, weightKg, thresholdKg, kgPerCoin float64) (newTotalKg float64, awarded int) {
	newTotalKg = prevTotalKg + weightKg
	awarded = CoinsForTotal(newTotalKg, thresholdKg, kgPerCoin) - CoinsForTotal(prevTotalKg, thresholdKg, kgPerCoin)
	if awarded < 0 {
		awarded = 0
	}
	return newTotalKg, awarded
}

// ThresholdReached reports whether a cumulative daily total unlocks the
// threshold, tolerating float noise on exact sums.
func ThresholdReached(totalKg, thresholdKg float64) bool {
	return totalKg+epsilon >= thresholdKg
}

// ApplyDailyResetIfStale zeroes the collector's daily counters when its last
// reset date is unset or strictly before today. It is idempotent and is the
// only place daily counters are reset; both the ledger writer (lazily) and
// the daily reset job (eagerly) go through this rule. Returns whether a reset
// was applied.
//
// The stored reset time decodes from BSON in UTC, so the comparison converts
// it into today's location before truncating. Comparing the raw locations
// would re-trigger the reset on every load for any non-UTC server.
func ApplyDailyResetIfStale(c *models.Collector, today time.Time) bool {
	day := StartOfDay(today)
	if !c.LastThresholdReset.IsZero() {
		last := StartOfDay(c.LastThresholdReset.In(today.Location()))
		if !last.Before(day) {
			return false
		}
	}
	c.DailyCollectedKg = 0
	c.DailyThresholdUnlocked = false
	c.LastThresholdReset = day
	return true
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RoundAmount computes weight * price rounded to 2 decimals, half-up.
func RoundAmount(weightKg, pricePerKg float64) float64 {
	return math.Floor(weightKg*pricePerKg*100+0.5) / 100
}
