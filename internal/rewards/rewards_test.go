package rewards

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabadiconnect/kabadi-backend/internal/models"
)

func TestCoinsForTotal(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		threshold float64
		kgPerCoin float64
		want      int
	}{
		{"below threshold", 15, 20, 5, 0},
		{"exactly threshold", 20, 20, 5, 0},
		{"one coin", 25, 20, 5, 1},
		{"partial excess floors", 29.9, 20, 5, 1},
		{"two coins", 30, 20, 5, 2},
		{"zero total", 0, 20, 5, 0},
		{"zero kg per coin", 100, 20, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoinsForTotal(tt.total, tt.threshold, tt.kgPerCoin))
		})
	}
}

// Scenario: 15kg logged, then 10kg more. The first transaction earns nothing,
// the second crosses the threshold and earns for the 5kg excess.
func TestAccrualDelta_CrossingThreshold(t *testing.T) {
	total, awarded := AccrualDelta(0, 15, 20, 5)
	assert.Equal(t, 15.0, total)
	assert.Equal(t, 0, awarded)

	total, awarded = AccrualDelta(total, 10, 20, 5)
	assert.Equal(t, 25.0, total)
	assert.Equal(t, 1, awarded)
}

// Scenario: 18kg already collected, 7kg logged. prevCoins=0, newCoins=1.
func TestAccrualDelta_MidTransactionCross(t *testing.T) {
	total, awarded := AccrualDelta(18, 7, 20, 5)
	assert.Equal(t, 25.0, total)
	assert.Equal(t, 1, awarded)
}

func TestAccrualDelta_ZeroWeightIsNoOp(t *testing.T) {
	total, awarded := AccrualDelta(23, 0, 20, 5)
	assert.Equal(t, 23.0, total)
	assert.Equal(t, 0, awarded)
}

// Logging a total weight W in one transaction must award the same coins as
// logging it split into any sequence of smaller transactions summing to W.
func TestAccrualDelta_SplitInvariance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		totalWeight := rng.Float64() * 80
		_, wholeCoins := AccrualDelta(0, totalWeight, 20, 5)

		running := 0.0
		splitCoins := 0
		remaining := totalWeight
		for remaining > 0 {
			w := rng.Float64() * remaining
			if remaining < 0.5 {
				w = remaining
			}
			var awarded int
			running, awarded = AccrualDelta(running, w, 20, 5)
			splitCoins += awarded
			remaining = totalWeight - running
		}

		require.InDelta(t, totalWeight, running, 1e-6)
		assert.Equal(t, wholeCoins, splitCoins, "total=%f", totalWeight)
	}
}

func TestApplyDailyResetIfStale(t *testing.T) {
	today := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	c := &models.Collector{
		DailyCollectedKg:       19,
		DailyThresholdUnlocked: true,
		LastThresholdReset:     yesterday,
	}

	require.True(t, ApplyDailyResetIfStale(c, today))
	assert.Equal(t, 0.0, c.DailyCollectedKg)
	assert.False(t, c.DailyThresholdUnlocked)
	assert.Equal(t, StartOfDay(today), c.LastThresholdReset)

	// Idempotent: a second call on the same day is a no-op.
	c.DailyCollectedKg = 7
	assert.False(t, ApplyDailyResetIfStale(c, today))
	assert.Equal(t, 7.0, c.DailyCollectedKg)
}

func TestApplyDailyResetIfStale_NeverReset(t *testing.T) {
	c := &models.Collector{DailyCollectedKg: 3}
	assert.True(t, ApplyDailyResetIfStale(c, time.Now()))
	assert.Equal(t, 0.0, c.DailyCollectedKg)
}

// The stored reset time comes back from the database in UTC. A same-day
// comparison on a non-UTC server must not treat the UTC rendering of local
// midnight as a previous day, or every load would wipe the running total.
func TestApplyDailyResetIfStale_UTCRoundTrip(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	// reset applied at 00:05 IST, stored and decoded as UTC
	c := &models.Collector{
		DailyCollectedKg:       18,
		DailyThresholdUnlocked: false,
		LastThresholdReset:     StartOfDay(time.Date(2026, 8, 28, 0, 5, 0, 0, ist)).UTC(),
	}

	// later the same IST day: no reset, the running total survives
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, ist)
	assert.False(t, ApplyDailyResetIfStale(c, now))
	assert.Equal(t, 18.0, c.DailyCollectedKg)

	// next IST day still resets
	assert.True(t, ApplyDailyResetIfStale(c, now.AddDate(0, 0, 1)))
	assert.Equal(t, 0.0, c.DailyCollectedKg)
}

func TestRoundAmount(t *testing.T) {
	assert.Equal(t, 37.5, RoundAmount(2.5, 15))
	assert.Equal(t, 0.13, RoundAmount(0.125, 1))   // half-up
	assert.Equal(t, 33.33, RoundAmount(3.333, 10)) // truncates down below half
}
