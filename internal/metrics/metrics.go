// Package metrics exposes the ledger's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsLogged counts pickup transactions accepted by the ledger.
	TransactionsLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kabadi_transactions_logged_total",
		Help: "Number of pickup transactions accepted by the ledger.",
	})

	// CoinsAwarded counts K-Coins credited by the accrual algorithm.
	CoinsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kabadi_kcoins_awarded_total",
		Help: "Total K-Coins credited to collectors.",
	})

	// Redemptions counts successful coin redemptions.
	Redemptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kabadi_redemptions_total",
		Help: "Number of successful K-Coin redemptions.",
	})

	// RedemptionsExpired counts redemptions deactivated by the expiry sweep.
	RedemptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kabadi_redemptions_expired_total",
		Help: "Number of redemptions deactivated by the expiry sweep.",
	})

	// DailyResets counts collectors reset by the daily reset job.
	DailyResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kabadi_daily_resets_total",
		Help: "Number of collector records reset by the daily reset job.",
	})
)
