package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LedgerSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftwallet",
		Subsystem: "ledger",
		Name:      "submissions_total",
		Help:      "Signed transactions submitted to the node, by outcome.",
	}, []string{"outcome"})

	LedgerConfirmSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nftwallet",
		Subsystem: "ledger",
		Name:      "confirmation_seconds",
		Help:      "Time from submission to confirmation.",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})

	AssetOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftwallet",
		Subsystem: "asset",
		Name:      "operations_total",
		Help:      "Asset lifecycle operations, by kind and outcome.",
	}, []string{"kind", "outcome"})

	WalletsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nftwallet",
		Subsystem: "wallet",
		Name:      "created_total",
		Help:      "Custodial wallets generated.",
	})

	PinningUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nftwallet",
		Subsystem: "pinning",
		Name:      "uploads_total",
		Help:      "Content storage uploads, by content type and outcome.",
	}, []string{"content", "outcome"})
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ObserveConfirmation(started time.Time) {
	LedgerConfirmSeconds.Observe(time.Since(started).Seconds())
}
