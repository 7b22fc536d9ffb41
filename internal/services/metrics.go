package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	betsTotal     *prometheus.CounterVec
	wageredTotal  *prometheus.CounterVec
	payoutsTotal  *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	crashRounds   prometheus.Counter
	crashPoints   prometheus.Histogram
	crashCashouts prometheus.Counter
	ledgerUpdates prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		betsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_bets_total",
			Help: "Settled bets by game",
		}, []string{"game", "outcome"}),
		wageredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_wagered_total",
			Help: "Total amount wagered by game",
		}, []string{"game"}),
		payoutsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_payouts_total",
			Help: "Total amount paid out by game",
		}, []string{"game"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rejected_total",
			Help: "Rejected requests by reason",
		}, []string{"reason"}),
		crashRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casino_crash_rounds_total",
			Help: "Crash rounds completed",
		}),
		crashPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "casino_crash_point",
			Help:    "Distribution of crash points",
			Buckets: []float64{1, 1.5, 2, 3, 5, 10, 20, 33},
		}),
		crashCashouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casino_crash_cashouts_total",
			Help: "Successful crash cashouts",
		}),
		ledgerUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casino_ledger_updates_total",
			Help: "Ledger balance mutations",
		}),
	}

	reg.MustRegister(
		m.betsTotal,
		m.wageredTotal,
		m.payoutsTotal,
		m.rejectedTotal,
		m.crashRounds,
		m.crashPoints,
		m.crashCashouts,
		m.ledgerUpdates,
	)
	return m
}

func (m *Metrics) recordSettlement(game models.GameType, wagered, payout decimal.Decimal, outcome models.Outcome) {
	if m == nil {
		return
	}
	m.betsTotal.WithLabelValues(string(game), string(outcome)).Inc()
	m.wageredTotal.WithLabelValues(string(game)).Add(wagered.InexactFloat64())
	m.payoutsTotal.WithLabelValues(string(game)).Add(payout.InexactFloat64())
}

func (m *Metrics) recordRejected(reason string) {
	if m == nil {
		return
	}
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) recordCrash(crashPoint decimal.Decimal) {
	if m == nil {
		return
	}
	m.crashRounds.Inc()
	m.crashPoints.Observe(crashPoint.InexactFloat64())
}

func (m *Metrics) recordCashout() {
	if m == nil {
		return
	}
	m.crashCashouts.Inc()
}

func (m *Metrics) recordLedgerUpdate() {
	if m == nil {
		return
	}
	m.ledgerUpdates.Inc()
}
