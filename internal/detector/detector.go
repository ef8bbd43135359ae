// Package detector implements the suspicion scoring engine. It correlates a
// member's stock transactions with their legislative record, committee
// assignments and daily price history, and emits an alert for every
// transaction whose combined score clears the configured threshold.
//
// The engine is a pure function pipeline: it performs no I/O, holds no
// per-call state, and given identical inputs produces identical scores.
// Scoring one transaction never affects another, so callers are free to
// fan out across transactions or members.
package detector

import (
	"fmt"
	"strings"
	"time"

	"SenateInsight/internal/domain/models"
)

// Sub-score weights. They sum to 1.0 and are fixed by design; only the
// thresholds below are configurable.
const (
	weightTiming    = 0.30
	weightCommittee = 0.25
	weightPrice     = 0.35
	weightVolume    = 0.10
)

// priceWindowDays is the post-transaction window used for the price
// movement sub-score and reported on every alert.
const priceWindowDays = 30

// Config holds the detector-wide thresholds.
type Config struct {
	// TimingWindowDays is the symmetric window around a transaction date in
	// which legislative actions are considered. Default 30.
	TimingWindowDays int
	// SignificantPriceChange is reserved for future use by the price
	// movement thresholds. Default 0.05.
	SignificantPriceChange float64
	// MinConfidenceThreshold is the minimum combined score for an alert to
	// be emitted. Default 0.3.
	MinConfidenceThreshold float64
}

// DefaultConfig returns the detector defaults.
func DefaultConfig() Config {
	return Config{
		TimingWindowDays:       30,
		SignificantPriceChange: 0.05,
		MinConfidenceThreshold: 0.3,
	}
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock injects the time source used for alert ids and timestamps.
// Alert ids embed a wall-clock component, so tests that assert on identity
// must pin the clock.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// Detector scores transactions for insider trading indicators. It holds
// only configuration and is safe for concurrent use.
type Detector struct {
	cfg Config
	now func() time.Time
}

// New creates a Detector, filling zero config fields with defaults.
func New(cfg Config, opts ...Option) *Detector {
	if cfg.TimingWindowDays <= 0 {
		cfg.TimingWindowDays = 30
	}
	if cfg.SignificantPriceChange <= 0 {
		cfg.SignificantPriceChange = 0.05
	}
	if cfg.MinConfidenceThreshold <= 0 {
		cfg.MinConfidenceThreshold = 0.3
	}
	d := &Detector{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the effective configuration.
func (d *Detector) Config() Config { return d.cfg }

// AnalyzeMemberActivity scores every transaction independently and returns
// one alert per transaction whose combined score reaches the threshold.
// Missing data degrades to zero sub-scores, never to an error: a ticker
// without any price series is skipped, empty action or committee sets score
// zero. Legislative actions are matched per transaction, not per member, so
// a mixed set is tolerated.
func (d *Detector) AnalyzeMemberActivity(
	member models.Member,
	transactions []models.Transaction,
	actions []models.LegislativeAction,
	assignments []models.CommitteeAssignment,
	prices map[string][]models.PriceBar,
) []models.Alert {
	alerts := make([]models.Alert, 0)

	for _, txn := range transactions {
		bars := prices[txn.Ticker]
		if len(bars) == 0 {
			continue
		}

		breakdown := d.ScoreTransaction(txn, actions, assignments, bars)
		if breakdown.Overall >= d.cfg.MinConfidenceThreshold {
			alerts = append(alerts, d.buildAlert(txn, member, breakdown))
		}
	}

	return alerts
}

// ScoreTransaction computes the four sub-scores and their weighted
// combination for a single transaction. The overall score is clamped
// to [0,1].
func (d *Detector) ScoreTransaction(
	txn models.Transaction,
	actions []models.LegislativeAction,
	assignments []models.CommitteeAssignment,
	bars []models.PriceBar,
) models.ScoreBreakdown {
	b := models.ScoreBreakdown{
		Timing:               d.timingScore(txn, actions),
		CommitteeCorrelation: d.committeeCorrelationScore(txn, assignments),
		PriceMovement:        d.priceMovementScore(txn, bars),
		VolumeAnomaly:        d.volumeAnomalyScore(txn, bars),
	}
	b.Overall = clamp01(b.Timing*weightTiming +
		b.CommitteeCorrelation*weightCommittee +
		b.PriceMovement*weightPrice +
		b.VolumeAnomaly*weightVolume)
	return b
}

func (d *Detector) buildAlert(txn models.Transaction, member models.Member, b models.ScoreBreakdown) models.Alert {
	alertType := models.AlertTypeTiming
	if b.CommitteeCorrelation > 0.5 {
		alertType = models.AlertTypeCommittee
	}

	desc := fmt.Sprintf("Potential insider trading detected: %s %s %s on %s with suspicion score %.2f",
		member.Name,
		transactionVerb(txn.TransactionType),
		txn.Ticker,
		txn.TransactionDate.Format("2006-01-02"),
		b.Overall,
	)

	now := d.now()
	return models.Alert{
		// The id embeds the generation time so re-scoring the same
		// transaction yields a distinct alert.
		AlertID:           fmt.Sprintf("alert_%s_%d", txn.TransactionID, now.UnixNano()),
		MemberID:          member.MemberID,
		TransactionID:     txn.TransactionID,
		AlertType:         alertType,
		ConfidenceScore:   b.Overall,
		Description:       desc,
		PriceMovementDays: priceWindowDays,
		// PriceChangePercent stays unset here; callers with access to the
		// raw price delta may populate it.
		CreatedAt: now,
	}
}

func transactionVerb(txnType string) string {
	switch strings.ToLower(txnType) {
	case "buy", "purchase":
		return "bought"
	case "sell", "sale":
		return "sold"
	case "exchange":
		return "exchanged"
	default:
		return "traded"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// dayDiff returns b minus a in whole calendar days, ignoring the time of day.
func dayDiff(a, b time.Time) int {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	at := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bt := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bt.Sub(at) / (24 * time.Hour))
}
