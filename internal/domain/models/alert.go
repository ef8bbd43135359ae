package models

import "time"

// Alert types emitted by the detector. A single coarse label per alert;
// committee correlation wins over timing when its sub-score is elevated.
const (
	AlertTypeTiming    = "timing_correlation"
	AlertTypeCommittee = "committee_correlation"
)

// Alert represents one flagged transaction. Alerts are immutable once
// created; persistence and enrichment belong to the caller.
type Alert struct {
	AlertID            string    `json:"alert_id"`
	MemberID           string    `json:"member_id"`
	TransactionID      string    `json:"transaction_id"`
	AlertType          string    `json:"alert_type"`
	ConfidenceScore    float64   `json:"confidence_score"` // always within [0,1]
	Description        string    `json:"description"`
	PriceMovementDays  int       `json:"price_movement_days"`
	PriceChangePercent *float64  `json:"price_change_percent,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ScoreBreakdown carries the four sub-scores and their weighted combination
// for one transaction.
type ScoreBreakdown struct {
	Timing               float64
	CommitteeCorrelation float64
	PriceMovement        float64
	VolumeAnomaly        float64
	Overall              float64
}
