package repository

import (
	"context"
	"time"

	"SenateInsight/internal/domain/models"
)

// AlertPublisher pushes generated alerts to a message backend.
type AlertPublisher interface {
	Publish(ctx context.Context, a *models.Alert) error
	PublishBatch(ctx context.Context, alerts []*models.Alert) error
	Close() error
}

// AlertStore persists and queries alerts.
type AlertStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, a *models.Alert) error
	StoreBatch(ctx context.Context, alerts []*models.Alert) error
	Query(ctx context.Context, q AlertQuery) ([]*models.Alert, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// AlertQuery filters stored alerts.
type AlertQuery struct {
	MemberID      string
	MinConfidence float64
	Since         time.Time
	Limit         int
	Offset        int
}

// TransactionStore persists collected disclosure transactions.
type TransactionStore interface {
	StoreBatch(ctx context.Context, txns []*models.Transaction) error
	Close() error
}

// Metrics records pipeline counters and latencies.
type Metrics interface {
	RecordAlert(backend, alertType string)
	RecordMemberProcessed(chamber string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
