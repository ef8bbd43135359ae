package usecase

import (
	"context"
	"fmt"
	"time"

	"SenateInsight/internal/domain/models"
	drepo "SenateInsight/internal/domain/repository"
)

// AlertProcessor routes generated alerts to the configured backend.
type AlertProcessor struct {
	pub     drepo.AlertPublisher
	store   drepo.AlertStore
	metrics drepo.Metrics
	backend string
}

// NewAlertProcessor creates a new AlertProcessor instance.
func NewAlertProcessor(
	pub drepo.AlertPublisher,
	store drepo.AlertStore,
	metrics drepo.Metrics,
	backend string,
) *AlertProcessor {
	return &AlertProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
	}
}

// Process routes a single alert to the configured backend.
func (p *AlertProcessor) Process(ctx context.Context, a *models.Alert) error {
	if a == nil {
		return fmt.Errorf("alert is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, a)
	case "clickhouse":
		err = p.store.Store(ctx, a)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process alert: %w", err)
	}

	p.metrics.RecordAlert(p.backend, a.AlertType)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple alerts in a batch.
func (p *AlertProcessor) ProcessBatch(ctx context.Context, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, alerts)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, alerts)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, a := range alerts {
		p.metrics.RecordAlert(p.backend, a.AlertType)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *AlertProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
