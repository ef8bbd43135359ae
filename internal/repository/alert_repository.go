package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SenateInsight/internal/domain/models"
	"SenateInsight/internal/domain/repository"
	pkgkafka "SenateInsight/pkg/kafka"
)

const alertsDDL = `
CREATE TABLE IF NOT EXISTS %s (
    alert_id             String,
    member_id            String,
    transaction_id       String,
    alert_type           LowCardinality(String),
    confidence_score     Float64,
    description          String,
    price_movement_days  Int32,
    price_change_percent Nullable(Float64),
    created_at           DateTime64(3, 'UTC')
) ENGINE = ReplacingMergeTree
ORDER BY (member_id, created_at, alert_id)
`

// ClickHouseAlertStore implements AlertStore for ClickHouse.
type ClickHouseAlertStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseAlertStore creates ClickHouse alert storage.
func NewClickHouseAlertStore(db *sql.DB, table string) repository.AlertStore {
	return &ClickHouseAlertStore{db: db, table: table}
}

func (s *ClickHouseAlertStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(alertsDDL, s.table))
	return err
}

func (s *ClickHouseAlertStore) Store(ctx context.Context, a *models.Alert) error {
	q := fmt.Sprintf("INSERT INTO %s (alert_id, member_id, transaction_id, alert_type, confidence_score, description, price_movement_days, price_change_percent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q, alertArgs(a)...)
	return err
}

func (s *ClickHouseAlertStore) StoreBatch(ctx context.Context, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 1000
	for start := 0; start < len(alerts); start += chunkSize {
		end := start + chunkSize
		if end > len(alerts) {
			end = len(alerts)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, a := range alerts[start:end] {
			if a == nil || a.AlertID == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, alertArgs(a)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (alert_id, member_id, transaction_id, alert_type, confidence_score, description, price_movement_days, price_change_percent, created_at) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func alertArgs(a *models.Alert) []interface{} {
	var pct interface{}
	if a.PriceChangePercent != nil {
		pct = *a.PriceChangePercent
	}
	return []interface{}{
		a.AlertID,
		a.MemberID,
		a.TransactionID,
		a.AlertType,
		a.ConfidenceScore,
		a.Description,
		int32(a.PriceMovementDays),
		pct,
		a.CreatedAt,
	}
}

func (s *ClickHouseAlertStore) Query(ctx context.Context, q repository.AlertQuery) ([]*models.Alert, error) {
	var (
		conds []string
		args  []interface{}
	)
	if q.MemberID != "" {
		conds = append(conds, "member_id = ?")
		args = append(args, q.MemberID)
	}
	if q.MinConfidence > 0 {
		conds = append(conds, "confidence_score >= ?")
		args = append(args, q.MinConfidence)
	}
	if !q.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, q.Since)
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, q.Offset)

	sel := fmt.Sprintf(`SELECT alert_id, member_id, transaction_id, alert_type, confidence_score, description, price_movement_days, price_change_percent, created_at
        FROM %s %s
        ORDER BY confidence_score DESC, created_at DESC
        LIMIT ? OFFSET ?`, s.table, where)
	rows, err := s.db.QueryContext(ctx, sel, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []*models.Alert
	for rows.Next() {
		var (
			a    models.Alert
			days int32
			pct  sql.NullFloat64
		)
		if err := rows.Scan(&a.AlertID, &a.MemberID, &a.TransactionID, &a.AlertType, &a.ConfidenceScore, &a.Description, &days, &pct, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.PriceMovementDays = int(days)
		if pct.Valid {
			v := pct.Float64
			a.PriceChangePercent = &v
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *ClickHouseAlertStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseAlertStore) Close() error {
	return nil // Managed by pkg
}

// KafkaAlertPublisher implements AlertPublisher for Kafka. Messages are
// keyed by member so one member's alerts land on one partition in order.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAlertPublisher creates Kafka alert publisher.
func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) repository.AlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) Publish(ctx context.Context, a *models.Alert) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.MemberID), alertPayload(a))
}

func (p *KafkaAlertPublisher) PublishBatch(ctx context.Context, alerts []*models.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(alerts))
	for i, a := range alerts {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(a.MemberID),
			Value: alertPayload(a),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func alertPayload(a *models.Alert) map[string]interface{} {
	m := map[string]interface{}{
		"alert_id":            a.AlertID,
		"member_id":           a.MemberID,
		"transaction_id":      a.TransactionID,
		"alert_type":          a.AlertType,
		"confidence_score":    a.ConfidenceScore,
		"description":         a.Description,
		"price_movement_days": a.PriceMovementDays,
		"created_at":          a.CreatedAt.UTC(),
	}
	if a.PriceChangePercent != nil {
		m["price_change_percent"] = *a.PriceChangePercent
	}
	return m
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
