package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"SenateInsight/internal/domain/models"
	applogger "SenateInsight/pkg/logger"
)

const dailyBarsDDL = `
CREATE TABLE IF NOT EXISTS %s (
    ticker LowCardinality(String),
    date   Date,
    open   Decimal64(4),
    high   Decimal64(4),
    low    Decimal64(4),
    close  Decimal64(4),
    volume Int64
) ENGINE = ReplacingMergeTree
ORDER BY (ticker, date)
`

// CHPriceStore implements PriceStore backed by ClickHouse.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(db *sql.DB, table string) *CHPriceStore {
	return &CHPriceStore{db: db, table: table}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

// Init creates the daily bars table if missing.
func (s *CHPriceStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(dailyBarsDDL, s.table))
	return err
}

func (s *CHPriceStore) GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT ticker, date, open, high, low, close, volume
        FROM %s
        WHERE ticker = ? AND date >= ? AND date <= ?
        ORDER BY date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_bars query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get daily bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.PriceBar, 0, 64)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse daily_bars scan error",
					applogger.String("ticker", ticker),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse daily_bars ok",
			applogger.String("ticker", ticker),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

func (s *CHPriceStore) StoreBars(ctx context.Context, bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			if b.Ticker == "" || b.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ticker, date, open, high, low, close, volume) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}
