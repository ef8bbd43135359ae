package repository

import (
	"context"
	"time"

	"SenateInsight/internal/domain/models"
)

// PriceStore provides read/write access to daily price bars. Reads return
// bars in no guaranteed order; consumers dedupe by calendar day.
type PriceStore interface {
	GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error)
	StoreBars(ctx context.Context, bars []models.PriceBar) error
}
