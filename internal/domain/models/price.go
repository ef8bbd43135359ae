package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents one daily OHLCV record for a ticker. Prices are exact
// decimals; percentage comparisons in the detector must not drift through
// float rounding. One bar per ticker per trading day.
type PriceBar struct {
	Ticker string          `json:"ticker"`
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// SameDay reports whether the bar is dated on the given calendar day (UTC).
func (p PriceBar) SameDay(d time.Time) bool {
	py, pm, pd := p.Date.UTC().Date()
	y, m, dd := d.UTC().Date()
	return py == y && pm == m && pd == dd
}
