package detector

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SenateInsight/internal/domain/models"
)

// Price movement thresholds as exact decimals so a 20.00% move is never
// lost to float rounding.
var (
	moveLarge  = decimal.NewFromFloat(0.20)
	moveMedium = decimal.NewFromFloat(0.10)
	moveSmall  = decimal.NewFromFloat(0.05)
)

// priceMovementScore rewards transactions immediately followed by price
// action favorable to the position taken: the best close in the 30 days
// after a buy, the worst close after a sell. Requires a bar on the exact
// transaction date; no interpolation.
func (d *Detector) priceMovementScore(txn models.Transaction, bars []models.PriceBar) float64 {
	txnBar, ok := priceOnDate(bars, txn.TransactionDate)
	if !ok {
		return 0.0
	}
	if txnBar.Close.IsZero() {
		// Malformed bar; treat as missing rather than divide.
		return 0.0
	}

	var window []models.PriceBar
	for _, bar := range bars {
		diff := dayDiff(txn.TransactionDate, bar.Date)
		if diff > 0 && diff <= priceWindowDays {
			window = append(window, bar)
		}
	}
	if len(window) == 0 {
		return 0.0
	}

	var change decimal.Decimal
	if isBuy(txn.TransactionType) {
		maxClose := window[0].Close
		for _, bar := range window[1:] {
			if bar.Close.GreaterThan(maxClose) {
				maxClose = bar.Close
			}
		}
		change = maxClose.Sub(txnBar.Close).Div(txnBar.Close)
	} else {
		minClose := window[0].Close
		for _, bar := range window[1:] {
			if bar.Close.LessThan(minClose) {
				minClose = bar.Close
			}
		}
		change = txnBar.Close.Sub(minClose).Div(txnBar.Close)
	}

	switch {
	case change.GreaterThanOrEqual(moveLarge):
		return 1.0
	case change.GreaterThanOrEqual(moveMedium):
		return 0.7
	case change.GreaterThanOrEqual(moveSmall):
		return 0.4
	default:
		return 0.0
	}
}

// Anything that is not a buy is scored as a sell.
func isBuy(txnType string) bool {
	switch strings.ToLower(txnType) {
	case "buy", "purchase":
		return true
	}
	return false
}

// priceOnDate finds the bar for the given calendar day. Series arrive in any
// order and may carry duplicate days; the first match wins.
func priceOnDate(bars []models.PriceBar, day time.Time) (models.PriceBar, bool) {
	for _, bar := range bars {
		if bar.SameDay(day) {
			return bar, true
		}
	}
	return models.PriceBar{}, false
}
