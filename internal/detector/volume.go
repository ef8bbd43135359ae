package detector

import (
	"math"

	"SenateInsight/internal/domain/models"
)

// volumeAnomalyScore flags unusually heavy volume on the transaction day
// against a 30-day baseline that ends a week earlier. The run-up week
// immediately before the transaction is excluded so the transaction's own
// activity cannot contaminate the baseline.
func (d *Detector) volumeAnomalyScore(txn models.Transaction, bars []models.PriceBar) float64 {
	var baseline []float64
	for _, bar := range bars {
		// Strictly more than 7 and at most 37 days before the transaction.
		back := dayDiff(bar.Date, txn.TransactionDate)
		if back > 7 && back <= 37 {
			baseline = append(baseline, float64(bar.Volume))
		}
	}

	txnBar, ok := priceOnDate(bars, txn.TransactionDate)
	if len(baseline) == 0 || !ok {
		return 0.0
	}

	avg := mean(baseline)
	var std float64
	if len(baseline) > 1 {
		std = sampleStdDev(baseline, avg)
	} else {
		// Single baseline point: assume 20% of the mean.
		std = avg * 0.2
	}

	// Floor the denominator at 1 to avoid dividing by a flat baseline.
	z := (float64(txnBar.Volume) - avg) / math.Max(std, 1)

	switch {
	case z >= 3:
		return 0.8
	case z >= 2:
		return 0.5
	case z >= 1:
		return 0.2
	default:
		return 0.0
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs []float64, avg float64) float64 {
	sum := 0.0
	for _, x := range xs {
		d := x - avg
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
