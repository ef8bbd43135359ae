package detector

import (
	"strings"

	"SenateInsight/internal/domain/models"
)

// timingScore measures temporal proximity between a transaction and the
// member's relevant legislative actions. Contributions from every relevant
// action inside the window are summed and the total clamped at 1.0, so
// repeated correlated activity never scores below a single occurrence.
func (d *Detector) timingScore(txn models.Transaction, actions []models.LegislativeAction) float64 {
	score := 0.0

	for _, action := range actions {
		diff := dayDiff(txn.TransactionDate, action.ActionDate)
		if diff < -d.cfg.TimingWindowDays || diff > d.cfg.TimingWindowDays {
			continue
		}
		if !actionRelevantToStock(action, txn.Ticker, txn.CompanyName) {
			continue
		}

		switch {
		case diff >= 0 && diff <= 14:
			// Transaction shortly before the action: the classic
			// front-running shape.
			score += 0.8
		case diff >= -7 && diff < 0:
			score += 0.4
		case diff >= 15 && diff <= 30:
			score += 0.5
		}
	}

	if score > 1.0 {
		return 1.0
	}
	return score
}

// actionRelevantToStock does a coarse lexical match between a legislative
// action and a stock: the ticker appears in the bill title or industry tags,
// or any company-name word longer than 3 characters does. False positives
// and negatives are expected and acceptable.
func actionRelevantToStock(action models.LegislativeAction, ticker, companyName string) bool {
	actionText := strings.ToLower(action.BillTitle + " " + strings.Join(action.IndustriesAffected, " "))

	if strings.Contains(actionText, strings.ToLower(ticker)) {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(companyName)) {
		if len(word) > 3 && strings.Contains(actionText, word) {
			return true
		}
	}
	return false
}
