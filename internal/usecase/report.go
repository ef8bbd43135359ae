package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"SenateInsight/internal/domain/models"
	drepo "SenateInsight/internal/domain/repository"
)

const (
	highConfidence   = 0.7
	mediumConfidence = 0.5
)

// Report summarizes stored alerts by confidence band.
type Report struct {
	GeneratedAt      time.Time     `json:"generated_at"`
	Since            time.Time     `json:"since"`
	TotalAlerts      int           `json:"total_alerts"`
	HighConfidence   int           `json:"high_confidence"`
	MediumConfidence int           `json:"medium_confidence"`
	LowConfidence    int           `json:"low_confidence"`
	TopMembers       []MemberCount `json:"top_members"`
	TopAlerts        []AlertLine   `json:"top_alerts"`
}

type MemberCount struct {
	MemberID string `json:"member_id"`
	Alerts   int    `json:"alerts"`
}

type AlertLine struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Reporter builds summary reports from the alert store.
type Reporter struct {
	store drepo.AlertStore
}

func NewReporter(store drepo.AlertStore) *Reporter {
	return &Reporter{store: store}
}

func (r *Reporter) Generate(ctx context.Context, since time.Time, limit int) (*Report, error) {
	if limit <= 0 {
		limit = 1000
	}
	alerts, err := r.store.Query(ctx, drepo.AlertQuery{Since: since, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	rep := BuildReport(alerts)
	rep.Since = since
	return rep, nil
}

// BuildReport aggregates a batch of alerts into a Report.
func BuildReport(alerts []*models.Alert) *Report {
	rep := &Report{
		GeneratedAt: time.Now().UTC(),
		TotalAlerts: len(alerts),
	}

	byMember := map[string]int{}
	for _, a := range alerts {
		switch {
		case a.ConfidenceScore >= highConfidence:
			rep.HighConfidence++
		case a.ConfidenceScore >= mediumConfidence:
			rep.MediumConfidence++
		default:
			rep.LowConfidence++
		}
		byMember[a.MemberID]++
	}

	for id, n := range byMember {
		rep.TopMembers = append(rep.TopMembers, MemberCount{MemberID: id, Alerts: n})
	}
	sort.Slice(rep.TopMembers, func(i, j int) bool {
		if rep.TopMembers[i].Alerts != rep.TopMembers[j].Alerts {
			return rep.TopMembers[i].Alerts > rep.TopMembers[j].Alerts
		}
		return rep.TopMembers[i].MemberID < rep.TopMembers[j].MemberID
	})
	if len(rep.TopMembers) > 10 {
		rep.TopMembers = rep.TopMembers[:10]
	}

	high := make([]*models.Alert, 0, rep.HighConfidence)
	for _, a := range alerts {
		if a.ConfidenceScore >= highConfidence {
			high = append(high, a)
		}
	}
	sort.Slice(high, func(i, j int) bool { return high[i].ConfidenceScore > high[j].ConfidenceScore })
	for i, a := range high {
		if i == 10 {
			break
		}
		rep.TopAlerts = append(rep.TopAlerts, AlertLine{Description: a.Description, Confidence: a.ConfidenceScore})
	}
	return rep
}

// Render writes the report as plain text.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trading Analysis Report (%s)\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Alerts: %d total (%d high, %d medium, %d low confidence)\n",
		r.TotalAlerts, r.HighConfidence, r.MediumConfidence, r.LowConfidence)
	if len(r.TopMembers) > 0 {
		b.WriteString("\nMost flagged members:\n")
		for _, m := range r.TopMembers {
			fmt.Fprintf(&b, "  %-12s %d alerts\n", m.MemberID, m.Alerts)
		}
	}
	if len(r.TopAlerts) > 0 {
		b.WriteString("\nHigh confidence alerts:\n")
		for _, a := range r.TopAlerts {
			fmt.Fprintf(&b, "  [%.2f] %s\n", a.Confidence, a.Description)
		}
	}
	return b.String()
}
