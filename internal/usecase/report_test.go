package usecase

import (
	"strings"
	"testing"

	"SenateInsight/internal/domain/models"
)

func alert(member string, score float64, desc string) *models.Alert {
	return &models.Alert{
		AlertID:         "alert_" + member + "_" + desc,
		MemberID:        member,
		AlertType:       models.AlertTypeTiming,
		ConfidenceScore: score,
		Description:     desc,
	}
}

func TestBuildReportConfidenceBands(t *testing.T) {
	rep := BuildReport([]*models.Alert{
		alert("S001", 0.85, "a"),
		alert("S001", 0.70, "b"), // boundary counts as high
		alert("S002", 0.69, "c"),
		alert("S002", 0.50, "d"), // boundary counts as medium
		alert("S003", 0.49, "e"),
		alert("S003", 0.10, "f"),
	})

	if rep.TotalAlerts != 6 {
		t.Errorf("TotalAlerts = %d, want 6", rep.TotalAlerts)
	}
	if rep.HighConfidence != 2 {
		t.Errorf("HighConfidence = %d, want 2", rep.HighConfidence)
	}
	if rep.MediumConfidence != 2 {
		t.Errorf("MediumConfidence = %d, want 2", rep.MediumConfidence)
	}
	if rep.LowConfidence != 2 {
		t.Errorf("LowConfidence = %d, want 2", rep.LowConfidence)
	}
}

func TestBuildReportTopMembersOrdering(t *testing.T) {
	rep := BuildReport([]*models.Alert{
		alert("S002", 0.6, "a"),
		alert("S001", 0.6, "b"),
		alert("S001", 0.6, "c"),
		alert("S003", 0.6, "d"),
	})

	if len(rep.TopMembers) != 3 {
		t.Fatalf("TopMembers = %d entries, want 3", len(rep.TopMembers))
	}
	if rep.TopMembers[0].MemberID != "S001" || rep.TopMembers[0].Alerts != 2 {
		t.Errorf("TopMembers[0] = %+v, want S001 with 2 alerts", rep.TopMembers[0])
	}
	// equal counts break ties by member id for stable output
	if rep.TopMembers[1].MemberID != "S002" || rep.TopMembers[2].MemberID != "S003" {
		t.Errorf("tie ordering = %s, %s, want S002, S003",
			rep.TopMembers[1].MemberID, rep.TopMembers[2].MemberID)
	}
}

func TestBuildReportTopAlertsOnlyHighConfidence(t *testing.T) {
	rep := BuildReport([]*models.Alert{
		alert("S001", 0.95, "very suspicious"),
		alert("S001", 0.75, "suspicious"),
		alert("S002", 0.65, "not listed"),
	})

	if len(rep.TopAlerts) != 2 {
		t.Fatalf("TopAlerts = %d entries, want 2", len(rep.TopAlerts))
	}
	if rep.TopAlerts[0].Description != "very suspicious" {
		t.Errorf("TopAlerts[0] = %q, want the highest score first", rep.TopAlerts[0].Description)
	}
}

func TestReportRender(t *testing.T) {
	rep := BuildReport([]*models.Alert{
		alert("S001", 0.9, "bought before vote"),
	})
	out := rep.Render()

	for _, want := range []string{"1 total", "1 high", "S001", "bought before vote", "[0.90]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rep := BuildReport(nil)
	if rep.TotalAlerts != 0 || len(rep.TopMembers) != 0 || len(rep.TopAlerts) != 0 {
		t.Errorf("empty report not empty: %+v", rep)
	}
}
