package detector

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"SenateInsight/internal/domain/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testMember() models.Member {
	return models.Member{
		MemberID: "S001",
		Name:     "Test Member",
		Chamber:  "Senate",
		State:    "CA",
		Party:    "Democratic",
	}
}

func testTxn(id, ticker, company, txnType string, date time.Time) models.Transaction {
	return models.Transaction{
		TransactionID:   id,
		MemberID:        "S001",
		Ticker:          ticker,
		CompanyName:     company,
		TransactionType: txnType,
		TransactionDate: date,
		DisclosureDate:  date.AddDate(0, 0, 14),
		AmountRange:     "$1,001-$15,000",
		Owner:           "Self",
	}
}

func flatBars(ticker string, from time.Time, days int, close float64, volume int64) []models.PriceBar {
	bars := make([]models.PriceBar, 0, days)
	c := decimal.NewFromFloat(close)
	for i := 0; i < days; i++ {
		bars = append(bars, models.PriceBar{
			Ticker: ticker,
			Date:   from.AddDate(0, 0, i),
			Open:   c,
			High:   c.Add(decimal.NewFromInt(2)),
			Low:    c.Sub(decimal.NewFromInt(2)),
			Close:  c,
			Volume: volume,
		})
	}
	return bars
}

func TestTimingScoreTransactionBeforeAction(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_001", "AAPL", "Apple Inc.", "Buy", day(2023, 10, 1))
	action := models.LegislativeAction{
		ActionID:   "vote_001",
		MemberID:   "S001",
		ActionType: "vote",
		BillID:     "S.123",
		BillTitle:  "Technology Innovation Act affecting Apple Inc.",
		ActionDate: day(2023, 10, 10), // 9 days after the transaction
		Position:   "Yes",
	}

	score := d.timingScore(txn, []models.LegislativeAction{action})
	if score <= 0.5 {
		t.Fatalf("expected timing score > 0.5, got %v", score)
	}
}

func TestTimingScoreStacksAndClamps(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_001", "AAPL", "Apple Inc.", "Buy", day(2023, 10, 1))

	actions := []models.LegislativeAction{
		{ActionID: "a1", BillTitle: "Apple antitrust hearing", ActionDate: day(2023, 10, 5)},
		{ActionID: "a2", BillTitle: "Apple supply chain vote", ActionDate: day(2023, 10, 12)},
	}
	// Two 0.8 contributions sum past the cap; the total must clamp at 1.0.
	if got := d.timingScore(txn, actions); got != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", got)
	}
}

func TestTimingScoreOutsideWindow(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_001", "AAPL", "Apple Inc.", "Buy", day(2023, 10, 1))

	action := models.LegislativeAction{
		ActionID:   "a1",
		BillTitle:  "Apple oversight act",
		ActionDate: day(2023, 12, 15), // far outside the 30-day window
	}
	if got := d.timingScore(txn, []models.LegislativeAction{action}); got != 0 {
		t.Fatalf("expected 0 outside window, got %v", got)
	}
}

func TestTimingScoreIndustryTagMatch(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_001", "XOM", "Exxon Mobil Corporation", "Sell", day(2023, 10, 1))

	// Relevance via the affected-industry tags, not the bill title.
	action := models.LegislativeAction{
		ActionID:           "a1",
		BillTitle:          "Clean Air Amendments",
		IndustriesAffected: []string{"oil", "exxon"},
		ActionDate:         day(2023, 10, 3),
	}
	if got := d.timingScore(txn, []models.LegislativeAction{action}); got != 0.8 {
		t.Fatalf("expected 0.8, got %v", got)
	}
}

func TestTimingScoreAfterAction(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_001", "AAPL", "Apple Inc.", "Buy", day(2023, 10, 10))

	// Transaction 5 days after the action scores the weaker 0.4 band.
	action := models.LegislativeAction{
		ActionID:   "a1",
		BillTitle:  "Apple privacy vote",
		ActionDate: day(2023, 10, 5),
	}
	if got := d.timingScore(txn, []models.LegislativeAction{action}); got != 0.4 {
		t.Fatalf("expected 0.4, got %v", got)
	}
}

func TestCommitteeCorrelationScore(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_002", "GOOGL", "Alphabet Inc Technology", "Buy", day(2023, 10, 1))
	committee := models.CommitteeAssignment{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
		CommitteeCode: "COMM",
		StartDate:     day(2021, 1, 3),
	}

	score := d.committeeCorrelationScore(txn, []models.CommitteeAssignment{committee})
	if score != 0.7 {
		t.Fatalf("expected fixed 0.7 correlation, got %v", score)
	}
}

func TestCommitteeCorrelationNoIndustryMatch(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_002", "XYZ", "Random Holdings", "Buy", day(2023, 10, 1))
	committee := models.CommitteeAssignment{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
	}

	if got := d.committeeCorrelationScore(txn, []models.CommitteeAssignment{committee}); got != 0 {
		t.Fatalf("expected 0 for unmatched company, got %v", got)
	}
}

func TestCommitteeCorrelationUnrelatedCommittee(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_002", "PFE", "Pfizer Pharma", "Buy", day(2023, 10, 1))
	committee := models.CommitteeAssignment{
		MemberID:      "S001",
		CommitteeName: "Agriculture, Nutrition, and Forestry",
	}

	if got := d.committeeCorrelationScore(txn, []models.CommitteeAssignment{committee}); got != 0 {
		t.Fatalf("expected 0 for unrelated committee, got %v", got)
	}
}

func TestPriceMovementScoreBuy(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_003", "AAPL", "Apple Inc.", "Buy", txnDate)

	bars := flatBars("AAPL", txnDate.AddDate(0, 0, -10), 11, 150, 1_000_000)
	// 20% gain over the 30 days after the transaction.
	bars = append(bars, flatBars("AAPL", txnDate.AddDate(0, 0, 1), 30, 180, 1_000_000)...)

	score := d.priceMovementScore(txn, bars)
	if score < 0.7 {
		t.Fatalf("expected score >= 0.7 for 20%% gain, got %v", score)
	}
}

func TestPriceMovementScoreSell(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_003", "AAPL", "Apple Inc.", "Sell", txnDate)

	bars := flatBars("AAPL", txnDate, 1, 100, 1_000_000)
	// 12% drop after the sale lands in the 0.7 band.
	bars = append(bars, flatBars("AAPL", txnDate.AddDate(0, 0, 1), 20, 88, 1_000_000)...)

	if got := d.priceMovementScore(txn, bars); got != 0.7 {
		t.Fatalf("expected 0.7 for 12%% favorable drop, got %v", got)
	}
}

func TestPriceMovementScoreMissingTransactionBar(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_003", "AAPL", "Apple Inc.", "Buy", txnDate)

	// Bars exist only after the transaction date; no interpolation.
	bars := flatBars("AAPL", txnDate.AddDate(0, 0, 1), 10, 180, 1_000_000)
	if got := d.priceMovementScore(txn, bars); got != 0 {
		t.Fatalf("expected 0 without a transaction-day bar, got %v", got)
	}
}

func TestPriceMovementScoreZeroClose(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_003", "AAPL", "Apple Inc.", "Buy", txnDate)

	bars := []models.PriceBar{{Ticker: "AAPL", Date: txnDate, Volume: 100}}
	bars = append(bars, flatBars("AAPL", txnDate.AddDate(0, 0, 1), 5, 10, 100)...)

	if got := d.priceMovementScore(txn, bars); got != 0 {
		t.Fatalf("expected 0 for zero closing price, got %v", got)
	}
}

func TestPriceMovementScoreUnorderedDuplicateBars(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_003", "AAPL", "Apple Inc.", "Buy", txnDate)

	// Shuffled order plus a duplicate transaction-day bar; first match wins.
	bars := []models.PriceBar{
		flatBars("AAPL", txnDate.AddDate(0, 0, 5), 1, 180, 100)[0],
		flatBars("AAPL", txnDate, 1, 150, 100)[0],
		flatBars("AAPL", txnDate, 1, 150, 100)[0],
		flatBars("AAPL", txnDate.AddDate(0, 0, 2), 1, 165, 100)[0],
	}
	if got := d.priceMovementScore(txn, bars); got != 1.0 {
		t.Fatalf("expected 1.0 for 20%% max gain, got %v", got)
	}
}

func TestVolumeAnomalyScoreSpike(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 15)
	txn := testTxn("txn_004", "AAPL", "Apple Inc.", "Buy", txnDate)

	// Stable baseline well before the transaction, then a 10x spike on the
	// transaction day. Flat baseline means std ~0, so the z-score runs
	// through the denominator floor of 1.
	bars := flatBars("AAPL", txnDate.AddDate(0, 0, -37), 30, 100, 1_000_000)
	bars = append(bars, models.PriceBar{
		Ticker: "AAPL",
		Date:   txnDate,
		Close:  decimal.NewFromInt(100),
		Volume: 10_000_000,
	})

	if got := d.volumeAnomalyScore(txn, bars); got != 0.8 {
		t.Fatalf("expected 0.8 for extreme volume spike, got %v", got)
	}
}

func TestVolumeAnomalyScoreExcludesRunUpWeek(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 15)
	txn := testTxn("txn_004", "AAPL", "Apple Inc.", "Buy", txnDate)

	// Only bars in the week before the transaction: the baseline is empty.
	bars := flatBars("AAPL", txnDate.AddDate(0, 0, -6), 6, 100, 1_000_000)
	bars = append(bars, flatBars("AAPL", txnDate, 1, 100, 9_000_000)...)

	if got := d.volumeAnomalyScore(txn, bars); got != 0 {
		t.Fatalf("expected 0 with empty baseline, got %v", got)
	}
}

func TestVolumeAnomalyScoreSingleBaselinePoint(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 15)
	txn := testTxn("txn_004", "AAPL", "Apple Inc.", "Buy", txnDate)

	// One baseline bar: std falls back to 20% of the mean.
	// z = (1_500_000 - 1_000_000) / 200_000 = 2.5 -> 0.5 band.
	bars := flatBars("AAPL", txnDate.AddDate(0, 0, -20), 1, 100, 1_000_000)
	bars = append(bars, flatBars("AAPL", txnDate, 1, 100, 1_500_000)...)

	if got := d.volumeAnomalyScore(txn, bars); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestVolumeAnomalyScoreNormalVolume(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 15)
	txn := testTxn("txn_004", "AAPL", "Apple Inc.", "Buy", txnDate)

	bars := flatBars("AAPL", txnDate.AddDate(0, 0, -37), 30, 100, 1_000_000)
	bars = append(bars, flatBars("AAPL", txnDate, 1, 100, 1_000_000)...)

	if got := d.volumeAnomalyScore(txn, bars); got != 0 {
		t.Fatalf("expected 0 for ordinary volume, got %v", got)
	}
}

func TestOverallScoreIsWeightedSum(t *testing.T) {
	d := New(DefaultConfig())
	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_005", "GOOGL", "Alphabet Inc Technology", "Buy", txnDate)

	actions := []models.LegislativeAction{{
		ActionID:   "a1",
		BillTitle:  "Alphabet data privacy act",
		ActionDate: day(2023, 10, 9),
	}}
	assignments := []models.CommitteeAssignment{{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
	}}
	bars := flatBars("GOOGL", txnDate.AddDate(0, 0, -40), 41, 150, 1_000_000)
	bars = append(bars, flatBars("GOOGL", txnDate.AddDate(0, 0, 1), 30, 180, 1_000_000)...)

	b := d.ScoreTransaction(txn, actions, assignments, bars)

	// Hand-computed: timing 0.8, committee 0.7, price 1.0, volume 0.
	want := 0.8*0.30 + 0.7*0.25 + 1.0*0.35 + 0.0*0.10
	if math.Abs(b.Overall-want) > 1e-9 {
		t.Fatalf("overall %v, want weighted sum %v", b.Overall, want)
	}
	if b.Timing != 0.8 || b.CommitteeCorrelation != 0.7 || b.PriceMovement != 1.0 || b.VolumeAnomaly != 0 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestAnalyzeMemberActivityEmitsAlert(t *testing.T) {
	clock := func() time.Time { return day(2023, 11, 1) }
	d := New(DefaultConfig(), WithClock(clock))

	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_006", "GOOGL", "Alphabet Inc Technology", "Buy", txnDate)
	actions := []models.LegislativeAction{{
		ActionID:   "a1",
		BillTitle:  "Alphabet data privacy act",
		ActionDate: day(2023, 10, 9),
	}}
	assignments := []models.CommitteeAssignment{{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
	}}
	bars := flatBars("GOOGL", txnDate.AddDate(0, 0, -40), 41, 150, 1_000_000)
	bars = append(bars, flatBars("GOOGL", txnDate.AddDate(0, 0, 1), 30, 180, 1_000_000)...)

	alerts := d.AnalyzeMemberActivity(testMember(), []models.Transaction{txn},
		actions, assignments, map[string][]models.PriceBar{"GOOGL": bars})

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.AlertType != models.AlertTypeCommittee {
		t.Errorf("alert type %q, want %q (committee sub-score > 0.5)", a.AlertType, models.AlertTypeCommittee)
	}
	if a.ConfidenceScore < 0 || a.ConfidenceScore > 1 {
		t.Errorf("confidence %v outside [0,1]", a.ConfidenceScore)
	}
	if a.MemberID != "S001" || a.TransactionID != "txn_006" {
		t.Errorf("unexpected alert identity %+v", a)
	}
	if a.PriceMovementDays != 30 {
		t.Errorf("price movement days %d, want 30", a.PriceMovementDays)
	}
	if a.PriceChangePercent != nil {
		t.Errorf("price change percent must be unset by the core, got %v", *a.PriceChangePercent)
	}
	wantDesc := fmt.Sprintf("Potential insider trading detected: Test Member bought GOOGL on 2023-10-01 with suspicion score %.2f", a.ConfidenceScore)
	if a.Description != wantDesc {
		t.Errorf("description %q, want %q", a.Description, wantDesc)
	}
}

func TestNoAlertsForLowConfidence(t *testing.T) {
	d := New(DefaultConfig())
	txn := testTxn("txn_007", "XYZ", "Random Corp", "Buy", day(2023, 10, 1))

	// No legislative actions, no committees, no price data at all.
	alerts := d.AnalyzeMemberActivity(testMember(), []models.Transaction{txn},
		nil, nil, map[string][]models.PriceBar{})
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}

	// Price series present but nothing suspicious and no transaction-day bar.
	bars := flatBars("XYZ", day(2023, 11, 10), 10, 50, 1_000)
	alerts = d.AnalyzeMemberActivity(testMember(), []models.Transaction{txn},
		nil, nil, map[string][]models.PriceBar{"XYZ": bars})
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts with neutral prices, got %d", len(alerts))
	}
}

func TestAnalyzeMemberActivityIdempotent(t *testing.T) {
	clock := func() time.Time { return day(2023, 11, 1) }
	d := New(DefaultConfig(), WithClock(clock))

	txnDate := day(2023, 10, 1)
	txn := testTxn("txn_008", "GOOGL", "Alphabet Inc Technology", "Buy", txnDate)
	assignments := []models.CommitteeAssignment{{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
	}}
	bars := flatBars("GOOGL", txnDate.AddDate(0, 0, -40), 41, 150, 1_000_000)
	bars = append(bars, flatBars("GOOGL", txnDate.AddDate(0, 0, 1), 30, 180, 1_000_000)...)
	prices := map[string][]models.PriceBar{"GOOGL": bars}

	first := d.AnalyzeMemberActivity(testMember(), []models.Transaction{txn}, nil, assignments, prices)
	second := d.AnalyzeMemberActivity(testMember(), []models.Transaction{txn}, nil, assignments, prices)

	// With a pinned clock the runs are byte-identical, ids included.
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestNewFillsDefaults(t *testing.T) {
	d := New(Config{})
	want := DefaultConfig()
	if diff := cmp.Diff(want, d.Config()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}
