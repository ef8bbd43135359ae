package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SenateInsight/internal/detector"
	"SenateInsight/internal/domain/models"
	drepo "SenateInsight/internal/domain/repository"
	mid "SenateInsight/internal/middleware"
	applogger "SenateInsight/pkg/logger"
)

type fakeMemberSource struct {
	members    []models.Member
	actions    []models.LegislativeAction
	committees []models.CommitteeAssignment
}

func (f *fakeMemberSource) CurrentMembers(ctx context.Context, chamber string) ([]models.Member, error) {
	return f.members, nil
}

func (f *fakeMemberSource) MemberVotes(ctx context.Context, memberID string, from, to time.Time) ([]models.LegislativeAction, error) {
	return f.actions, nil
}

func (f *fakeMemberSource) MemberCommittees(ctx context.Context, memberID string) ([]models.CommitteeAssignment, error) {
	return f.committees, nil
}

type fakeDisclosureSource struct {
	filings map[string][]models.Disclosure // member name -> filings
	err     map[string]error
}

func (f *fakeDisclosureSource) MemberDisclosures(ctx context.Context, memberName string, year int) ([]models.Disclosure, error) {
	if err := f.err[memberName]; err != nil {
		return nil, err
	}
	var out []models.Disclosure
	for _, d := range f.filings[memberName] {
		if d.FilingDate.Year() == year {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakePriceSource struct {
	mu    sync.Mutex
	calls int
	bars  map[string][]models.PriceBar
}

func (f *fakePriceSource) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	bars, ok := f.bars[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return bars, nil
}

func (f *fakePriceSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePriceStore struct {
	mu     sync.Mutex
	bars   map[string][]models.PriceBar
	stored int
}

func (f *fakePriceStore) GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]models.PriceBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bars[ticker], nil
}

func (f *fakePriceStore) StoreBars(ctx context.Context, bars []models.PriceBar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored += len(bars)
	return nil
}

func (f *fakePriceStore) storedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored
}

type recordingProc struct {
	mu     sync.Mutex
	alerts []*models.Alert
}

func (r *recordingProc) Process(ctx context.Context, a *models.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *recordingProc) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

type noopMetrics struct{}

func (noopMetrics) RecordAlert(backend, alertType string) {}
func (noopMetrics) RecordMemberProcessed(chamber string)  {}
func (noopMetrics) RecordError(kind string)               {}
func (noopMetrics) RecordLatency(op string, sec float64)  {}

type fakeTxnStore struct {
	mu    sync.Mutex
	count int
}

func (f *fakeTxnStore) StoreBatch(ctx context.Context, txns []*models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count += len(txns)
	return nil
}

func (f *fakeTxnStore) Close() error { return nil }

func suspiciousFixture(now time.Time) (models.Member, models.Disclosure, []models.LegislativeAction, []models.CommitteeAssignment, []models.PriceBar) {
	txnDate := now.AddDate(0, 0, -60)

	member := models.Member{
		MemberID: "S001",
		Name:     "Jane Doe",
		Chamber:  "Senate",
		State:    "CA",
	}

	filing := models.Disclosure{
		FilingID:   "f1",
		MemberID:   "S001",
		FilingType: "Periodic Transaction Report",
		FilingDate: txnDate.AddDate(0, 0, 14),
		Transactions: []models.Transaction{{
			TransactionID:   "t1",
			MemberID:        "S001",
			Ticker:          "MTEC",
			CompanyName:     "MegaTech Software Inc",
			TransactionType: "Buy",
			TransactionDate: txnDate,
			AmountRange:     "$15,001-$50,000",
			AssetType:       "Stock",
			Owner:           "Self",
		}},
	}

	actions := []models.LegislativeAction{{
		ActionID:           "a1",
		MemberID:           "S001",
		ActionType:         "vote",
		BillID:             "S100",
		BillTitle:          "MegaTech Software Oversight Act",
		ActionDate:         txnDate.AddDate(0, 0, 9),
		Position:           "Yes",
		IndustriesAffected: []string{"technology"},
	}}

	committees := []models.CommitteeAssignment{{
		MemberID:      "S001",
		CommitteeName: "Commerce, Science, and Transportation",
		Role:          "Member",
	}}

	base := decimal.NewFromInt(100)
	spike := txnDate
	var bars []models.PriceBar
	for i := -45; i <= 35; i++ {
		d := txnDate.AddDate(0, 0, i)
		c := base
		if i > 5 {
			c = decimal.NewFromInt(125) // +25% after the transaction
		}
		vol := int64(1_000_000)
		if d.Equal(spike) {
			vol = 5_000_000
		}
		bars = append(bars, models.PriceBar{
			Ticker: "MTEC",
			Date:   d,
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: vol,
		})
	}
	return member, filing, actions, committees, bars
}

func testOrchestrator(t *testing.T, members *fakeMemberSource, filings *fakeDisclosureSource, prices *fakePriceSource, proc *recordingProc, txnStore *fakeTxnStore, priceStore *fakePriceStore) *Orchestrator {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	pipe := mid.NewAlertPipeline(proc, noopMetrics{})
	det := detector.New(detector.DefaultConfig())
	var ps drepo.PriceStore
	if priceStore != nil {
		ps = priceStore
	}
	return NewOrchestrator(members, filings, prices, det, pipe, txnStore, ps, noopMetrics{}, l, OrchestratorConfig{
		LookbackDays:  90,
		MaxConcurrent: 2,
		Chamber:       "senate",
	})
}

func TestRunGeneratesAlertForSuspiciousActivity(t *testing.T) {
	now := time.Now().UTC()
	member, filing, actions, committees, bars := suspiciousFixture(now)

	proc := &recordingProc{}
	txnStore := &fakeTxnStore{}
	orch := testOrchestrator(t,
		&fakeMemberSource{members: []models.Member{member}, actions: actions, committees: committees},
		&fakeDisclosureSource{filings: map[string][]models.Disclosure{"Jane Doe": {filing}}},
		&fakePriceSource{bars: map[string][]models.PriceBar{"MTEC": bars}},
		proc, txnStore, nil,
	)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.MembersProcessed != 1 {
		t.Errorf("MembersProcessed = %d, want 1", summary.MembersProcessed)
	}
	if summary.AlertsGenerated != 1 {
		t.Fatalf("AlertsGenerated = %d, want 1", summary.AlertsGenerated)
	}
	if got := proc.count(); got != 1 {
		t.Fatalf("dispatched alerts = %d, want 1", got)
	}
	a := proc.alerts[0]
	if a.AlertType != models.AlertTypeCommittee {
		t.Errorf("AlertType = %q, want %q", a.AlertType, models.AlertTypeCommittee)
	}
	if a.ConfidenceScore < 0.5 {
		t.Errorf("ConfidenceScore = %f, want >= 0.5", a.ConfidenceScore)
	}
	if txnStore.count != 1 {
		t.Errorf("persisted transactions = %d, want 1", txnStore.count)
	}
	if len(summary.MemberErrors) != 0 {
		t.Errorf("MemberErrors = %v, want none", summary.MemberErrors)
	}
}

func TestRunToleratesMemberFailures(t *testing.T) {
	now := time.Now().UTC()
	member, filing, actions, committees, bars := suspiciousFixture(now)
	broken := models.Member{MemberID: "S002", Name: "John Roe", Chamber: "Senate"}

	proc := &recordingProc{}
	orch := testOrchestrator(t,
		&fakeMemberSource{members: []models.Member{member, broken}, actions: actions, committees: committees},
		&fakeDisclosureSource{
			filings: map[string][]models.Disclosure{"Jane Doe": {filing}},
			err:     map[string]error{"John Roe": fmt.Errorf("upstream down")},
		},
		&fakePriceSource{bars: map[string][]models.PriceBar{"MTEC": bars}},
		proc, &fakeTxnStore{}, nil,
	)

	summary, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.MembersProcessed != 2 {
		t.Errorf("MembersProcessed = %d, want 2", summary.MembersProcessed)
	}
	if len(summary.MemberErrors) != 1 {
		t.Fatalf("MemberErrors = %v, want exactly one", summary.MemberErrors)
	}
	if summary.AlertsGenerated != 1 {
		t.Errorf("AlertsGenerated = %d, want 1", summary.AlertsGenerated)
	}
}

func TestAnalyzeMemberByIDUnknownMember(t *testing.T) {
	proc := &recordingProc{}
	orch := testOrchestrator(t,
		&fakeMemberSource{},
		&fakeDisclosureSource{},
		&fakePriceSource{},
		proc, &fakeTxnStore{}, nil,
	)

	if _, err := orch.AnalyzeMemberByID(context.Background(), "NOPE", 0); err == nil {
		t.Fatal("expected error for unknown member")
	}
}

func TestAnalyzeMemberSkipsTickerWithoutPrices(t *testing.T) {
	now := time.Now().UTC()
	member, filing, actions, committees, _ := suspiciousFixture(now)

	proc := &recordingProc{}
	orch := testOrchestrator(t,
		&fakeMemberSource{members: []models.Member{member}, actions: actions, committees: committees},
		&fakeDisclosureSource{filings: map[string][]models.Disclosure{"Jane Doe": {filing}}},
		&fakePriceSource{bars: map[string][]models.PriceBar{}}, // no series at all
		proc, &fakeTxnStore{}, nil,
	)

	alerts, seen, err := orch.AnalyzeMember(context.Background(), member)
	if err != nil {
		t.Fatalf("AnalyzeMember: %v", err)
	}
	if seen != 1 {
		t.Errorf("transactions seen = %d, want 1", seen)
	}
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, want 0 without price data", len(alerts))
	}
}

func TestAnalyzeMemberPrefersStoredBars(t *testing.T) {
	now := time.Now().UTC()
	member, filing, actions, committees, bars := suspiciousFixture(now)

	proc := &recordingProc{}
	src := &fakePriceSource{bars: map[string][]models.PriceBar{"MTEC": bars}}
	store := &fakePriceStore{bars: map[string][]models.PriceBar{"MTEC": bars}}
	orch := testOrchestrator(t,
		&fakeMemberSource{members: []models.Member{member}, actions: actions, committees: committees},
		&fakeDisclosureSource{filings: map[string][]models.Disclosure{"Jane Doe": {filing}}},
		src, proc, &fakeTxnStore{}, store,
	)

	alerts, _, err := orch.AnalyzeMember(context.Background(), member)
	if err != nil {
		t.Fatalf("AnalyzeMember: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1 from stored bars", len(alerts))
	}
	if got := src.callCount(); got != 0 {
		t.Errorf("price API calls = %d, want 0 when stored bars cover the window", got)
	}
	if got := store.storedCount(); got != 0 {
		t.Errorf("persisted bars = %d, want 0 when nothing was fetched", got)
	}
}

func TestAnalyzeMemberFetchesWhenStoredBarsPartial(t *testing.T) {
	now := time.Now().UTC()
	member, filing, actions, committees, bars := suspiciousFixture(now)

	proc := &recordingProc{}
	src := &fakePriceSource{bars: map[string][]models.PriceBar{"MTEC": bars}}
	// only the first days of the window are on record
	store := &fakePriceStore{bars: map[string][]models.PriceBar{"MTEC": bars[:10]}}
	orch := testOrchestrator(t,
		&fakeMemberSource{members: []models.Member{member}, actions: actions, committees: committees},
		&fakeDisclosureSource{filings: map[string][]models.Disclosure{"Jane Doe": {filing}}},
		src, proc, &fakeTxnStore{}, store,
	)

	alerts, _, err := orch.AnalyzeMember(context.Background(), member)
	if err != nil {
		t.Fatalf("AnalyzeMember: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	if got := src.callCount(); got != 1 {
		t.Errorf("price API calls = %d, want 1 for an incomplete record", got)
	}
	if got := store.storedCount(); got != len(bars) {
		t.Errorf("persisted bars = %d, want %d", got, len(bars))
	}
}

func TestBarsCoverClampsFutureWindow(t *testing.T) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -10)
	to := now.AddDate(0, 0, 20) // extends past today
	var bars []models.PriceBar
	for i := -10; i <= 0; i++ {
		bars = append(bars, models.PriceBar{Ticker: "MTEC", Date: now.AddDate(0, 0, i)})
	}
	if !barsCover(bars, from, to) {
		t.Error("bars reaching today should cover a window ending in the future")
	}
	if barsCover(nil, from, to) {
		t.Error("no bars cover no window")
	}
}
