package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"SenateInsight/internal/detector"
	"SenateInsight/internal/domain/models"
	drepo "SenateInsight/internal/domain/repository"
	dsvc "SenateInsight/internal/domain/service"
	mid "SenateInsight/internal/middleware"
	applogger "SenateInsight/pkg/logger"
)

// price windows around a transaction, matching the detector's reach:
// the volume baseline ends 37 days back and the movement window runs
// 30 days forward.
const (
	priceLookbackDays = 45
	priceForwardDays  = 35
)

// RunSummary describes one completed analysis run.
type RunSummary struct {
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
	MembersProcessed  int           `json:"members_processed"`
	TransactionsSeen  int           `json:"transactions_seen"`
	AlertsGenerated   int           `json:"alerts_generated"`
	MemberErrors      []string      `json:"member_errors,omitempty"`
}

// Orchestrator drives the full pipeline: collect members, pull each
// member's disclosures, votes, committees and prices, run the detector,
// and hand alerts to the pipeline. Per-member failures are recorded in
// the summary and never abort the run.
type Orchestrator struct {
	members    dsvc.MemberSource
	filings    dsvc.DisclosureSource
	prices     dsvc.PriceSource
	det        *detector.Detector
	pipe       *mid.AlertPipeline
	txnStore   drepo.TransactionStore
	priceStore drepo.PriceStore
	metrics    drepo.Metrics
	l          *applogger.Logger

	lookbackDays  int
	maxConcurrent int
	chamber       string
}

type OrchestratorConfig struct {
	LookbackDays  int
	MaxConcurrent int
	Chamber       string
}

func NewOrchestrator(
	members dsvc.MemberSource,
	filings dsvc.DisclosureSource,
	prices dsvc.PriceSource,
	det *detector.Detector,
	pipe *mid.AlertPipeline,
	txnStore drepo.TransactionStore,
	priceStore drepo.PriceStore,
	metrics drepo.Metrics,
	l *applogger.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 90
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.Chamber == "" {
		cfg.Chamber = "senate"
	}
	return &Orchestrator{
		members:       members,
		filings:       filings,
		prices:        prices,
		det:           det,
		pipe:          pipe,
		txnStore:      txnStore,
		priceStore:    priceStore,
		metrics:       metrics,
		l:             l,
		lookbackDays:  cfg.LookbackDays,
		maxConcurrent: cfg.MaxConcurrent,
		chamber:       cfg.Chamber,
	}
}

// Run analyzes every current member of the configured chamber.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{StartedAt: start.UTC()}

	members, err := o.members.CurrentMembers(ctx, o.chamber)
	if err != nil {
		return nil, fmt.Errorf("collect members: %w", err)
	}
	o.l.Info("analysis run started",
		applogger.String("chamber", o.chamber),
		applogger.Int("members", len(members)),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrent)

	for _, m := range members {
		m := m
		g.Go(func() error {
			alerts, txns, err := o.AnalyzeMember(gctx, m)
			mu.Lock()
			defer mu.Unlock()
			summary.MembersProcessed++
			summary.TransactionsSeen += txns
			if err != nil {
				summary.MemberErrors = append(summary.MemberErrors, fmt.Sprintf("%s: %v", m.MemberID, err))
				o.metrics.RecordError("member_analysis")
				return nil // member failures never fail the run
			}
			summary.AlertsGenerated += len(alerts)
			o.metrics.RecordMemberProcessed(m.Chamber)
			return nil
		})
	}
	_ = g.Wait()

	summary.Duration = time.Since(start)
	o.l.Info("analysis run finished",
		applogger.Int("members", summary.MembersProcessed),
		applogger.Int("alerts", summary.AlertsGenerated),
		applogger.Int("errors", len(summary.MemberErrors)),
		applogger.Duration("duration_ms", summary.Duration),
	)
	o.metrics.RecordLatency("run", summary.Duration.Seconds())
	return summary, nil
}

// AnalyzeMemberByID looks the member up among current members of either
// chamber and analyzes them. days overrides the configured lookback when
// positive.
func (o *Orchestrator) AnalyzeMemberByID(ctx context.Context, memberID string, days int) ([]models.Alert, error) {
	members, err := o.members.CurrentMembers(ctx, "both")
	if err != nil {
		return nil, fmt.Errorf("collect members: %w", err)
	}
	if days <= 0 {
		days = o.lookbackDays
	}
	for _, m := range members {
		if m.MemberID == memberID {
			to := time.Now().UTC()
			alerts, _, err := o.analyzeWindow(ctx, m, to.AddDate(0, 0, -days), to)
			return alerts, err
		}
	}
	return nil, fmt.Errorf("member %s not found", memberID)
}

// AnalyzeMember runs the pipeline for one member over the configured
// lookback window and returns the generated alerts plus the number of
// transactions examined.
func (o *Orchestrator) AnalyzeMember(ctx context.Context, member models.Member) ([]models.Alert, int, error) {
	to := time.Now().UTC()
	return o.analyzeWindow(ctx, member, to.AddDate(0, 0, -o.lookbackDays), to)
}

func (o *Orchestrator) analyzeWindow(ctx context.Context, member models.Member, from, to time.Time) ([]models.Alert, int, error) {
	txns, err := o.collectTransactions(ctx, member, from, to)
	if err != nil {
		return nil, 0, err
	}
	if len(txns) == 0 {
		return nil, 0, nil
	}

	actions, err := o.members.MemberVotes(ctx, member.MemberID, from, to)
	if err != nil {
		// legislative record is an enrichment; score without it
		o.l.Warn("member votes unavailable",
			applogger.String("member_id", member.MemberID),
			applogger.Error(err),
		)
		actions = nil
	}
	committees, err := o.members.MemberCommittees(ctx, member.MemberID)
	if err != nil {
		o.l.Warn("member committees unavailable",
			applogger.String("member_id", member.MemberID),
			applogger.Error(err),
		)
		committees = nil
	}

	prices, err := o.collectPrices(ctx, txns)
	if err != nil {
		return nil, len(txns), err
	}

	alerts := o.det.AnalyzeMemberActivity(member, txns, actions, committees, prices)
	for i := range alerts {
		a := alerts[i]
		if err := o.pipe.Process(ctx, &a); err != nil {
			o.metrics.RecordError("dispatch")
		}
	}
	return alerts, len(txns), nil
}

func (o *Orchestrator) collectTransactions(ctx context.Context, member models.Member, from, to time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	for year := from.Year(); year <= to.Year(); year++ {
		filings, err := o.filings.MemberDisclosures(ctx, member.Name, year)
		if err != nil {
			return nil, fmt.Errorf("disclosures %d: %w", year, err)
		}
		for _, f := range filings {
			for _, t := range f.Transactions {
				if t.Ticker == "" || t.TransactionDate.IsZero() {
					continue
				}
				if t.TransactionDate.Before(from) || t.TransactionDate.After(to) {
					continue
				}
				if t.MemberID == "" {
					t.MemberID = member.MemberID
				}
				txns = append(txns, t)
			}
		}
	}
	if o.txnStore != nil && len(txns) > 0 {
		ptrs := make([]*models.Transaction, len(txns))
		for i := range txns {
			ptrs[i] = &txns[i]
		}
		if err := o.txnStore.StoreBatch(ctx, ptrs); err != nil {
			o.l.Warn("transaction persist failed", applogger.Error(err))
		}
	}
	return txns, nil
}

func (o *Orchestrator) collectPrices(ctx context.Context, txns []models.Transaction) (map[string][]models.PriceBar, error) {
	windows := map[string][2]time.Time{}
	for _, t := range txns {
		from := t.TransactionDate.AddDate(0, 0, -priceLookbackDays)
		to := t.TransactionDate.AddDate(0, 0, priceForwardDays)
		if w, ok := windows[t.Ticker]; ok {
			if w[0].Before(from) {
				from = w[0]
			}
			if w[1].After(to) {
				to = w[1]
			}
		}
		windows[t.Ticker] = [2]time.Time{from, to}
	}

	out := make(map[string][]models.PriceBar, len(windows))
	for ticker, w := range windows {
		if o.priceStore != nil {
			stored, err := o.priceStore.GetDailyBars(ctx, ticker, w[0], w[1])
			if err != nil {
				o.l.Warn("stored prices unavailable",
					applogger.String("ticker", ticker),
					applogger.Error(err),
				)
			} else if barsCover(stored, w[0], w[1]) {
				out[ticker] = stored
				continue
			}
		}
		bars, err := o.prices.DailyBars(ctx, ticker, w[0], w[1])
		if err != nil {
			// a ticker without prices scores nothing; keep going
			o.l.Warn("price series unavailable",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
			continue
		}
		out[ticker] = bars
		if o.priceStore != nil && len(bars) > 0 {
			if err := o.priceStore.StoreBars(ctx, bars); err != nil {
				o.l.Warn("price persist failed", applogger.Error(err))
			}
		}
	}
	return out, nil
}

// barsCover reports whether stored bars span the window, with a few days
// of slack on each edge for weekends and market holidays. Windows ending
// in the future are clamped to today.
func barsCover(bars []models.PriceBar, from, to time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	first, last := bars[0].Date, bars[0].Date
	for _, b := range bars[1:] {
		if b.Date.Before(first) {
			first = b.Date
		}
		if b.Date.After(last) {
			last = b.Date
		}
	}
	if now := time.Now().UTC(); to.After(now) {
		to = now
	}
	const slack = 5 * 24 * time.Hour
	return !first.After(from.Add(slack)) && !last.Before(to.Add(-slack))
}
