package usecase

import (
	"context"
	"fmt"

	applogger "SenateInsight/pkg/logger"
	"SenateInsight/pkg/queue"
)

const AnalyzeMemberMsgType = "analyze_member"

// AnalyzeMemberPayload is the queue payload for an async member analysis.
type AnalyzeMemberPayload struct {
	MemberID string `json:"member_id"`
	Days     int    `json:"days,omitempty"`
}

// AnalyzeMemberJob runs a single-member analysis off the Redis queue so
// API callers never wait on the upstream data sources.
type AnalyzeMemberJob struct {
	orch *Orchestrator
	l    *applogger.Logger
}

func NewAnalyzeMemberJob(orch *Orchestrator, l *applogger.Logger) *AnalyzeMemberJob {
	return &AnalyzeMemberJob{orch: orch, l: l}
}

func (j *AnalyzeMemberJob) Name() string { return "analyze_member_job" }

func (j *AnalyzeMemberJob) Type() string { return AnalyzeMemberMsgType }

func (j *AnalyzeMemberJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[AnalyzeMemberPayload](payload)
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	alerts, err := j.orch.AnalyzeMemberByID(ctx, p.MemberID, p.Days)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", p.MemberID, err)
	}
	j.l.Info("async analysis done",
		applogger.String("member_id", p.MemberID),
		applogger.Int("alerts", len(alerts)),
	)
	return nil
}
