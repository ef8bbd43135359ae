package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"SenateInsight/internal/domain/models"
)

type captureProc struct {
	mu     sync.Mutex
	alerts []*models.Alert
	fail   bool
}

func (c *captureProc) Process(ctx context.Context, a *models.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return fmt.Errorf("downstream down")
	}
	c.alerts = append(c.alerts, a)
	return nil
}

func (c *captureProc) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

type nilMetrics struct{}

func (nilMetrics) RecordAlert(backend, alertType string) {}
func (nilMetrics) RecordMemberProcessed(chamber string)  {}
func (nilMetrics) RecordError(kind string)               {}
func (nilMetrics) RecordLatency(op string, sec float64)  {}

func validTestAlert(id string) *models.Alert {
	return &models.Alert{
		AlertID:         id,
		MemberID:        "S001",
		TransactionID:   "t1",
		AlertType:       models.AlertTypeTiming,
		ConfidenceScore: 0.6,
	}
}

func TestPipelineForwardsValidAlerts(t *testing.T) {
	proc := &captureProc{}
	p := NewAlertPipeline(proc, nilMetrics{})

	if err := p.Process(context.Background(), validTestAlert("a1")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if proc.count() != 1 {
		t.Errorf("forwarded = %d, want 1", proc.count())
	}
}

func TestPipelineRejectsInvalidAlerts(t *testing.T) {
	proc := &captureProc{}
	p := NewAlertPipeline(proc, nilMetrics{})

	cases := []*models.Alert{
		nil,
		{MemberID: "S001"},                                      // no id
		{AlertID: "a1"},                                         // no member
		{AlertID: "a1", MemberID: "S001", ConfidenceScore: 1.5}, // out of range
	}
	for i, a := range cases {
		if err := p.Process(context.Background(), a); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if proc.count() != 0 {
		t.Errorf("forwarded = %d, want 0", proc.count())
	}
}

func TestPipelineBuffersWhenDownstreamFails(t *testing.T) {
	proc := &captureProc{fail: true}
	p := NewAlertPipeline(proc, nilMetrics{}, WithBufferSize(10))

	if err := p.Process(context.Background(), validTestAlert("a1")); err != nil {
		t.Fatalf("Process should buffer, not fail: %v", err)
	}
	if proc.count() != 0 {
		t.Fatalf("forwarded = %d, want 0 while downstream is down", proc.count())
	}

	// recover downstream and let the flush loop drain the buffer
	proc.mu.Lock()
	proc.fail = false
	proc.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for proc.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("buffered alert never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPipelineSubscribeReceivesAlerts(t *testing.T) {
	proc := &captureProc{}
	p := NewAlertPipeline(proc, nilMetrics{})

	ch, cancel := p.Subscribe()
	defer cancel()

	if err := p.Process(context.Background(), validTestAlert("a1")); err != nil {
		t.Fatalf("Process: %v", err)
	}

	select {
	case a := <-ch:
		if a.AlertID != "a1" {
			t.Errorf("subscriber got %q, want a1", a.AlertID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never notified")
	}
}

func TestPipelineSubscribeCancelClosesChannel(t *testing.T) {
	p := NewAlertPipeline(&captureProc{}, nilMetrics{})

	ch, cancel := p.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("channel still open after cancel")
	}
	// a second cancel must be a no-op
	cancel()
}
