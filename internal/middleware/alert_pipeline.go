package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SenateInsight/internal/domain/models"
	domrepo "SenateInsight/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, a *models.Alert) error
}

// AlertPipeline sits between the detector and the alert backend.
// It validates, buffers when downstream is unavailable, and fans newly
// generated alerts out to live subscribers.
type AlertPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	bufSize int
	bufCh   chan *models.Alert
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex

	subMu   sync.Mutex
	subs    map[int]chan *models.Alert
	nextSub int
}

type PipelineOption func(*AlertPipeline)

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewAlertPipeline creates a new pipeline.
func NewAlertPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		proc:    proc,
		metrics: metrics,
		bufSize: 1000,
		bufCh:   make(chan *models.Alert, 1000),
		stopCh:  make(chan struct{}),
		subs:    make(map[int]chan *models.Alert),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.Alert, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered alerts.
func (p *AlertPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case a := <-p.bufCh:
				if a == nil {
					continue
				}
				if err := p.proc.Process(ctx, a); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *AlertPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and forwards an alert downstream, buffering on errors.
// Subscribers are notified regardless of downstream health.
func (p *AlertPipeline) Process(ctx context.Context, a *models.Alert) error {
	if err := validateAlert(a); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}

	p.notify(a)

	if err := p.proc.Process(ctx, a); err != nil {
		select {
		case p.bufCh <- a:
			p.metrics.RecordError("pipeline_buffered")
		default:
			p.metrics.RecordError("pipeline_buffer_drop")
		}
		return nil // buffered; the flush loop owns the retry
	}
	return nil
}

// Subscribe registers a live alert listener. The returned cancel func must be
// called when the listener goes away; slow listeners miss alerts rather than
// block the pipeline.
func (p *AlertPipeline) Subscribe() (<-chan *models.Alert, func()) {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	ch := make(chan *models.Alert, 64)
	p.subs[id] = ch
	p.subMu.Unlock()

	cancel := func() {
		p.subMu.Lock()
		if c, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(c)
		}
		p.subMu.Unlock()
	}
	return ch, cancel
}

func (p *AlertPipeline) notify(a *models.Alert) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- a:
		default:
		}
	}
}

func validateAlert(a *models.Alert) error {
	if a == nil {
		return fmt.Errorf("alert is nil")
	}
	if a.AlertID == "" || a.MemberID == "" {
		return fmt.Errorf("alert missing identity")
	}
	if a.ConfidenceScore < 0 || a.ConfidenceScore > 1 {
		return fmt.Errorf("confidence out of range: %f", a.ConfidenceScore)
	}
	return nil
}
