package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// Sink is the minimal downstream interface the pipeline needs.
type Sink interface {
	Ingest(ctx context.Context, a *models.NewsArticle) error
}

// NewsPipeline sits between the news stream and the article sink. It
// validates, deduplicates by article ID, throttles per symbol, and
// buffers when the downstream is unavailable.
type NewsPipeline struct {
	sink    Sink
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.NewsArticle
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex

	lastSeen map[string]time.Time // per-symbol last accepted time
	seenIDs  map[string]struct{}  // recent article IDs
	seenRing []string
	seenPos  int
}

type PipelineOption func(*NewsPipeline)

// WithMaxRPS sets the max articles per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *NewsPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *NewsPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewNewsPipeline creates a new pipeline.
func NewNewsPipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *NewsPipeline {
	p := &NewsPipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   10,
		bufSize:  500,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
		seenIDs:  make(map[string]struct{}),
		seenRing: make([]string, 2048),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.NewsArticle, p.bufSize)
	return p
}

// Start launches background flushing of buffered articles.
func (p *NewsPipeline) Start(ctx context.Context) {
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
				if err := p.sink.Ingest(ctx, a); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordSourceError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordSourceError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *NewsPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, dedupes, throttles, and forwards an article,
// buffering on downstream errors.
func (p *NewsPipeline) Process(ctx context.Context, a *models.NewsArticle) error {
	start := time.Now()
	if err := validateArticle(a); err != nil {
		p.metrics.RecordSourceError("pipeline_validate")
		return err
	}

	if p.duplicate(a) {
		return nil
	}

	if !p.allow(a.Symbol, start) {
		p.metrics.RecordSourceError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Ingest(ctx, a); err != nil {
		p.metrics.RecordSourceError("pipeline_ingest")
		select {
		case p.bufCh <- a:
		default:
			p.metrics.RecordSourceError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}

	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateArticle(a *models.NewsArticle) error {
	if a == nil {
		return fmt.Errorf("article nil")
	}
	if a.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if a.Headline == "" {
		return fmt.Errorf("headline empty")
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("timestamp invalid")
	}
	return nil
}

// duplicate tracks recent (id, symbol) pairs in a fixed ring so memory
// stays bounded on the firehose subscription.
func (p *NewsPipeline) duplicate(a *models.NewsArticle) bool {
	if a.ID == "" {
		return false
	}
	key := a.ID + ":" + a.Symbol

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seenIDs[key]; ok {
		return true
	}
	if old := p.seenRing[p.seenPos]; old != "" {
		delete(p.seenIDs, old)
	}
	p.seenRing[p.seenPos] = key
	p.seenIDs[key] = struct{}{}
	p.seenPos = (p.seenPos + 1) % len(p.seenRing)
	return false
}

func (p *NewsPipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	last := p.lastSeen[symbol]
	if last.IsZero() || now.Sub(last) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen[symbol] = now
		return true
	}
	return false
}
