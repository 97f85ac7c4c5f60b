package usecase

import (
	"context"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	mid "StockPulse/internal/middleware"
)

// NewsCollector consumes the real-time news stream and feeds articles
// through the pipeline into the in-memory buffer. The collector owns
// the read-session lifecycle: when a session's channels close it
// reconnects and opens a new one.
type NewsCollector struct {
	stream  drepo.NewsStream
	pipe    *mid.NewsPipeline
	metrics drepo.Metrics
}

// NewNewsCollector creates a new NewsCollector instance.
func NewNewsCollector(stream drepo.NewsStream, pipe *mid.NewsPipeline, metrics drepo.Metrics) *NewsCollector {
	return &NewsCollector{stream: stream, pipe: pipe, metrics: metrics}
}

// IsConnected returns true if the news stream is connected.
func (c *NewsCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *NewsCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.pipe.Start(ctx)

	go c.run(ctx)
	return nil
}

func (c *NewsCollector) run(ctx context.Context) {
	for {
		articles, errs := c.stream.Read(ctx)
		if !c.consume(ctx, articles, errs) {
			return
		}

		// session ended, reconnect until it sticks or the ctx dies
		for {
			if ctx.Err() != nil {
				return
			}
			if err := c.stream.Reconnect(ctx); err == nil {
				break
			}
			c.metrics.RecordSourceError("news_stream")
		}
	}
}

// consume drains one read session. It returns true when the session
// ended and a reconnect is wanted, false when the context is done.
func (c *NewsCollector) consume(ctx context.Context, articles <-chan *models.NewsArticle, errs <-chan error) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				c.metrics.RecordSourceError("news_stream")
			}
		case a, ok := <-articles:
			if !ok {
				return true
			}
			if a == nil {
				continue
			}
			_ = c.pipe.Process(ctx, a)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *NewsCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
