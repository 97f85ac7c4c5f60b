package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
)

// NewsBuffer keeps the most recent streamed articles in memory, per
// symbol. It backs the recent-news endpoint and supplements the REST
// news window when analyzing a symbol.
type NewsBuffer struct {
	mu       sync.RWMutex
	perSym   map[string][]*models.NewsArticle
	capacity int
}

// NewNewsBuffer creates a buffer keeping up to capacity articles per symbol.
func NewNewsBuffer(capacity int) *NewsBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &NewsBuffer{
		perSym:   make(map[string][]*models.NewsArticle),
		capacity: capacity,
	}
}

// Ingest stores an article, evicting the oldest when the symbol's
// buffer is full. Satisfies the news pipeline sink.
func (b *NewsBuffer) Ingest(_ context.Context, a *models.NewsArticle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := b.perSym[a.Symbol]
	buf = append(buf, a)
	if len(buf) > b.capacity {
		buf = buf[len(buf)-b.capacity:]
	}
	b.perSym[a.Symbol] = buf
	return nil
}

// Recent returns up to limit articles for a symbol, newest first.
// An empty symbol returns articles across all symbols.
func (b *NewsBuffer) Recent(symbol string, limit int) []*models.NewsArticle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*models.NewsArticle
	if symbol != "" {
		out = append(out, b.perSym[symbol]...)
	} else {
		for _, buf := range b.perSym {
			out = append(out, buf...)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Since returns articles for a symbol newer than the cutoff.
func (b *NewsBuffer) Since(symbol string, cutoff time.Time) []*models.NewsArticle {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*models.NewsArticle
	for _, a := range b.perSym[symbol] {
		if a.Timestamp.After(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// Symbols returns the symbols currently held in the buffer.
func (b *NewsBuffer) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	syms := make([]string, 0, len(b.perSym))
	for s := range b.perSym {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}
