package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func ingest(t *testing.T, b *NewsBuffer, symbol, id string, ts time.Time) {
	t.Helper()
	require.NoError(t, b.Ingest(context.Background(), &models.NewsArticle{
		ID: id, Symbol: symbol, Headline: "headline " + id, Timestamp: ts,
	}))
}

func TestNewsBufferRecentNewestFirst(t *testing.T) {
	b := NewNewsBuffer(10)
	now := time.Now()
	ingest(t, b, "AAPL", "1", now.Add(-2*time.Minute))
	ingest(t, b, "AAPL", "2", now.Add(-time.Minute))
	ingest(t, b, "AAPL", "3", now)

	got := b.Recent("AAPL", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestNewsBufferEvictsOldest(t *testing.T) {
	b := NewNewsBuffer(3)
	now := time.Now()
	for i := 0; i < 5; i++ {
		ingest(t, b, "TSLA", fmt.Sprintf("%d", i), now.Add(time.Duration(i)*time.Second))
	}

	got := b.Recent("TSLA", 10)
	require.Len(t, got, 3)
	assert.Equal(t, "4", got[0].ID)
	assert.Equal(t, "2", got[2].ID)
}

func TestNewsBufferSince(t *testing.T) {
	b := NewNewsBuffer(10)
	now := time.Now()
	ingest(t, b, "MSFT", "old", now.Add(-48*time.Hour))
	ingest(t, b, "MSFT", "new", now)

	got := b.Since("MSFT", now.Add(-time.Hour))
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)
}

func TestNewsBufferAllSymbols(t *testing.T) {
	b := NewNewsBuffer(10)
	now := time.Now()
	ingest(t, b, "AAPL", "a", now)
	ingest(t, b, "MSFT", "m", now.Add(time.Second))

	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, b.Symbols())
	assert.Len(t, b.Recent("", 10), 2)
}
