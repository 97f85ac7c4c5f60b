package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func testClassifier(t *testing.T, handler http.HandlerFunc) *Classifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestClassifyAggregatesLabels(t *testing.T) {
	c := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Texts []string `json:"texts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Texts, 4)

		w.Write([]byte(`{"results":[
			{"label":"positive","score":0.9},
			{"label":"positive","score":0.8},
			{"label":"negative","score":0.7},
			{"label":"neutral","score":0.6}
		]}`))
	})

	batch, err := c.Classify(context.Background(), []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, batch.PositiveRatio, 1e-9)
	assert.InDelta(t, 0.25, batch.NegativeRatio, 1e-9)
	assert.InDelta(t, 0.25, batch.NeutralRatio, 1e-9)
	assert.InDelta(t, 0.75, batch.Confidence, 1e-9)
	assert.Equal(t, 4, batch.Analyzed)
	assert.Equal(t, models.SentimentPositive, batch.Dominant)
}

func TestClassifyNoMajorityIsNeutral(t *testing.T) {
	c := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"label":"positive","score":0.9},
			{"label":"negative","score":0.9}
		]}`))
	})

	batch, err := c.Classify(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, batch.Dominant)
}

func TestClassifyEmptyBatch(t *testing.T) {
	c := New("http://unused", time.Second)
	_, err := c.Classify(context.Background(), nil)
	require.Error(t, err)
}

func TestClassifyEmptyResponse(t *testing.T) {
	c := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.Classify(context.Background(), []string{"a"})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	c := testClassifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		http.NotFound(w, r)
	})

	assert.NoError(t, c.Health(context.Background()))
}
