package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu    sync.Mutex
	calls map[string]int // provider + " " + endpoint
}

func (m *countingMetrics) RecordAnalysis(string)                {}
func (m *countingMetrics) RecordSourceError(string)             {}
func (m *countingMetrics) RecordConsensusScore(string, float64) {}
func (m *countingMetrics) RecordSnapshotSent(string, string)    {}
func (m *countingMetrics) RecordLatency(string, float64)        {}

func (m *countingMetrics) RecordProviderCall(provider, endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[provider+" "+endpoint]++
}

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("test-key", srv.URL, 2*time.Second, 6000)
}

func TestQuote(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Write([]byte(`{"c":195.5,"d":2.3,"dp":1.19,"h":196,"l":192.1,"o":193,"pc":193.2,"t":1700000000}`))
	})

	q, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 195.5, q.Price)
	assert.Equal(t, 1.19, q.ChangePercent)
	assert.Equal(t, 193.2, q.PrevClose)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":0,"d":0,"dp":0,"h":0,"l":0,"o":0,"pc":0,"t":0}`))
	})

	_, err := c.Quote(context.Background(), "NOPE")
	require.Error(t, err)
}

func TestCompanyNewsSortedAndFiltered(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("from"))
		assert.NotEmpty(t, r.URL.Query().Get("to"))
		w.Write([]byte(`[
			{"id":1,"headline":"older","datetime":1700000000,"source":"x","url":"u"},
			{"id":2,"headline":"","datetime":1700000500,"source":"x","url":"u"},
			{"id":3,"headline":"newer","datetime":1700001000,"source":"x","url":"u"}
		]`))
	})

	now := time.Now()
	articles, err := c.CompanyNews(context.Background(), "AAPL", now.AddDate(0, 0, -7), now)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "newer", articles[0].Headline)
	assert.Equal(t, "older", articles[1].Headline)
}

func TestBasicFinancials(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/metric", r.URL.Path)
		w.Write([]byte(`{"metric":{
			"peTTM":28.4,
			"epsTTM":6.1,
			"epsGrowthTTMYoy":11.2,
			"revenueGrowthTTMYoy":8.7,
			"netProfitMarginTTM":25.3,
			"roeTTM":147.9,
			"totalDebt/totalEquityQuarterly":1.76,
			"52WeekHigh":199.6,
			"52WeekLow":124.2
		}}`))
	})

	ratios, err := c.BasicFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, ratios.PERatio)
	assert.Equal(t, 28.4, *ratios.PERatio)
	require.NotNil(t, ratios.EPSGrowth)
	assert.Equal(t, 11.2, *ratios.EPSGrowth)
	require.NotNil(t, ratios.High52W)
	assert.Equal(t, 199.6, *ratios.High52W)
	assert.Nil(t, ratios.MarketCap)
}

func TestInsiderSentimentAveragesMSPR(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/insider-sentiment", r.URL.Path)
		w.Write([]byte(`{"data":[
			{"symbol":"AAPL","year":2025,"month":6,"change":-1000,"mspr":-20},
			{"symbol":"AAPL","year":2025,"month":7,"change":3000,"mspr":60}
		]}`))
	})

	ins, err := c.InsiderSentiment(context.Background(), "AAPL",
		time.Now().AddDate(0, -3, 0), time.Now())
	require.NoError(t, err)
	assert.InDelta(t, 20.0, ins.MSPR, 1e-9)
	assert.Equal(t, 2000.0, ins.NetShareChange)
	assert.Equal(t, 2, ins.Months)
}

func TestSearchSymbols(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "apple", r.URL.Query().Get("q"))
		w.Write([]byte(`{"count":1,"result":[{"symbol":"AAPL","description":"APPLE INC","type":"Common Stock"}]}`))
	})

	matches, err := c.SearchSymbols(context.Background(), "apple")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "AAPL", matches[0].Symbol)
}

func TestRequestsRecordProviderCalls(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"c":195.5,"d":2.3,"dp":1.19,"h":196,"l":192.1,"o":193,"pc":193.2,"t":1700000000}`))
	})
	m := &countingMetrics{}
	c.SetMetrics(m)

	_, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = c.Quote(context.Background(), "MSFT")
	require.NoError(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Equal(t, 2, m.calls["finnhub /quote"])
}

func TestServerErrorSurfaces(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.Quote(context.Background(), "AAPL")
	require.Error(t, err)
}
