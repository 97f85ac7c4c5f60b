package alphavantage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/pkg/cache"
	xhttp "StockPulse/pkg/http"
)

const providerName = "alphavantage"

// Free-tier budget is 25 requests/day; responses are cached so repeat
// dashboard loads do not burn it.
const (
	defaultBurst  = 5.0
	defaultRefill = 5.0 / 60.0 // 5 per minute
)

// Client is an Alpha Vantage API client used for provider-native news
// sentiment and as a quote fallback.
type Client struct {
	apiKey   string
	baseURL  string
	http     *xhttp.Client
	limiter  *ratelimit.Limiter
	cache    cache.Service
	cacheTTL time.Duration
	metrics  drepo.Metrics
}

// New creates an Alpha Vantage client. cacheSvc may be nil to disable
// response caching.
func New(apiKey, baseURL string, timeout, cacheTTL time.Duration, cacheSvc cache.Service) *Client {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co/query"
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetries(1, 500*time.Millisecond)),
		limiter:  ratelimit.New(),
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
	}
}

// SetMetrics attaches a metrics recorder. Optional.
func (c *Client) SetMetrics(m drepo.Metrics) {
	c.metrics = m
}

func (c *Client) get(ctx context.Context, params map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx, providerName, defaultBurst, defaultRefill); err != nil {
		return fmt.Errorf("alphavantage rate limit: %w", err)
	}
	if c.metrics != nil {
		endpoint := ""
		if fn := params["function"]; len(fn) > 0 {
			endpoint = fn[0]
		}
		c.metrics.RecordProviderCall(providerName, endpoint)
	}

	params["apikey"] = []string{c.apiKey}
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: params,
	}, dest)
}

type avNewsItem struct {
	Title           string `json:"title"`
	TickerSentiment []struct {
		Ticker         string `json:"ticker"`
		SentimentScore string `json:"ticker_sentiment_score"`
		RelevanceScore string `json:"relevance_score"`
	} `json:"ticker_sentiment"`
}

type avNewsResponse struct {
	Information string       `json:"Information"`
	Note        string       `json:"Note"`
	Feed        []avNewsItem `json:"feed"`
}

type newsSentimentResult struct {
	Score     float64 `json:"score"`
	Relevance float64 `json:"relevance"`
	Analyzed  int     `json:"analyzed"`
}

// NewsSentiment averages the per-ticker sentiment scores attached to
// recent articles. The score is in [-1, 1] per the provider's scale.
func (c *Client) NewsSentiment(ctx context.Context, symbol string, limit int) (score, relevance float64, analyzed int, err error) {
	if limit <= 0 {
		limit = 50
	}

	key := cache.Key("av:news_sentiment", symbol, limit)
	if c.cache != nil {
		var cached newsSentimentResult
		if cerr := c.cache.Get(ctx, key, &cached); cerr == nil {
			return cached.Score, cached.Relevance, cached.Analyzed, nil
		}
	}

	var resp avNewsResponse
	err = c.get(ctx, map[string][]string{
		"function": {"NEWS_SENTIMENT"},
		"tickers":  {symbol},
		"limit":    {strconv.Itoa(limit)},
		"sort":     {"LATEST"},
	}, &resp)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("alphavantage news sentiment %s: %w", symbol, err)
	}
	if resp.Information != "" || resp.Note != "" {
		return 0, 0, 0, fmt.Errorf("alphavantage news sentiment %s: quota exceeded", symbol)
	}
	if len(resp.Feed) == 0 {
		return 0, 0, 0, fmt.Errorf("alphavantage news sentiment %s: no articles", symbol)
	}

	var scoreSum, relSum float64
	var count int
	for _, item := range resp.Feed {
		for _, ts := range item.TickerSentiment {
			if ts.Ticker != symbol {
				continue
			}
			s, serr := strconv.ParseFloat(ts.SentimentScore, 64)
			if serr != nil {
				continue
			}
			r, _ := strconv.ParseFloat(ts.RelevanceScore, 64)
			scoreSum += s
			relSum += r
			count++
		}
	}
	if count == 0 {
		return 0, 0, 0, fmt.Errorf("alphavantage news sentiment %s: no ticker entries", symbol)
	}

	score = scoreSum / float64(count)
	relevance = relSum / float64(count)

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, newsSentimentResult{Score: score, Relevance: relevance, Analyzed: count}, c.cacheTTL)
	}
	return score, relevance, count, nil
}

type avGlobalQuote struct {
	Quote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		PrevClose     string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Quote returns the latest quote. Used as a fallback when the primary
// quote provider is unavailable.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var resp avGlobalQuote
	err := c.get(ctx, map[string][]string{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	}, &resp)
	if err != nil {
		return models.Quote{}, fmt.Errorf("alphavantage quote %s: %w", symbol, err)
	}
	if resp.Quote.Symbol == "" {
		return models.Quote{}, fmt.Errorf("alphavantage quote %s: no data", symbol)
	}

	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	// Change percent arrives as e.g. "1.2345%".
	cp := resp.Quote.ChangePercent
	if n := len(cp); n > 0 && cp[n-1] == '%' {
		cp = cp[:n-1]
	}

	return models.Quote{
		Symbol:        symbol,
		Price:         parse(resp.Quote.Price),
		Change:        parse(resp.Quote.Change),
		ChangePercent: parse(cp),
		High:          parse(resp.Quote.High),
		Low:           parse(resp.Quote.Low),
		Open:          parse(resp.Quote.Open),
		PrevClose:     parse(resp.Quote.PrevClose),
		Timestamp:     time.Now().Unix(),
	}, nil
}
