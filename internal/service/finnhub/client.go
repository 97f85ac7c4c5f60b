package finnhub

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"
)

const providerName = "finnhub"

// Client is a Finnhub REST API client covering quotes, profiles,
// company news, fundamentals, insider sentiment, and earnings.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rate    float64 // calls per second budget
	burst   float64
	metrics drepo.Metrics
}

// New creates a Finnhub client. ratePerMinute bounds outgoing calls
// across all endpoints.
func New(apiKey, baseURL string, timeout time.Duration, ratePerMinute int) *Client {
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}
	if ratePerMinute <= 0 {
		ratePerMinute = 60
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetries(2, 300*time.Millisecond)),
		limiter: ratelimit.New(),
		rate:    float64(ratePerMinute) / 60.0,
		burst:   float64(ratePerMinute),
	}
}

// SetMetrics attaches a metrics recorder. Optional.
func (c *Client) SetMetrics(m drepo.Metrics) {
	c.metrics = m
}

func (c *Client) get(ctx context.Context, path string, params map[string][]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx, providerName, c.burst, c.rate); err != nil {
		return fmt.Errorf("finnhub rate limit: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerName, path)
	}

	if params == nil {
		params = map[string][]string{}
	}
	params["token"] = []string{c.apiKey}

	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: params,
	}, dest)
}

type fhQuote struct {
	C  float64 `json:"c"`  // current
	D  float64 `json:"d"`  // change
	DP float64 `json:"dp"` // change percent
	H  float64 `json:"h"`
	L  float64 `json:"l"`
	O  float64 `json:"o"`
	PC float64 `json:"pc"` // previous close
	T  int64   `json:"t"`
}

// Quote returns the real-time quote for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var q fhQuote
	err := c.get(ctx, "/quote", map[string][]string{"symbol": {symbol}}, &q)
	if err != nil {
		return models.Quote{}, fmt.Errorf("finnhub quote %s: %w", symbol, err)
	}
	// Finnhub returns zeros for unknown symbols instead of an error.
	if q.C == 0 && q.PC == 0 && q.T == 0 {
		return models.Quote{}, fmt.Errorf("finnhub quote %s: no data", symbol)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         q.C,
		Change:        q.D,
		ChangePercent: q.DP,
		High:          q.H,
		Low:           q.L,
		Open:          q.O,
		PrevClose:     q.PC,
		Timestamp:     q.T,
	}, nil
}

type fhProfile struct {
	Name                 string  `json:"name"`
	Exchange             string  `json:"exchange"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Currency             string  `json:"currency"`
	WebURL               string  `json:"weburl"`
	Logo                 string  `json:"logo"`
}

// CompanyProfile returns basic company information.
func (c *Client) CompanyProfile(ctx context.Context, symbol string) (models.CompanyProfile, error) {
	var p fhProfile
	err := c.get(ctx, "/stock/profile2", map[string][]string{"symbol": {symbol}}, &p)
	if err != nil {
		return models.CompanyProfile{}, fmt.Errorf("finnhub profile %s: %w", symbol, err)
	}
	if p.Name == "" {
		return models.CompanyProfile{}, fmt.Errorf("finnhub profile %s: not found", symbol)
	}
	return models.CompanyProfile{
		Symbol:    symbol,
		Name:      p.Name,
		Exchange:  p.Exchange,
		Industry:  p.FinnhubIndustry,
		MarketCap: p.MarketCapitalization,
		Currency:  p.Currency,
		WebURL:    p.WebURL,
		Logo:      p.Logo,
	}, nil
}

type fhNews struct {
	ID       int64  `json:"id"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"` // unix seconds
}

// CompanyNews returns articles for a symbol within [from, to].
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsArticle, error) {
	var items []fhNews
	err := c.get(ctx, "/company-news", map[string][]string{
		"symbol": {symbol},
		"from":   {from.Format(util.APIDateLayout)},
		"to":     {to.Format(util.APIDateLayout)},
	}, &items)
	if err != nil {
		return nil, fmt.Errorf("finnhub news %s: %w", symbol, err)
	}

	articles := make([]models.NewsArticle, 0, len(items))
	for _, it := range items {
		if it.Headline == "" {
			continue
		}
		articles = append(articles, models.NewsArticle{
			ID:        strconv.FormatInt(it.ID, 10),
			Symbol:    symbol,
			Headline:  it.Headline,
			Summary:   it.Summary,
			Source:    it.Source,
			URL:       it.URL,
			Timestamp: time.Unix(it.Datetime, 0),
		})
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].Timestamp.After(articles[j].Timestamp)
	})
	return articles, nil
}

type fhMetrics struct {
	Metric map[string]*float64 `json:"metric"`
}

// BasicFinancials returns the ratio bundle used by the grading engine.
// Metrics that Finnhub omits for a symbol stay nil.
func (c *Client) BasicFinancials(ctx context.Context, symbol string) (models.FinancialRatios, error) {
	var m fhMetrics
	err := c.get(ctx, "/stock/metric", map[string][]string{
		"symbol": {symbol},
		"metric": {"all"},
	}, &m)
	if err != nil {
		return models.FinancialRatios{}, fmt.Errorf("finnhub metrics %s: %w", symbol, err)
	}
	if len(m.Metric) == 0 {
		return models.FinancialRatios{}, fmt.Errorf("finnhub metrics %s: no data", symbol)
	}

	pick := func(keys ...string) *float64 {
		for _, k := range keys {
			if v, ok := m.Metric[k]; ok && v != nil {
				return v
			}
		}
		return nil
	}

	return models.FinancialRatios{
		PERatio:       pick("peTTM", "peBasicExclExtraTTM"),
		EPS:           pick("epsTTM", "epsBasicExclExtraItemsTTM"),
		EPSGrowth:     pick("epsGrowthTTMYoy", "epsGrowth5Y"),
		RevenueGrowth: pick("revenueGrowthTTMYoy", "revenueGrowth5Y"),
		ProfitMargin:  pick("netProfitMarginTTM", "netProfitMargin5Y"),
		ROE:           pick("roeTTM", "roeRfy"),
		DebtToEquity:  pick("totalDebt/totalEquityQuarterly", "totalDebt/totalEquityAnnual"),
		MarketCap:     pick("marketCapitalization"),
		High52W:       pick("52WeekHigh"),
		Low52W:        pick("52WeekLow"),
	}, nil
}

type fhInsiderEntry struct {
	Symbol string  `json:"symbol"`
	MSPR   float64 `json:"mspr"`
	Change float64 `json:"change"`
	Month  int     `json:"month"`
	Year   int     `json:"year"`
}

type fhInsiderResponse struct {
	Data []fhInsiderEntry `json:"data"`
}

// InsiderSentiment averages monthly MSPR values over [from, to].
func (c *Client) InsiderSentiment(ctx context.Context, symbol string, from, to time.Time) (models.InsiderSentiment, error) {
	var resp fhInsiderResponse
	err := c.get(ctx, "/stock/insider-sentiment", map[string][]string{
		"symbol": {symbol},
		"from":   {from.Format(util.APIDateLayout)},
		"to":     {to.Format(util.APIDateLayout)},
	}, &resp)
	if err != nil {
		return models.InsiderSentiment{}, fmt.Errorf("finnhub insider %s: %w", symbol, err)
	}
	if len(resp.Data) == 0 {
		return models.InsiderSentiment{}, fmt.Errorf("finnhub insider %s: no data", symbol)
	}

	var msprSum, changeSum float64
	for _, e := range resp.Data {
		msprSum += e.MSPR
		changeSum += e.Change
	}
	n := len(resp.Data)
	return models.InsiderSentiment{
		Symbol:         symbol,
		MSPR:           msprSum / float64(n),
		NetShareChange: changeSum,
		Months:         n,
	}, nil
}

type fhEarnings struct {
	Period   string  `json:"period"`
	Estimate float64 `json:"estimate"`
	Actual   float64 `json:"actual"`
	Surprise float64 `json:"surprisePercent"`
}

// EarningsSurprises returns recent reported quarters vs estimates.
func (c *Client) EarningsSurprises(ctx context.Context, symbol string) ([]models.EarningsSurprise, error) {
	var items []fhEarnings
	err := c.get(ctx, "/stock/earnings", map[string][]string{"symbol": {symbol}}, &items)
	if err != nil {
		return nil, fmt.Errorf("finnhub earnings %s: %w", symbol, err)
	}

	out := make([]models.EarningsSurprise, 0, len(items))
	for _, e := range items {
		out = append(out, models.EarningsSurprise{
			Symbol:   symbol,
			Period:   e.Period,
			Estimate: e.Estimate,
			Actual:   e.Actual,
			Surprise: e.Surprise,
		})
	}
	return out, nil
}

type fhSearchResult struct {
	Result []struct {
		Symbol      string `json:"symbol"`
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"result"`
}

// SearchSymbols looks up tickers by free-text query.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	var resp fhSearchResult
	err := c.get(ctx, "/search", map[string][]string{"q": {query}}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub search %q: %w", query, err)
	}

	matches := make([]models.SymbolMatch, 0, len(resp.Result))
	for _, r := range resp.Result {
		matches = append(matches, models.SymbolMatch{
			Symbol:      r.Symbol,
			Description: r.Description,
			Type:        r.Type,
		})
	}
	return matches, nil
}

type fhCalendar struct {
	EarningsCalendar []struct {
		Symbol      string  `json:"symbol"`
		Date        string  `json:"date"`
		Hour        string  `json:"hour"`
		EPSEstimate float64 `json:"epsEstimate"`
		EPSActual   float64 `json:"epsActual"`
		Quarter     int     `json:"quarter"`
		Year        int     `json:"year"`
	} `json:"earningsCalendar"`
}

// EarningsCalendar returns earnings events within [from, to].
func (c *Client) EarningsCalendar(ctx context.Context, from, to time.Time) ([]models.EarningsEvent, error) {
	var resp fhCalendar
	err := c.get(ctx, "/calendar/earnings", map[string][]string{
		"from": {from.Format(util.APIDateLayout)},
		"to":   {to.Format(util.APIDateLayout)},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("finnhub calendar: %w", err)
	}

	events := make([]models.EarningsEvent, 0, len(resp.EarningsCalendar))
	for _, e := range resp.EarningsCalendar {
		events = append(events, models.EarningsEvent{
			Symbol:      e.Symbol,
			Date:        e.Date,
			Hour:        e.Hour,
			EPSEstimate: e.EPSEstimate,
			EPSActual:   e.EPSActual,
			Quarter:     e.Quarter,
			Year:        e.Year,
		})
	}
	return events, nil
}
