package twitter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/ratelimit"
	xhttp "StockPulse/pkg/http"
)

const providerName = "twitter"

// Client queries the Twitter/X recent search API for cashtag mentions.
type Client struct {
	bearerToken string
	baseURL     string
	http        *xhttp.Client
	limiter     *ratelimit.Limiter
	metrics     drepo.Metrics
}

// New creates a Twitter client.
func New(bearerToken, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://api.twitter.com/2"
	}
	return &Client{
		bearerToken: bearerToken,
		baseURL:     baseURL,
		http:        xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter:     ratelimit.New(),
	}
}

// SetMetrics attaches a metrics recorder. Optional.
func (c *Client) SetMetrics(m drepo.Metrics) {
	c.metrics = m
}

type twSearchResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		AuthorID      string `json:"author_id"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// RecentPosts returns recent tweets mentioning the symbol's cashtag,
// excluding retweets.
func (c *Client) RecentPosts(ctx context.Context, symbol string, limit int) ([]models.Tweet, error) {
	// Recent search allows 180 requests per 15 minutes.
	if err := c.limiter.Wait(ctx, providerName, 180, 0.2); err != nil {
		return nil, fmt.Errorf("twitter rate limit: %w", err)
	}
	if c.metrics != nil {
		c.metrics.RecordProviderCall(providerName, "/tweets/search/recent")
	}

	if limit <= 0 || limit > 100 {
		limit = 30
	}
	// API minimum is 10.
	if limit < 10 {
		limit = 10
	}

	var resp twSearchResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/tweets/search/recent",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.bearerToken,
		},
		QueryParams: map[string][]string{
			"query":        {fmt.Sprintf("$%s -is:retweet lang:en", symbol)},
			"max_results":  {strconv.Itoa(limit)},
			"tweet.fields": {"created_at,public_metrics,author_id"},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("twitter search %s: %w", symbol, err)
	}

	tweets := make([]models.Tweet, 0, len(resp.Data))
	for _, d := range resp.Data {
		ts, terr := time.Parse(time.RFC3339, d.CreatedAt)
		if terr != nil {
			ts = time.Now()
		}
		tweets = append(tweets, models.Tweet{
			ID:        d.ID,
			Text:      d.Text,
			Author:    d.AuthorID,
			Timestamp: ts,
			Likes:     d.PublicMetrics.LikeCount,
			Retweets:  d.PublicMetrics.RetweetCount,
		})
	}
	return tweets, nil
}
