package sentiment

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
)

// Classifier calls the sentiment classification sidecar, an HTTP
// service wrapping a finance-tuned language model. Texts are sent in
// one batch and the service returns per-class ratios.
type Classifier struct {
	serviceURL string
	http       *xhttp.Client
}

// New creates a classifier client.
func New(serviceURL string, timeout time.Duration) *Classifier {
	return &Classifier{
		serviceURL: serviceURL,
		http:       xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithRetries(2, 400*time.Millisecond)),
	}
}

type classifyRequest struct {
	Texts []string `json:"texts"`
}

type classifyResponse struct {
	Results []struct {
		Label string  `json:"label"` // positive, negative, neutral
		Score float64 `json:"score"`
	} `json:"results"`
}

// Classify runs the model over a batch of texts and aggregates the
// per-text labels into class ratios.
func (c *Classifier) Classify(ctx context.Context, texts []string) (models.ClassifiedBatch, error) {
	if len(texts) == 0 {
		return models.ClassifiedBatch{}, fmt.Errorf("sentiment: empty batch")
	}

	var resp classifyResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.serviceURL + "/classify",
		Body:   classifyRequest{Texts: texts},
	}, &resp)
	if err != nil {
		return models.ClassifiedBatch{}, fmt.Errorf("sentiment classify: %w", err)
	}
	if len(resp.Results) == 0 {
		return models.ClassifiedBatch{}, fmt.Errorf("sentiment classify: empty response")
	}

	var pos, neg, neu int
	var confSum float64
	for _, r := range resp.Results {
		switch r.Label {
		case "positive":
			pos++
		case "negative":
			neg++
		default:
			neu++
		}
		confSum += r.Score
	}

	n := len(resp.Results)
	batch := models.ClassifiedBatch{
		PositiveRatio: float64(pos) / float64(n),
		NegativeRatio: float64(neg) / float64(n),
		NeutralRatio:  float64(neu) / float64(n),
		Confidence:    confSum / float64(n),
		Analyzed:      n,
	}

	switch {
	case pos > neg && pos > neu:
		batch.Dominant = models.SentimentPositive
	case neg > pos && neg > neu:
		batch.Dominant = models.SentimentNegative
	default:
		batch.Dominant = models.SentimentNeutral
	}
	return batch, nil
}

// Health pings the sidecar.
func (c *Classifier) Health(ctx context.Context) error {
	return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.serviceURL + "/healthz",
	}, nil)
}
