package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a NewsStream backed by the Alpaca real-time news
// WebSocket (wss://stream.data.alpaca.markets/v1beta1/news).
type Stream struct {
	keyID          string
	secretKey      string
	streamURL      string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	bufferSize     int

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
}

// New creates a new Alpaca news stream.
func New(keyID, secretKey, streamURL string, symbols []string, reconnectDelay, pingInterval time.Duration, bufferSize int) drepo.NewsStream {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		keyID:          keyID,
		secretKey:      secretKey,
		streamURL:      streamURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		bufferSize:     bufferSize,
	}
}

func (s *Stream) connection() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Connect establishes the WebSocket connection and authenticates.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("alpaca connect: %w", err)
	}

	auth := map[string]string{"action": "auth", "key": s.keyID, "secret": s.secretKey}
	if err := conn.WriteJSON(auth); err != nil {
		_ = conn.Close()
		return fmt.Errorf("alpaca auth: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	log.Printf("alpaca: connected")
	return nil
}

// Subscribe subscribes to news for the configured symbols. An empty
// symbol list subscribes to the firehose ("*").
func (s *Stream) Subscribe(ctx context.Context) error {
	conn := s.connection()
	if conn == nil || !s.IsConnected() {
		return fmt.Errorf("alpaca not connected")
	}

	symbols := s.symbols
	if len(symbols) == 0 {
		symbols = []string{"*"}
	}
	msg := map[string]interface{}{"action": "subscribe", "news": symbols}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("alpaca subscribe: %w", err)
	}
	log.Printf("alpaca: subscribed news symbols=%v", symbols)
	return nil
}

type alpacaNews struct {
	T         string   `json:"T"` // message type, "n" for news
	ID        int64    `json:"id"`
	Headline  string   `json:"headline"`
	Summary   string   `json:"summary"`
	Source    string   `json:"source"`
	URL       string   `json:"url"`
	Symbols   []string `json:"symbols"`
	CreatedAt string   `json:"created_at"`
}

// Read streams news articles and errors for the current connection.
// Both channels close when the read loop ends; the caller reconnects
// and calls Read again for a fresh session. One article is emitted per
// (article, symbol) pair so downstream per-symbol buffers stay simple.
func (s *Stream) Read(ctx context.Context) (<-chan *models.NewsArticle, <-chan error) {
	articles := make(chan *models.NewsArticle, s.bufferSize)
	errs := make(chan error, 1)
	done := make(chan struct{})

	// ping loop, bound to this read session
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				if conn := s.connection(); conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(articles)
		defer close(errs)
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			conn := s.connection()
			if conn == nil {
				errs <- fmt.Errorf("alpaca conn nil")
				return
			}
			_, b, err := conn.ReadMessage()
			if err != nil {
				errs <- fmt.Errorf("alpaca read: %w", err)
				return
			}

			var batch []alpacaNews
			if err := json.Unmarshal(b, &batch); err != nil {
				// ignore control frames
				continue
			}
			for _, n := range batch {
				if n.T != "n" {
					continue
				}
				ts, terr := time.Parse(time.RFC3339, n.CreatedAt)
				if terr != nil {
					ts = time.Now()
				}
				for _, sym := range n.Symbols {
					article := &models.NewsArticle{
						ID:        fmt.Sprintf("%d", n.ID),
						Symbol:    sym,
						Headline:  n.Headline,
						Summary:   n.Summary,
						Source:    n.Source,
						URL:       n.URL,
						Timestamp: ts,
					}
					select {
					case articles <- article:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return articles, errs
}

// Reconnect closes the current connection, waits the configured delay,
// and dials and resubscribes.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}

	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}
