package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-picks/internal/models"
)

// ScoreHandler is called for each score update received from the stream
type ScoreHandler func(update ScoreUpdate) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// streamMessage is the provider's score-feed frame
type streamMessage struct {
	Op     string       `json:"op"`
	Scores []ScoreEvent `json:"scores,omitempty"`
}

// ScoreEvent is one score change in a stream frame
type ScoreEvent struct {
	GameID    string `json:"gameId"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
}

// ScoreStream maintains a WebSocket connection to the provider's live
// score feed and fans updates out to registered handlers.
type ScoreStream struct {
	streamURL       string
	apiKey          string
	reconnectConfig ReconnectConfig
	logger          logrus.FieldLogger

	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []ScoreHandler
	lastMessageTime time.Time
}

// NewScoreStream creates a score stream client
func NewScoreStream(streamURL, apiKey string, logger logrus.FieldLogger) *ScoreStream {
	return &ScoreStream{
		streamURL:       streamURL,
		apiKey:          apiKey,
		reconnectConfig: DefaultReconnectConfig(),
		handlers:        make([]ScoreHandler, 0),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop
func (s *ScoreStream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to score stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to score stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// Subscribe authenticates and subscribes to score updates for the given sports
func (s *ScoreStream) Subscribe(sports []string) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected to score stream")
	}
	conn := s.conn
	s.mu.RUnlock()

	subMsg := map[string]interface{}{
		"op":     "subscribe",
		"apiKey": s.apiKey,
		"sports": sports,
	}

	s.logger.WithField("sports", sports).Info("Subscribing to score updates")
	return conn.WriteJSON(subMsg)
}

// AddHandler registers a score update handler
func (s *ScoreStream) AddHandler(handler ScoreHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads frames from the WebSocket connection
func (s *ScoreStream) readMessages() {
	defer s.Close()

	for {
		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn == nil {
			return
		}

		var raw json.RawMessage
		if err := conn.ReadJSON(&raw); err != nil {
			s.logger.WithError(err).Warn("Score stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		var msg streamMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.WithError(err).Warn("Discarding malformed stream frame")
			continue
		}

		if msg.Op != "score" {
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, event := range msg.Scores {
			update := ScoreUpdate{
				ExternalID: event.GameID,
				HomeScore:  event.HomeScore,
				AwayScore:  event.AwayScore,
				Final:      eventStatus(event.Status) == models.EventStatusFinal,
			}
			for _, handler := range handlers {
				if err := handler(update); err != nil {
					s.logger.WithField("game_id", event.GameID).WithError(err).Warn("Score handler failed")
				}
			}
		}
	}
}

// ConnectWithRetry connects with exponential backoff
func (s *ScoreStream) ConnectWithRetry(ctx context.Context) error {
	backoff := s.reconnectConfig.InitialBackoff

	var lastErr error
	for attempt := 0; attempt < s.reconnectConfig.MaxRetries; attempt++ {
		if err := s.Connect(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		s.logger.WithField("attempt", attempt+1).WithError(lastErr).Warn("Score stream connect failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	return fmt.Errorf("score stream connect failed after %d attempts: %w", s.reconnectConfig.MaxRetries, lastErr)
}

// IsConnected returns whether the stream is connected
func (s *ScoreStream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received frame
func (s *ScoreStream) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close tears down the connection
func (s *ScoreStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		s.isConnected = false
		return err
	}

	s.isConnected = false
	return nil
}
