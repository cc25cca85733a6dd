// Package relay pushes replies to end users through the process that
// holds the actual messaging-platform connection.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Outbound delivers a single message to a messaging-platform user.
type Outbound interface {
	SendMessage(ctx context.Context, userID int64, text, ticketNumber string) error
}

// Client calls the relay's send-message webhook. Timeouts and transient
// failures are retried with linearly increasing backoff before the send
// is reported as a permanent failure.
type Client struct {
	url         string
	maxAttempts int
	backoffBase time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient builds the relay client.
func NewClient(cfg config.RelayConfig, logger *zap.Logger) *Client {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Client{
		url:         cfg.URL + "/webhook/send-message",
		maxAttempts: maxAttempts,
		backoffBase: cfg.BackoffBase(),
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		logger:      logger,
	}
}

type sendMessageRequest struct {
	TelegramUserID int64  `json:"telegramUserId"`
	Message        string `json:"message"`
	TicketNumber   string `json:"ticketNumber"`
}

// SendMessage posts to the relay webhook, retrying up to maxAttempts.
func (c *Client) SendMessage(ctx context.Context, userID int64, text, ticketNumber string) error {
	payload, err := json.Marshal(sendMessageRequest{
		TelegramUserID: userID,
		Message:        text,
		TicketNumber:   ticketNumber,
	})
	if err != nil {
		return fmt.Errorf("relay: encode payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		lastErr = c.post(ctx, payload)
		if lastErr == nil {
			c.logger.Info("message relayed to user",
				zap.Int64("user_id", userID),
				zap.String("ticket_number", ticketNumber))
			return nil
		}
		if attempt < c.maxAttempts {
			c.logger.Warn("relay attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.String("ticket_number", ticketNumber),
				zap.Error(lastErr))
			select {
			case <-time.After(c.backoffBase * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	c.logger.Error("failed to relay message",
		zap.Int("attempts", c.maxAttempts),
		zap.Int64("user_id", userID),
		zap.String("ticket_number", ticketNumber),
		zap.Error(lastErr))
	return lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("relay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("relay: status %d", resp.StatusCode)
	}
	return nil
}
