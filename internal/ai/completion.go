package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spec-kit/helpdesk/internal/config"
)

// ChatMessage is one role/content pair sent to the completion backend.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextCompletion abstracts the underlying model call so the responder
// can be tested with a deterministic substitute.
type TextCompletion interface {
	Complete(ctx context.Context, system string, messages []ChatMessage, opts CompletionOptions) (string, error)
}

// CompletionOptions tune a single completion call.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// OllamaClient calls the Ollama chat API. Compatible with any server
// implementing the /api/chat wire format.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient builds a client with the configured timeout. The
// call is attempted once; retry policy belongs to the caller.
func NewOllamaClient(cfg config.AIConfig) *OllamaClient {
	return &OllamaClient{
		baseURL:    cfg.OllamaURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Message ChatMessage `json:"message"`
}

// Complete sends a non-streaming chat request and returns the reply text.
func (c *OllamaClient) Complete(ctx context.Context, system string, messages []ChatMessage, opts CompletionOptions) (string, error) {
	full := make([]ChatMessage, 0, len(messages)+1)
	if system != "" {
		full = append(full, ChatMessage{Role: "system", Content: system})
	}
	full = append(full, messages...)

	if opts.Temperature == 0 {
		opts.Temperature = 0.7
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 1024
	}

	payload, err := json.Marshal(ollamaRequest{
		Model:    c.model,
		Messages: full,
		Stream:   false,
		Options:  ollamaOptions{Temperature: opts.Temperature, NumPredict: opts.MaxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("ollama: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, body)
	}

	var decoded ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	return decoded.Message.Content, nil
}
