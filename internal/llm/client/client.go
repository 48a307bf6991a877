package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"notegpt/internal/config"
)

// DefaultInstruction is used when the caller submits an empty instruction.
const DefaultInstruction = "Refactor the following text."

// ErrMissingAPIKey is returned before any network I/O when the loaded
// configuration carries no API key.
var ErrMissingAPIKey = errors.New("missing apiKey in config.json")

// APIError is a non-success HTTP response from the completion endpoint.
// Body is best-effort: a failed body read leaves it empty.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	detail := e.Body
	if detail == "" {
		detail = e.Status
	}
	return fmt.Sprintf("API %d: %s", e.StatusCode, detail)
}

// Doer is the injected HTTP transport. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	doer Doer
}

// New returns a completion client over doer. A nil doer falls back to
// http.DefaultClient.
func New(doer Doer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{doer: doer}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete issues exactly one chat-completion request and returns the
// trimmed assistant text. No retry, no timeout, no streaming; ctx is
// plumbed through for cooperative cancellation only.
func (c *Client) Complete(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
	if cfg.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	if instruction == "" {
		instruction = DefaultInstruction
	}

	body := completionRequest{
		Model:       cfg.ResolvedModel(),
		Temperature: cfg.ResolvedTemperature(),
		MaxTokens:   cfg.ResolvedMaxTokens(),
		Messages: []message{
			{Role: "system", Content: cfg.ResolvedSystem()},
			{Role: "user", Content: instruction},
			{Role: "user", Content: "\n\n" + content},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	for k, v := range cfg.ExtraHeaders {
		req.Header.Set(k, v)
	}

	res, err := c.doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode, Status: res.Status}
		if data, readErr := io.ReadAll(res.Body); readErr == nil {
			apiErr.Body = string(data)
		}
		return "", apiErr
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
