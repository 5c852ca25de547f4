// Package llm implements the completion transport: an OpenAI-compatible
// chat-completions client with optional strict json_schema enforcement.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Completer issues one completion request and returns the raw response text.
// Cleaning and decoding happen in the assistant core, not here.
type Completer interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
	SupportsResponseFormat() bool
}

// CompletionRequest is the ordered instruction bundle plus the user message.
type CompletionRequest struct {
	// System is the directive forcing JSON-only output.
	System string

	// Instructions are the ordered task-instruction segments.
	Instructions []string

	// Context carries grounding entries (recent-rule catalog), kept distinct
	// from the main instructions.
	Context []string

	// Message is the end-user payload.
	Message string

	// Schema, when non-nil and supported by the endpoint, is sent as a
	// strict json_schema response_format.
	Schema json.RawMessage
}

// Client is the completion client for an OpenAI-compatible endpoint.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new completion client.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// SupportsResponseFormat reports whether the endpoint accepts strict schemas.
func (c *Client) SupportsResponseFormat() bool {
	return c.config.SupportsResponseFormat
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMsg       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema responseFormatJS `json:"json_schema"`
}

type responseFormatJS struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// Complete issues a single chat-completions request and returns the raw text
// of the first choice. It never retries; the assistant core owns the retry
// protocol.
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	messages := make([]chatMsg, 0, 3+len(req.Instructions)+len(req.Context))
	if req.System != "" {
		messages = append(messages, chatMsg{Role: "system", Content: req.System})
	}
	for _, instruction := range req.Instructions {
		messages = append(messages, chatMsg{Role: "user", Content: instruction})
	}
	for _, entry := range req.Context {
		messages = append(messages, chatMsg{Role: "user", Content: entry})
	}
	messages = append(messages, chatMsg{Role: "user", Content: req.Message})

	temperature := c.config.Temperature
	body := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   c.config.MaxOutputTokens,
	}

	if len(req.Schema) > 0 && c.config.SupportsResponseFormat {
		body.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: responseFormatJS{
				Name:   "regla_de_campo",
				Strict: true,
				Schema: req.Schema,
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		slog.Error("completion request failed",
			"error", err.Error(),
			"duration", duration,
		)
		return "", NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	slog.Info("completion request finished",
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			return "", NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		if resp.StatusCode == http.StatusBadRequest && isSchemaViolation(errBody.String()) {
			return "", NewSchemaError(errBody.String())
		}
		return "", NewAPIError(resp.StatusCode, errBody.String())
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if chatResp.Error != nil {
		if isSchemaViolation(chatResp.Error.Message) || chatResp.Error.Type == "invalid_response_format" {
			return "", NewSchemaError(chatResp.Error.Message)
		}
		return "", NewAPIError(0, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", NewEmptyResponseError()
	}

	content := chatResp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", NewEmptyResponseError()
	}

	return content, nil
}

// isSchemaViolation sniffs transport error bodies for response_format /
// schema complaints so they can be classified as recoverable.
func isSchemaViolation(body string) bool {
	lowered := strings.ToLower(body)
	return strings.Contains(lowered, "response_format") ||
		strings.Contains(lowered, "json_schema") ||
		strings.Contains(lowered, "schema")
}
