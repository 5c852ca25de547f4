package llm

import (
	"fmt"
	"time"
)

// Config contains configuration for the completion client.
type Config struct {
	// APIKey authenticates against the OpenAI-compatible endpoint.
	APIKey string

	// BaseURL is the API base URL.
	// Default: https://api.openai.com/v1
	BaseURL string

	// Model is the completion model to use.
	// Example: gpt-4.1-mini
	Model string

	// Temperature for sampling. Zero is a valid value; use SetDefaults
	// semantics from the caller if another default is wanted.
	Temperature float64

	// MaxOutputTokens caps the completion length. Zero means no cap.
	MaxOutputTokens int

	// Timeout is the HTTP request timeout.
	// Default: 60 seconds
	Timeout time.Duration

	// SupportsResponseFormat reports whether the endpoint accepts a strict
	// json_schema response_format payload. When false the caller must inline
	// the schema as text instructions instead.
	SupportsResponseFormat bool
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("APIKey is required")
	}

	if c.Model == "" {
		return fmt.Errorf("Model is required")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}

	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}
