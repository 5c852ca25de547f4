package core

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	HTTPAddr     string `yaml:"http_addr"`
	DatabasePath string `yaml:"database_path"`

	OpenAIAPIKey           string        `yaml:"-"` // secrets come from the environment only
	OpenAIBaseURL          string        `yaml:"openai_base_url"`
	OpenAIModel            string        `yaml:"openai_model"`
	OpenAITemperature      float64       `yaml:"openai_temperature"`
	OpenAIMaxOutputTokens  int           `yaml:"openai_max_output_tokens"`
	OpenAITimeout          time.Duration `yaml:"openai_timeout"`
	SupportsResponseFormat bool          `yaml:"openai_supports_response_format"`
}

// LoadConfig loads configuration from an optional YAML file (REGLAGEN_CONFIG)
// overridden by environment variables. The API key is validated when LLM
// operations are attempted, not here.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel:               "info",
		HTTPAddr:               ":8080",
		DatabasePath:           "reglagen.db",
		OpenAIModel:            "gpt-4.1-mini",
		OpenAITimeout:          60 * time.Second,
		SupportsResponseFormat: true,
	}

	if path := os.Getenv("REGLAGEN_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Key: "REGLAGEN_CONFIG", Message: "invalid YAML", Err: err}
		}
	}

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	if os.Getenv("DEBUG") == "1" {
		cfg.LogLevel = "debug"
	}

	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", cfg.DatabasePath)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = getEnvOrDefault("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = getEnvOrDefault("OPENAI_MODEL", cfg.OpenAIModel)

	if raw := os.Getenv("OPENAI_TEMPERATURE"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ConfigError{Key: "OPENAI_TEMPERATURE", Message: "must be a number", Err: err}
		}
		cfg.OpenAITemperature = value
	}

	if raw := os.Getenv("OPENAI_MAX_OUTPUT_TOKENS"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ConfigError{Key: "OPENAI_MAX_OUTPUT_TOKENS", Message: "must be an integer", Err: err}
		}
		if value < 0 {
			value = 0
		}
		cfg.OpenAIMaxOutputTokens = value
	}

	if raw := os.Getenv("OPENAI_SUPPORTS_RESPONSE_FORMAT"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &ConfigError{Key: "OPENAI_SUPPORTS_RESPONSE_FORMAT", Message: "must be a boolean", Err: err}
		}
		cfg.SupportsResponseFormat = value
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
