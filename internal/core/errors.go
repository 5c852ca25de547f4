package core

import "fmt"

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Key     string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StoreError represents a rule-store operation error.
type StoreError struct {
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %s", e.Operation, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
