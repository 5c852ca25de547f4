package llm

import "fmt"

// LLMError represents an error from the completion client.
type LLMError struct {
	// Type categorizes the error
	Type string

	// Message is a human-readable error message
	Message string

	// Code is the HTTP status code (if applicable)
	Code int

	// Err is the underlying error
	Err error
}

// Error types.
const (
	ErrorTypeNetwork = "network"
	ErrorTypeAuth    = "auth"
	ErrorTypeQuota   = "quota"
	ErrorTypeAPI     = "api"
	ErrorTypeSchema  = "schema"
	ErrorTypeEmpty   = "empty"
)

// Error implements the error interface.
func (e *LLMError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("LLM %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("LLM %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the failure class may be retried with an
// adjusted prompt. A transport-reported schema violation and an empty
// completion qualify; auth, quota and network failures are terminal.
func (e *LLMError) Recoverable() bool {
	return e.Type == ErrorTypeSchema || e.Type == ErrorTypeEmpty
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *LLMError {
	return &LLMError{
		Type:    ErrorTypeNetwork,
		Message: "failed to reach the completion endpoint",
		Err:     err,
	}
}

// NewAPIError creates an error from a non-200 response, classified by status.
func NewAPIError(code int, message string) *LLMError {
	errType := ErrorTypeAPI
	switch code {
	case 401, 403:
		errType = ErrorTypeAuth
	case 402, 429:
		errType = ErrorTypeQuota
	}
	return &LLMError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// NewSchemaError creates a transport-reported schema-compliance error.
func NewSchemaError(message string) *LLMError {
	return &LLMError{
		Type:    ErrorTypeSchema,
		Message: message,
	}
}

// NewEmptyResponseError creates an error for a response with no usable text.
func NewEmptyResponseError() *LLMError {
	return &LLMError{
		Type:    ErrorTypeEmpty,
		Message: "response contains no usable text",
	}
}
