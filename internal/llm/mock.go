package llm

import "context"

// MockCompleter is a scripted Completer for testing. Each call consumes the
// next response (or error) in order; the last entry repeats once the script
// runs out.
type MockCompleter struct {
	Responses []string
	Errors    []error
	Strict    bool // value returned by SupportsResponseFormat

	// Requests records every request received, in order.
	Requests []*CompletionRequest
}

// Complete returns the next scripted response or error.
func (m *MockCompleter) Complete(_ context.Context, req *CompletionRequest) (string, error) {
	call := len(m.Requests)
	m.Requests = append(m.Requests, req)

	if len(m.Errors) > 0 {
		idx := call
		if idx >= len(m.Errors) {
			idx = len(m.Errors) - 1
		}
		if err := m.Errors[idx]; err != nil {
			return "", err
		}
	}

	if len(m.Responses) == 0 {
		return "", NewEmptyResponseError()
	}
	idx := call
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// SupportsResponseFormat reports the scripted strict-schema capability.
func (m *MockCompleter) SupportsResponseFormat() bool {
	return m.Strict
}

// CallCount returns how many completion calls were issued.
func (m *MockCompleter) CallCount() int {
	return len(m.Requests)
}
