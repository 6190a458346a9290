package ai

import (
	"context"
	"sync"
)

// MockDescriber is a test double for Describer.
// Each method can be overridden with a custom function.
// If not overridden, methods return sensible defaults.
// Thread-safe for use in concurrent tests.
type MockDescriber struct {
	GenerateDescriptionFunc  func(ctx context.Context, req Request) (*Result, error)
	GenerateDescriptionsFunc func(ctx context.Context, reqs []Request) []Outcome

	mu sync.Mutex

	// Calls tracks all method invocations for assertions
	Calls []MockCall
}

// MockCall records a method call for test assertions.
type MockCall struct {
	Method string
	Args   []any
}

// Ensure MockDescriber implements Describer
var _ Describer = (*MockDescriber)(nil)

func (m *MockDescriber) GenerateDescription(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GenerateDescription", Args: []any{req}})
	fn := m.GenerateDescriptionFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &Result{
		Description: "Mock description.",
		Model:       "mock-model",
		RequestID:   "mock-request-id",
	}, nil
}

func (m *MockDescriber) GenerateDescriptions(ctx context.Context, reqs []Request) []Outcome {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Method: "GenerateDescriptions", Args: []any{len(reqs)}})
	fn := m.GenerateDescriptionsFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, reqs)
	}
	outcomes := make([]Outcome, len(reqs))
	for i := range reqs {
		outcomes[i] = Outcome{Result: &Result{
			Description: "Mock description.",
			Model:       "mock-model",
			RequestID:   "mock-request-id",
		}}
	}
	return outcomes
}

// CallCount returns how many times the named method was invoked.
func (m *MockDescriber) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}
