package provider

import (
	"context"
	"sync"
	"time"
)

// Compile-time check that MockProvider implements Provider.
var _ Provider = (*MockProvider)(nil)

// MockProvider is a configurable mock implementation of Provider for testing.
// It records all Generate calls and supports customizable behavior via
// builder methods and function fields.
type MockProvider struct {
	// ProviderName is the value returned by Name().
	ProviderName string

	// GenerateFunc is an optional custom function called by Generate. If
	// nil, Generate returns a default success result with "mock output".
	GenerateFunc func(ctx context.Context, req Request) (*Result, error)

	// PrereqError is the error returned by CheckPrerequisites. A nil value
	// means prerequisites are satisfied.
	PrereqError error

	mu sync.Mutex

	// calls records every Request passed to Generate. The orchestrator
	// invokes Generate from multiple goroutines, so access goes through
	// Requests and CallCount.
	calls []Request
}

// NewMockProvider creates a MockProvider with the given name and default
// behavior: Generate returns "mock output" and CheckPrerequisites succeeds.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{ProviderName: name}
}

// Name returns the provider's identifier.
func (m *MockProvider) Name() string {
	return m.ProviderName
}

// Generate records the call and delegates to GenerateFunc if set, otherwise
// returns a default success result.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Result{
		Text:     "mock output",
		Duration: 50 * time.Millisecond,
	}, nil
}

// Requests returns a copy of every Request passed to Generate so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Generate has been called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CheckPrerequisites returns PrereqError, which is nil by default (success).
func (m *MockProvider) CheckPrerequisites() error {
	return m.PrereqError
}

// WithGenerateFunc sets a custom Generate function on the MockProvider and
// returns the receiver for method chaining.
func (m *MockProvider) WithGenerateFunc(fn func(ctx context.Context, req Request) (*Result, error)) *MockProvider {
	m.GenerateFunc = fn
	return m
}

// WithResponse configures the mock to always return the given text.
// Returns the receiver for method chaining.
func (m *MockProvider) WithResponse(text string) *MockProvider {
	m.GenerateFunc = func(ctx context.Context, req Request) (*Result, error) {
		return &Result{Text: text, Duration: 10 * time.Millisecond}, nil
	}
	return m
}

// WithError configures the mock to always fail with err.
// Returns the receiver for method chaining.
func (m *MockProvider) WithError(err error) *MockProvider {
	m.GenerateFunc = func(ctx context.Context, req Request) (*Result, error) {
		return nil, err
	}
	return m
}

// WithDelay configures the mock to wait for d (or until the context is
// cancelled) before returning text. Used to simulate slow backends in
// timeout tests. Returns the receiver for method chaining.
func (m *MockProvider) WithDelay(d time.Duration, text string) *MockProvider {
	m.GenerateFunc = func(ctx context.Context, req Request) (*Result, error) {
		select {
		case <-time.After(d):
			return &Result{Text: text, Duration: d}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m
}
