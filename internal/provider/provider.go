// Package provider abstracts the external text-generation backends used by
// the generative analyzers. The orchestrator depends only on the Provider
// interface and never on a specific backend; a provider failure of any kind
// (timeout, transport error, rate limit, malformed output) is recovered by
// the heuristic fallback upstream.
package provider

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// providerNameRe validates provider names: alphanumeric characters and
// hyphens only.
var providerNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// ErrNotFound is returned by Registry.Get when no provider with the requested
// name has been registered.
var ErrNotFound = errors.New("provider not found")

// ErrDuplicateName is returned by Registry.Register when a provider with the
// same name is already present in the registry.
var ErrDuplicateName = errors.New("provider already registered")

// ErrInvalidName is returned by Registry.Register when the provider name is
// empty or contains invalid characters.
var ErrInvalidName = errors.New("invalid provider name")

// ErrRateLimited is returned by Generate when the backend reports a
// rate-limit condition. Callers treat it like any other provider failure.
var ErrRateLimited = errors.New("provider rate limited")

// Request specifies one generation call.
type Request struct {
	// Prompt is the user prompt describing the example under analysis.
	Prompt string

	// SystemPrompt frames the slot's analysis role. Optional.
	SystemPrompt string

	// Model overrides the provider's configured model. Optional.
	Model string
}

// Result captures the output of one generation call.
type Result struct {
	// Text is the raw response text; structured payload extraction happens
	// in the analyzer layer.
	Text string

	// Duration is the wall-clock time the call took.
	Duration time.Duration
}

// Provider is the capability the generative analyzers depend on.
type Provider interface {
	// Name returns the provider's identifier (e.g. "claude", "gemini").
	// The name must be lowercase and contain only alphanumeric characters
	// and hyphens.
	Name() string

	// Generate runs one prompt and returns the response text. The context
	// carries the per-call timeout; a provider is called at most once per
	// slot per run, so there is no retry behavior here.
	Generate(ctx context.Context, req Request) (*Result, error)

	// CheckPrerequisites verifies the backend is usable (e.g. the CLI tool
	// is installed). Returns an error describing what is missing.
	CheckPrerequisites() error
}

// Registry stores named provider instances for lookup.
// Providers are registered at startup and looked up by name at runtime.
// Registry is safe for concurrent reads after all registrations are complete.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry under its Name().
// Returns ErrInvalidName if the provider is nil or has an invalid name.
// Returns ErrDuplicateName if a provider with the same name already exists.
func (r *Registry) Register(p Provider) error {
	if p == nil {
		return fmt.Errorf("register provider: %w", ErrInvalidName)
	}
	name := p.Name()
	if name == "" || !providerNameRe.MatchString(name) {
		return fmt.Errorf("register provider %q: %w", name, ErrInvalidName)
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("register provider %q: %w", name, ErrDuplicateName)
	}
	r.providers[name] = p
	return nil
}

// Get returns the provider registered under the given name.
// Returns ErrNotFound if no provider with that name is registered.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("get provider %q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Has returns true if a provider with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

// List returns the names of all registered providers, sorted alphabetically.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
