// Package analyzer runs the analysis slots against a profile snapshot.
//
// Each slot is a named analysis domain with two interchangeable
// implementations sharing one contract: a generative one backed by a text
// provider and a deterministic heuristic that doubles as the fallback. The
// Orchestrator fans the enabled slots out in parallel, enforces the per-call
// generative timeout, and guarantees one signal per enabled slot no matter
// what fails.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// ErrUnknownSlot is returned by Registry.Get for an unregistered slot name.
var ErrUnknownSlot = errors.New("unknown analyzer slot")

// Slot is one analysis domain. Implementations must be stateless: the same
// slot value is invoked concurrently for different snapshots.
type Slot interface {
	// Name returns the slot identifier; it must be one of the slots declared
	// in the signal package.
	Name() signal.Slot

	// Description is a one-line summary shown by `lightspec slots`.
	Description() string

	// Heuristic produces the deterministic signal for the snapshot. source
	// is the optional test source text and may be empty. An error means the
	// heuristic could not produce a verdict at all; the orchestrator then
	// synthesizes the terminal failed signal.
	Heuristic(snap *profile.Snapshot, source string) (*signal.Signal, error)

	// Prompt builds the generative user prompt for the snapshot.
	Prompt(snap *profile.Snapshot, source string) string

	// SystemPrompt frames the generative analysis role for this slot.
	SystemPrompt() string
}

// Registry stores slots in registration order. Order matters: it fixes the
// signal order handed to the consensus engine, which uses first-seen order as
// its last tie-break.
type Registry struct {
	order []signal.Slot
	slots map[signal.Slot]Slot
}

// NewRegistry creates an empty slot registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[signal.Slot]Slot)}
}

// DefaultRegistry returns a registry with all built-in slots registered in
// canonical order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range []Slot{
		&ConstructionSlot{},
		&PersistenceSlot{},
		&BoundarySlot{},
		&SafetySlot{},
	} {
		// Built-in slots have valid names; Register cannot fail here.
		_ = r.Register(s)
	}
	return r
}

// Register adds a slot. The slot's name must be declared in the signal
// package and not already registered.
func (r *Registry) Register(s Slot) error {
	if s == nil {
		return fmt.Errorf("analyzer: register: nil slot")
	}
	name := s.Name()
	if !signal.KnownSlot(name) {
		return fmt.Errorf("analyzer: register %q: %w", name, ErrUnknownSlot)
	}
	if _, exists := r.slots[name]; exists {
		return fmt.Errorf("analyzer: register %q: already registered", name)
	}
	r.order = append(r.order, name)
	r.slots[name] = s
	return nil
}

// Get returns the slot registered under name.
func (r *Registry) Get(name signal.Slot) (Slot, error) {
	s, ok := r.slots[name]
	if !ok {
		return nil, fmt.Errorf("analyzer: get %q: %w", name, ErrUnknownSlot)
	}
	return s, nil
}

// Names returns the registered slot names in registration order.
func (r *Registry) Names() []signal.Slot {
	out := make([]signal.Slot, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve returns the slots for the requested names, in request order. An
// empty request resolves to all registered slots in registration order.
func (r *Registry) Resolve(names []signal.Slot) ([]Slot, error) {
	if len(names) == 0 {
		names = r.order
	}
	out := make([]Slot, 0, len(names))
	for _, name := range names {
		s, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
