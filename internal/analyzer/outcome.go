package analyzer

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Phase names the stages of one slot's execution.
type Phase string

const (
	// PhasePending is the initial state before any attempt.
	PhasePending Phase = "pending"

	// PhaseGenerative means a generative attempt is in flight.
	PhaseGenerative Phase = "generative_attempt"

	// PhaseFallback means the heuristic implementation is running, either as
	// a fallback after a failed generative attempt or as the primary path.
	PhaseFallback Phase = "fallback_attempt"

	// PhaseFinal is the terminal state; exactly one signal exists.
	PhaseFinal Phase = "final"
)

// StepStatus is the result of one attempt.
type StepStatus string

const (
	StatusSuccess StepStatus = "success"
	StatusTimeout StepStatus = "timeout"
	StatusError   StepStatus = "error"
	StatusFailure StepStatus = "failure"
)

// Transition records one completed attempt.
type Transition struct {
	Phase  Phase
	Status StepStatus
	Err    error
}

// Outcome is the per-slot execution record: an explicit state machine
//
//	pending → generative_attempt → {success | timeout | error}
//	        → [fallback_attempt → {success | failure}] → final
//
// replacing the nested-exception-handler-and-boolean shape this logic tends
// to accrete. Illegal transitions return errors so each step is
// independently testable.
type Outcome struct {
	// Slot is the analysis domain this outcome belongs to.
	Slot signal.Slot

	// Transitions is the ordered list of completed attempts.
	Transitions []Transition

	phase Phase
}

// newOutcome creates a pending outcome for a slot.
func newOutcome(slot signal.Slot) *Outcome {
	return &Outcome{Slot: slot, phase: PhasePending}
}

// Phase returns the current phase.
func (o *Outcome) Phase() Phase { return o.phase }

// BeginGenerative moves pending → generative_attempt.
func (o *Outcome) BeginGenerative() error {
	if o.phase != PhasePending {
		return o.illegal("BeginGenerative")
	}
	o.phase = PhaseGenerative
	return nil
}

// EndGenerative records the generative attempt's result. Success is
// terminal-ready; timeout and error leave the outcome eligible for fallback.
func (o *Outcome) EndGenerative(status StepStatus, err error) error {
	if o.phase != PhaseGenerative {
		return o.illegal("EndGenerative")
	}
	if status == StatusFailure {
		return fmt.Errorf("analyzer: %s: generative attempts end in success, timeout, or error, not %q", o.Slot, status)
	}
	o.Transitions = append(o.Transitions, Transition{Phase: PhaseGenerative, Status: status, Err: err})
	if status == StatusSuccess {
		o.phase = PhaseFinal
	} else {
		o.phase = PhasePending
	}
	return nil
}

// BeginFallback moves into the heuristic attempt. It is legal from pending:
// either no generative implementation was configured (heuristic-primary) or
// the generative attempt just failed (true fallback).
func (o *Outcome) BeginFallback() error {
	if o.phase != PhasePending {
		return o.illegal("BeginFallback")
	}
	o.phase = PhaseFallback
	return nil
}

// EndFallback records the heuristic attempt's result and finalizes. Both
// success and failure are terminal: a failed heuristic yields the synthetic
// failed signal, never another attempt.
func (o *Outcome) EndFallback(status StepStatus, err error) error {
	if o.phase != PhaseFallback {
		return o.illegal("EndFallback")
	}
	if status != StatusSuccess && status != StatusFailure {
		return fmt.Errorf("analyzer: %s: fallback attempts end in success or failure, not %q", o.Slot, status)
	}
	o.Transitions = append(o.Transitions, Transition{Phase: PhaseFallback, Status: status, Err: err})
	o.phase = PhaseFinal
	return nil
}

// GenerativeAttempted reports whether a generative attempt was recorded.
func (o *Outcome) GenerativeAttempted() bool {
	for _, t := range o.Transitions {
		if t.Phase == PhaseGenerative {
			return true
		}
	}
	return false
}

// FellBack reports whether the heuristic ran after a failed generative
// attempt.
func (o *Outcome) FellBack() bool {
	sawFailedGenerative := false
	for _, t := range o.Transitions {
		switch t.Phase {
		case PhaseGenerative:
			if t.Status != StatusSuccess {
				sawFailedGenerative = true
			}
		case PhaseFallback:
			if sawFailedGenerative {
				return true
			}
		}
	}
	return false
}

// Failed reports whether the slot ended with no usable implementation: the
// last transition is a fallback failure.
func (o *Outcome) Failed() bool {
	if len(o.Transitions) == 0 {
		return false
	}
	last := o.Transitions[len(o.Transitions)-1]
	return last.Phase == PhaseFallback && last.Status == StatusFailure
}

// Mode returns the execution mode of the signal this outcome produced.
func (o *Outcome) Mode() string {
	if len(o.Transitions) == 0 {
		return ""
	}
	last := o.Transitions[len(o.Transitions)-1]
	if last.Phase == PhaseGenerative && last.Status == StatusSuccess {
		return signal.ModeGenerative
	}
	return signal.ModeHeuristic
}

func (o *Outcome) illegal(op string) error {
	return fmt.Errorf("analyzer: %s: %s is illegal in phase %q", o.Slot, op, o.phase)
}
