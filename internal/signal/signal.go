// Package signal defines the structured opinion emitted by one analyzer slot.
//
// Each slot has a closed verdict vocabulary declared statically here; a
// signal whose verdict falls outside its slot's vocabulary is invalid and is
// dropped before it can influence the consensus engine. Signals are created
// once per slot per run and are never mutated afterwards.
package signal

import (
	"fmt"
	"strconv"
)

// Slot identifies an analysis domain.
type Slot string

const (
	// SlotConstruction analyzes object-construction strategy usage.
	SlotConstruction Slot = "construction"

	// SlotPersistence analyzes persistence-layer activity.
	SlotPersistence Slot = "persistence"

	// SlotBoundary classifies the example's unit/integration boundary.
	SlotBoundary Slot = "boundary"

	// SlotSafety detects risk factors that make optimization unsafe.
	SlotSafety Slot = "safety"
)

// Confidence is one of exactly three ordinal levels.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// validConfidences is the set of all known Confidence values.
var validConfidences = map[Confidence]bool{
	ConfidenceHigh:   true,
	ConfidenceMedium: true,
	ConfidenceLow:    true,
}

// Verdict is a slot-specific analysis outcome.
type Verdict string

// Verdicts, grouped by slot. VerdictFailed is shared: every slot emits it
// when both its implementations failed.
const (
	VerdictConstructionInefficient Verdict = "construction-inefficient"
	VerdictConstructionAppropriate Verdict = "construction-appropriate"
	VerdictConstructionUnclear     Verdict = "construction-unclear"

	VerdictPersistenceUnused   Verdict = "persistence-unused"
	VerdictPersistencePartial  Verdict = "persistence-partial"
	VerdictPersistenceRequired Verdict = "persistence-required"

	VerdictBoundaryUnit        Verdict = "boundary-unit"
	VerdictBoundaryIntegration Verdict = "boundary-integration"
	VerdictBoundaryUnclear     Verdict = "boundary-unclear"

	VerdictCallbackRisk Verdict = "callback-risk"
	VerdictMutationRisk Verdict = "mutation-risk"
	VerdictLowRisk      Verdict = "low-risk"

	VerdictFailed Verdict = "failed"
)

// vocabularies declares the closed verdict vocabulary per slot.
var vocabularies = map[Slot][]Verdict{
	SlotConstruction: {
		VerdictConstructionInefficient,
		VerdictConstructionAppropriate,
		VerdictConstructionUnclear,
		VerdictFailed,
	},
	SlotPersistence: {
		VerdictPersistenceUnused,
		VerdictPersistencePartial,
		VerdictPersistenceRequired,
		VerdictFailed,
	},
	SlotBoundary: {
		VerdictBoundaryUnit,
		VerdictBoundaryIntegration,
		VerdictBoundaryUnclear,
		VerdictFailed,
	},
	SlotSafety: {
		VerdictCallbackRisk,
		VerdictMutationRisk,
		VerdictLowRisk,
		VerdictFailed,
	},
}

// Slots returns all known slots in their canonical order.
func Slots() []Slot {
	return []Slot{SlotConstruction, SlotPersistence, SlotBoundary, SlotSafety}
}

// Vocabulary returns the closed verdict vocabulary for a slot, or nil for an
// unknown slot.
func Vocabulary(slot Slot) []Verdict {
	vocab := vocabularies[slot]
	out := make([]Verdict, len(vocab))
	copy(out, vocab)
	return out
}

// KnownConfidence reports whether c is one of the three ordinal levels.
func KnownConfidence(c Confidence) bool {
	return validConfidences[c]
}

// KnownSlot reports whether slot is one of the declared analysis domains.
func KnownSlot(slot Slot) bool {
	_, ok := vocabularies[slot]
	return ok
}

// InVocabulary reports whether verdict belongs to slot's declared vocabulary.
func InVocabulary(slot Slot, verdict Verdict) bool {
	for _, v := range vocabularies[slot] {
		if v == verdict {
			return true
		}
	}
	return false
}

// Metadata keys written by the execution orchestrator.
const (
	// MetaExecutionMode records which implementation produced the signal:
	// "generative" or "heuristic".
	MetaExecutionMode = "execution_mode"

	// MetaFallback is "true" when the heuristic ran because the generative
	// attempt failed.
	MetaFallback = "fallback"

	// MetaRiskScore is an optional numeric risk score in [0, 1].
	MetaRiskScore = "risk_score"

	// MetaRiskFactors is an optional list of named risk factors.
	MetaRiskFactors = "risk_factors"
)

// Execution modes recorded under MetaExecutionMode.
const (
	ModeGenerative = "generative"
	ModeHeuristic  = "heuristic"
)

// Signal is one analyzer slot's structured output for a single run.
type Signal struct {
	Slot       Slot           `json:"slot"`
	Verdict    Verdict        `json:"verdict"`
	Confidence Confidence     `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// New constructs a validated Signal. The verdict must belong to the slot's
// declared vocabulary and the confidence must be one of the three ordinal
// levels; anything else is rejected rather than coerced to a default.
func New(slot Slot, verdict Verdict, confidence Confidence, reasoning string) (*Signal, error) {
	s := &Signal{
		Slot:       slot,
		Verdict:    verdict,
		Confidence: confidence,
		Reasoning:  reasoning,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the structural invariants. It is called at construction and
// again by the consensus engine before a signal is admitted into the decision
// logic.
func (s *Signal) Validate() error {
	if s == nil {
		return fmt.Errorf("signal: nil signal")
	}
	if !KnownSlot(s.Slot) {
		return fmt.Errorf("signal: unknown slot %q", s.Slot)
	}
	if s.Verdict == "" {
		return fmt.Errorf("signal: %s: missing verdict", s.Slot)
	}
	if !InVocabulary(s.Slot, s.Verdict) {
		return fmt.Errorf("signal: %s: verdict %q not in slot vocabulary", s.Slot, s.Verdict)
	}
	if !validConfidences[s.Confidence] {
		return fmt.Errorf("signal: %s: invalid confidence %q (want high, medium, or low)", s.Slot, s.Confidence)
	}
	return nil
}

// WithMeta returns the receiver after setting a metadata key. The map is
// created lazily. Intended for use during signal assembly only; signals are
// immutable once they leave the orchestrator.
func (s *Signal) WithMeta(key string, value any) *Signal {
	if s.Metadata == nil {
		s.Metadata = make(map[string]any)
	}
	s.Metadata[key] = value
	return s
}

// ExecutionMode returns the recorded execution mode, or "" when untagged.
func (s *Signal) ExecutionMode() string {
	mode, _ := s.Metadata[MetaExecutionMode].(string)
	return mode
}

// IsGenerative reports whether the signal came from a generative analyzer.
func (s *Signal) IsGenerative() bool {
	return s.ExecutionMode() == ModeGenerative
}

// IsFallback reports whether the signal was produced by the heuristic after a
// failed generative attempt.
func (s *Signal) IsFallback() bool {
	switch v := s.Metadata[MetaFallback].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// RiskScore returns the numeric risk score metadata when present. JSON
// decoding yields float64; collectors occasionally encode the score as a
// string, which is tolerated.
func (s *Signal) RiskScore() (float64, bool) {
	switch v := s.Metadata[MetaRiskScore].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// RiskFactors returns the named risk factors metadata when present.
func (s *Signal) RiskFactors() []string {
	switch v := s.Metadata[MetaRiskFactors].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// String returns a compact single-line rendering for logs.
func (s *Signal) String() string {
	return fmt.Sprintf("%s/%s (%s)", s.Slot, s.Verdict, s.Confidence)
}
