package analyzer

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Safety heuristic thresholds.
const (
	// callbackRiskThreshold is the callback count at which optimizing the
	// example becomes risky: heavy callback traffic usually means the
	// persisted lifecycle is load-bearing.
	callbackRiskThreshold = 20

	// callbackHighConfidenceFactor scales callbackRiskThreshold for the
	// high-confidence variant of the verdict.
	callbackHighConfidenceFactor = 2

	// mutationRiskThreshold is the shared-state mutation count at which the
	// slot flags mutation risk.
	mutationRiskThreshold = 1

	// callbackScoreScale converts a callback count into a [0, 1] risk score.
	callbackScoreScale = 50.0
)

// SafetySlot detects risk factors that make an optimization unsafe to apply:
// callback-dependent behavior and shared-state mutation.
type SafetySlot struct{}

// Name returns the slot identifier.
func (s *SafetySlot) Name() signal.Slot { return signal.SlotSafety }

// Description returns the one-line summary for slot listings.
func (s *SafetySlot) Description() string {
	return "surfaces callback and mutation activity that makes optimization risky"
}

// Heuristic scores risk from lifecycle event counts and attaches risk_score
// and risk_factors metadata for the consensus engine.
func (s *SafetySlot) Heuristic(snap *profile.Snapshot, _ string) (*signal.Signal, error) {
	callbacks := snap.Events["callback"]
	mutations := snap.Events["mutation"]

	var factors []string
	if callbacks >= callbackRiskThreshold {
		factors = append(factors, fmt.Sprintf("%d lifecycle callbacks fired", callbacks))
	}
	if mutations >= mutationRiskThreshold {
		factors = append(factors, fmt.Sprintf("%d shared-state mutations observed", mutations))
	}

	score := float64(callbacks) / callbackScoreScale
	if score > 1 {
		score = 1
	}

	switch {
	case callbacks >= callbackRiskThreshold:
		confidence := signal.ConfidenceMedium
		if callbacks >= callbackRiskThreshold*callbackHighConfidenceFactor {
			confidence = signal.ConfidenceHigh
		}
		sig, err := signal.New(signal.SlotSafety, signal.VerdictCallbackRisk, confidence,
			fmt.Sprintf("%d callbacks fired during the example; replacing persisted construction would skip them", callbacks))
		if err != nil {
			return nil, err
		}
		return sig.WithMeta(signal.MetaRiskScore, score).WithMeta(signal.MetaRiskFactors, factors), nil

	case mutations >= mutationRiskThreshold:
		confidence := signal.ConfidenceMedium
		if mutations >= mutationRiskThreshold*2 {
			confidence = signal.ConfidenceHigh
		}
		sig, err := signal.New(signal.SlotSafety, signal.VerdictMutationRisk, confidence,
			fmt.Sprintf("%d shared-state mutations observed; the example's outcome may depend on persisted side effects", mutations))
		if err != nil {
			return nil, err
		}
		return sig.WithMeta(signal.MetaRiskScore, score).WithMeta(signal.MetaRiskFactors, factors), nil

	default:
		confidence := signal.ConfidenceHigh
		if callbacks > 0 {
			confidence = signal.ConfidenceMedium
		}
		sig, err := signal.New(signal.SlotSafety, signal.VerdictLowRisk, confidence,
			"no risky lifecycle activity was observed")
		if err != nil {
			return nil, err
		}
		return sig.WithMeta(signal.MetaRiskScore, score), nil
	}
}

// Prompt builds the generative prompt for the safety slot.
func (s *SafetySlot) Prompt(snap *profile.Snapshot, source string) string {
	return promptPreamble(snap) +
		promptSource(source) +
		"Judge whether optimizing this example (for instance replacing persisted construction with " +
		"in-memory objects) would be risky. Callback-dependent behavior and shared-state mutation are " +
		"the risk factors to weigh. You may add \"risk_score\" (0.0-1.0) and \"risk_factors\" " +
		"(list of strings) fields to the JSON object.\n" +
		promptInstructions(signal.SlotSafety)
}

// SystemPrompt frames the safety analyst role.
func (s *SafetySlot) SystemPrompt() string {
	return "You are a test-safety analyst. You assess whether optimizing a test example is safe, " +
		"from execution telemetry, strictly following the requested JSON contract."
}
