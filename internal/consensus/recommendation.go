// Package consensus turns the full per-slot signal set for one snapshot into
// a single recommendation.
//
// The engine is a pure function of its inputs: the same signal list in the
// same order against the same snapshot always yields the same recommendation.
// It is fully synchronous and never blocks; by the time it runs, every slot
// has already produced its signal.
package consensus

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Action is the closed set of concrete recommendations the engine can make.
type Action string

const (
	// ActionReplaceConstruction recommends swapping a persisted
	// object-construction strategy for an in-memory one, named in From/To.
	ActionReplaceConstruction Action = "replace_construction_strategy"

	// ActionAvoidPersistence recommends removing unneeded persistence setup
	// when no single construction-strategy swap can be named.
	ActionAvoidPersistence Action = "avoid_persistence"

	// ActionReduceScope recommends moving work out of the persistence layer
	// so the example matches its declared unit boundary.
	ActionReduceScope Action = "reduce_scope"

	// ActionReviewIntent asks a human to settle what the example is really
	// testing; emitted when the signals disagree on persistence intent.
	ActionReviewIntent Action = "review_intent"

	// ActionAssessRisk asks a human to weigh the flagged risk factors before
	// optimizing.
	ActionAssessRisk Action = "assess_risk_factors"

	// ActionNone is the explicit "leave it alone" recommendation.
	ActionNone Action = "no_action"
)

// actions is the validity set for Action.
var actions = map[Action]bool{
	ActionReplaceConstruction: true,
	ActionAvoidPersistence:    true,
	ActionReduceScope:         true,
	ActionReviewIntent:        true,
	ActionAssessRisk:          true,
	ActionNone:                true,
}

// Reason names why the engine landed on its action.
type Reason string

const (
	// ReasonConsensus means enough signals agreed to recommend concretely.
	ReasonConsensus Reason = "consensus"

	// ReasonHighRisk means risk factors blocked any optimization.
	ReasonHighRisk Reason = "high_risk"

	// ReasonConflict means the signals disagree and only a soft suggestion
	// is safe.
	ReasonConflict Reason = "conflicting_signals"

	// ReasonUnclear means the signals carried no actionable consensus.
	ReasonUnclear Reason = "unclear_signals"

	// ReasonNoSignals means no valid signal reached the engine.
	ReasonNoSignals Reason = "no_signals"

	// ReasonInternalFailure marks a degraded recommendation produced after
	// an internal error.
	ReasonInternalFailure Reason = "internal_failure"
)

// Recommendation is the engine's single, immutable output for one run.
type Recommendation struct {
	// Action is the recommended action, always inside the closed set.
	Action Action `json:"action"`

	// From and To name the concrete construction-strategy swap for
	// ActionReplaceConstruction. Both are empty for every other action.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Confidence is the engine's confidence in the action after risk
	// downgrading.
	Confidence signal.Confidence `json:"confidence"`

	// Reason names the decision branch taken.
	Reason Reason `json:"reason"`

	// Explanation is the ordered, human-readable account of the decision.
	// Non-empty always: when no signals were evaluated it holds exactly one
	// line saying so.
	Explanation []string `json:"explanation"`

	// Signals are the contributing signals, the ones that drove the chosen
	// branch.
	Signals []*signal.Signal `json:"contributing_signals,omitempty"`

	// RiskFactors are the detected risk factors, severe first.
	RiskFactors []RiskFactor `json:"risk_factors,omitempty"`

	// Conflicts are the detected disagreements between signals.
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Validate checks the recommendation's structural invariants.
func (r *Recommendation) Validate() error {
	if r == nil {
		return fmt.Errorf("consensus: nil recommendation")
	}
	if !actions[r.Action] {
		return fmt.Errorf("consensus: unknown action %q", r.Action)
	}
	if !signal.KnownConfidence(r.Confidence) {
		return fmt.Errorf("consensus: unknown confidence %q", r.Confidence)
	}
	if r.Action == ActionNone && (r.From != "" || r.To != "") {
		return fmt.Errorf("consensus: no_action must not carry a from/to pair")
	}
	if r.Action != ActionReplaceConstruction && (r.From != "" || r.To != "") {
		return fmt.Errorf("consensus: %s must not carry a from/to pair", r.Action)
	}
	if len(r.Explanation) == 0 {
		return fmt.Errorf("consensus: explanation must not be empty")
	}
	return nil
}
