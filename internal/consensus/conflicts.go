package consensus

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// ConflictKind names a class of disagreement between signals.
type ConflictKind string

const (
	// ConflictPersistenceIntent means the signals disagree on whether the
	// example needs its persisted data at all.
	ConflictPersistenceIntent ConflictKind = "persistence_intent"

	// ConflictOptimizationVsRisk means a high-confidence optimization signal
	// co-occurs with a severe risk finding.
	ConflictOptimizationVsRisk ConflictKind = "optimization_vs_risk"

	// ConflictExclusiveActions means two mutually exclusive canonical
	// actions both drew optimization-leaning votes.
	ConflictExclusiveActions ConflictKind = "exclusive_actions"

	// ConflictSourceDisagreement means the high-confidence generative and
	// heuristic subsets back different canonical actions.
	ConflictSourceDisagreement ConflictKind = "source_disagreement"
)

// Conflict is one detected disagreement, tied to the signals involved.
type Conflict struct {
	Kind        ConflictKind  `json:"kind"`
	Description string        `json:"description"`
	Slots       []signal.Slot `json:"slots"`
}

// exclusivePairs lists canonical-action pairs that cannot both be right:
// replacing the construction strategy keeps the example where it is, while
// reducing scope moves it.
var exclusivePairs = [][2]CanonicalAction{
	{CanonicalOptimizeConstruction, CanonicalReduceScope},
}

// detectConflicts runs all conflict checks over the classified signal set.
// tallies is the weighted-vote result; factors the detected risk factors.
func detectConflicts(signals []*signal.Signal, tallies []*tally, factors []RiskFactor) []Conflict {
	var out []Conflict

	if c, ok := persistenceIntentConflict(signals); ok {
		out = append(out, c)
	}
	if c, ok := optimizationVsRiskConflict(signals, factors); ok {
		out = append(out, c)
	}
	out = append(out, exclusiveActionConflicts(tallies)...)
	if c, ok := sourceDisagreementConflict(signals); ok {
		out = append(out, c)
	}
	return out
}

// persistenceIntentConflict fires when one signal says persisted data is
// never used and another says the example depends on it.
func persistenceIntentConflict(signals []*signal.Signal) (Conflict, bool) {
	var unused, required *signal.Signal
	for _, sig := range signals {
		switch sig.Verdict {
		case signal.VerdictPersistenceUnused, signal.VerdictPersistencePartial:
			if unused == nil {
				unused = sig
			}
		case signal.VerdictPersistenceRequired:
			if required == nil {
				required = sig
			}
		}
	}
	if unused == nil || required == nil {
		return Conflict{}, false
	}
	return Conflict{
		Kind: ConflictPersistenceIntent,
		Description: fmt.Sprintf("%s says persisted data goes unused while %s says the example depends on it",
			unused.Slot, required.Slot),
		Slots: []signal.Slot{unused.Slot, required.Slot},
	}, true
}

// optimizationVsRiskConflict fires when a high-confidence optimization
// signal co-occurs with a severe risk factor.
func optimizationVsRiskConflict(signals []*signal.Signal, factors []RiskFactor) (Conflict, bool) {
	var opt *signal.Signal
	for _, sig := range signals {
		if Classify(sig) == CategoryOptimization && sig.Confidence == signal.ConfidenceHigh {
			opt = sig
			break
		}
	}
	if opt == nil {
		return Conflict{}, false
	}
	for _, f := range factors {
		if f.Severity == SeveritySevere {
			return Conflict{
				Kind: ConflictOptimizationVsRisk,
				Description: fmt.Sprintf("%s confidently argues for optimization but %s flags a severe risk",
					opt.Slot, f.Slot),
				Slots: []signal.Slot{opt.Slot, f.Slot},
			}, true
		}
	}
	return Conflict{}, false
}

// exclusiveActionConflicts fires once per exclusive pair with votes on both
// sides.
func exclusiveActionConflicts(tallies []*tally) []Conflict {
	present := make(map[CanonicalAction]*tally, len(tallies))
	for _, t := range tallies {
		present[t.action] = t
	}

	var out []Conflict
	for _, pair := range exclusivePairs {
		a, b := present[pair[0]], present[pair[1]]
		if a == nil || b == nil {
			continue
		}
		slots := make([]signal.Slot, 0, len(a.signals)+len(b.signals))
		for _, sig := range a.signals {
			slots = append(slots, sig.Slot)
		}
		for _, sig := range b.signals {
			slots = append(slots, sig.Slot)
		}
		out = append(out, Conflict{
			Kind:        ConflictExclusiveActions,
			Description: fmt.Sprintf("signals back both %s and %s, which are mutually exclusive", pair[0], pair[1]),
			Slots:       slots,
		})
	}
	return out
}

// sourceDisagreementConflict fires when the high-confidence generative and
// heuristic subsets back different canonical actions.
func sourceDisagreementConflict(signals []*signal.Signal) (Conflict, bool) {
	var generative, heuristic *signal.Signal
	for _, sig := range signals {
		if Classify(sig) != CategoryOptimization || sig.Confidence != signal.ConfidenceHigh {
			continue
		}
		if sig.IsGenerative() {
			if generative == nil {
				generative = sig
			}
		} else if heuristic == nil {
			heuristic = sig
		}
	}
	if generative == nil || heuristic == nil {
		return Conflict{}, false
	}
	if Canonical(generative.Verdict) == Canonical(heuristic.Verdict) {
		return Conflict{}, false
	}
	return Conflict{
		Kind: ConflictSourceDisagreement,
		Description: fmt.Sprintf("generative analysis backs %s while heuristic analysis backs %s",
			Canonical(generative.Verdict), Canonical(heuristic.Verdict)),
		Slots: []signal.Slot{generative.Slot, heuristic.Slot},
	}, true
}
