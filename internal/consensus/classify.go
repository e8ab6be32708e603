package consensus

import (
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Category buckets a signal by which way it leans.
type Category string

const (
	// CategoryOptimization marks signals arguing the example can be made
	// cheaper.
	CategoryOptimization Category = "optimization-leaning"

	// CategoryRisk marks signals arguing the example should be left alone.
	CategoryRisk Category = "risk-leaning"

	// CategoryUnclear marks signals that argue neither way.
	CategoryUnclear Category = "unclear"
)

// CanonicalAction is the normalized category used for cross-slot agreement
// counting. Several near-synonymous verdicts collapse onto one canonical
// action so that different slots can agree with each other.
type CanonicalAction string

const (
	// CanonicalOptimizeConstruction covers every verdict that points at
	// wasted persistence during object construction.
	CanonicalOptimizeConstruction CanonicalAction = "optimize-construction"

	// CanonicalReduceScope covers verdicts that point at an example
	// overreaching its declared unit boundary.
	CanonicalReduceScope CanonicalAction = "reduce-scope"
)

// categories is the static verdict classification table.
var categories = map[signal.Verdict]Category{
	signal.VerdictConstructionInefficient: CategoryOptimization,
	signal.VerdictPersistenceUnused:       CategoryOptimization,
	signal.VerdictPersistencePartial:      CategoryOptimization,
	signal.VerdictBoundaryUnit:            CategoryOptimization,

	signal.VerdictPersistenceRequired: CategoryRisk,
	signal.VerdictCallbackRisk:        CategoryRisk,
	signal.VerdictMutationRisk:        CategoryRisk,
	signal.VerdictBoundaryIntegration: CategoryRisk,

	signal.VerdictConstructionAppropriate: CategoryUnclear,
	signal.VerdictConstructionUnclear:     CategoryUnclear,
	signal.VerdictBoundaryUnclear:         CategoryUnclear,
	signal.VerdictLowRisk:                 CategoryUnclear,
	signal.VerdictFailed:                  CategoryUnclear,
}

// canonical maps optimization-leaning verdicts onto their canonical action.
var canonical = map[signal.Verdict]CanonicalAction{
	signal.VerdictConstructionInefficient: CanonicalOptimizeConstruction,
	signal.VerdictPersistenceUnused:       CanonicalOptimizeConstruction,
	signal.VerdictPersistencePartial:      CanonicalOptimizeConstruction,
	signal.VerdictBoundaryUnit:            CanonicalReduceScope,
}

// Classify buckets one signal. Verdicts absent from the table lean toward
// optimization when they carry at least medium confidence, otherwise they
// are unclear; custom slots thus default to being heard rather than ignored.
func Classify(sig *signal.Signal) Category {
	if cat, ok := categories[sig.Verdict]; ok {
		return cat
	}
	if sig.Confidence == signal.ConfidenceHigh || sig.Confidence == signal.ConfidenceMedium {
		return CategoryOptimization
	}
	return CategoryUnclear
}

// Canonical returns the canonical action for a verdict. Verdicts without a
// table entry act as their own canonical action, so two signals with the
// same unknown verdict still agree with each other.
func Canonical(verdict signal.Verdict) CanonicalAction {
	if ca, ok := canonical[verdict]; ok {
		return ca
	}
	return CanonicalAction(verdict)
}
