package consensus

import (
	"sort"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/analyzer"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Engine folds a signal set into one recommendation. It holds only
// normalized parameters; Decide has no other state and no side effects.
type Engine struct {
	params Params
}

// NewEngine creates an Engine with the given parameters, normalized.
func NewEngine(p Params) *Engine {
	return &Engine{params: p.Normalize()}
}

// Params returns the engine's normalized parameters.
func (e *Engine) Params() Params { return e.params }

// Decide produces the recommendation for one snapshot's signal set.
//
// Signal order matters: the final agreement tie-break is first-seen order in
// signals, so the same set in the same order always yields the same output.
// snap may be nil, in which case no concrete construction-strategy pair can
// be named.
func (e *Engine) Decide(signals []*signal.Signal, snap *profile.Snapshot) *Recommendation {
	p := e.params

	// Step 1: structural filter. Invalid signals never influence the
	// decision.
	valid := make([]*signal.Signal, 0, len(signals))
	for _, sig := range signals {
		if sig != nil && sig.Validate() == nil {
			valid = append(valid, sig)
		}
	}
	if len(valid) == 0 {
		return &Recommendation{
			Action:      ActionNone,
			Confidence:  signal.ConfidenceLow,
			Reason:      ReasonNoSignals,
			Explanation: []string{"no valid signals"},
		}
	}

	// Step 2: classification counts drive the mixed-presence check later.
	var optCount, riskCount int
	for _, sig := range valid {
		switch Classify(sig) {
		case CategoryOptimization:
			optCount++
		case CategoryRisk:
			riskCount++
		}
	}

	// Steps 3-5: risk factors, weighted agreement, conflicts.
	factors := detectRiskFactors(valid, p)
	severe, moderate := countSeverity(factors)
	sort.SliceStable(factors, func(a, b int) bool {
		return factors[a].Severity == SeveritySevere && factors[b].Severity != SeveritySevere
	})

	tallies := weigh(valid, p)
	var winner *tally
	if len(tallies) > 0 {
		winner = tallies[0]
	}

	conflicts := detectConflicts(valid, tallies, factors)

	// Step 6: action decision, first match wins.
	var (
		action       Action
		reason       Reason
		from, to     string
		contributing []*signal.Signal
	)
	concrete := false
	if winner != nil && winner.count >= p.MinAgreement && winner.strong >= p.MinStrong {
		action, from, to, concrete = concreteAction(winner.action, snap)
	}

	switch {
	case severe >= 1 || moderate >= p.ModerateRiskLimit:
		action, from, to = ActionNone, "", ""
		reason = ReasonHighRisk
		contributing = signalsForFactors(valid, factors)

	case concrete:
		reason = ReasonConsensus
		contributing = winner.signals

	case len(conflicts) > 0 || (optCount > 0 && riskCount > 0):
		action, reason = softAction(conflicts, optCount, riskCount), ReasonConflict
		contributing = signalsForConflicts(valid, conflicts)

	default:
		action, reason = ActionNone, ReasonUnclear
	}

	// Step 7: confidence from agreement strength, then risk downgrades.
	confidence := baseConfidence(winner, action, p)
	confidence = downgradeForRisk(confidence, severe, moderate, p)

	rec := &Recommendation{
		Action:      action,
		From:        from,
		To:          to,
		Confidence:  confidence,
		Reason:      reason,
		Signals:     contributing,
		RiskFactors: factors,
		Conflicts:   conflicts,
	}

	// Step 8: ordered explanation.
	rec.Explanation = buildExplanation(valid, winner, rec)
	return rec
}

// concreteAction maps the winning canonical action to a concrete one. For
// construction optimization, a heavyweight strategy present in the snapshot
// with a known lighter replacement yields a named from/to pair; otherwise
// the generic avoid-persistence form of the same advice is used. Unknown
// canonical actions report !ok and the decision falls through.
func concreteAction(ca CanonicalAction, snap *profile.Snapshot) (action Action, from, to string, ok bool) {
	switch ca {
	case CanonicalOptimizeConstruction:
		if f, t, found := constructionPair(snap); found {
			return ActionReplaceConstruction, f, t, true
		}
		return ActionAvoidPersistence, "", "", true
	case CanonicalReduceScope:
		return ActionReduceScope, "", "", true
	default:
		return ActionNone, "", "", false
	}
}

// constructionPair picks the heaviest construction strategy in the snapshot
// that has a known lighter replacement. Count descending, name ascending on
// ties.
func constructionPair(snap *profile.Snapshot) (from, to string, ok bool) {
	if snap == nil {
		return "", "", false
	}
	var best string
	var bestCount int
	for name, count := range snap.Construction {
		if count <= 0 {
			continue
		}
		if _, heavy := analyzer.LighterStrategy(name); !heavy {
			continue
		}
		if count > bestCount || (count == bestCount && (best == "" || name < best)) {
			best, bestCount = name, count
		}
	}
	if best == "" {
		return "", "", false
	}
	to, _ = analyzer.LighterStrategy(best)
	return best, to, true
}

// softAction picks the soft-suggestion action for a conflicted decision.
// Persistence-intent disagreement outranks the optimization-vs-risk tension:
// when the signals cannot even agree on what the example needs, settling
// intent comes before weighing risk.
func softAction(conflicts []Conflict, optCount, riskCount int) Action {
	for _, c := range conflicts {
		if c.Kind == ConflictPersistenceIntent {
			return ActionReviewIntent
		}
	}
	for _, c := range conflicts {
		if c.Kind == ConflictOptimizationVsRisk {
			return ActionAssessRisk
		}
	}
	if optCount > 0 && riskCount > 0 {
		return ActionAssessRisk
	}
	return ActionNone
}

// baseConfidence grades the decision from agreement strength alone.
func baseConfidence(winner *tally, action Action, p Params) signal.Confidence {
	if action == ActionNone || winner == nil {
		return signal.ConfidenceLow
	}
	switch {
	case winner.strong >= p.StrongForHigh && winner.count >= p.HighAgreement:
		return signal.ConfidenceHigh
	case (winner.strong >= 1 && winner.count >= p.MinAgreement) || winner.weight >= p.MediumWeightedStrength:
		return signal.ConfidenceMedium
	default:
		return signal.ConfidenceLow
	}
}

// downgradeForRisk applies the risk downgrades to a base confidence: any
// severe factor forces low, enough moderate factors cost one level, and a
// single moderate factor costs high its top grade.
func downgradeForRisk(base signal.Confidence, severe, moderate int, p Params) signal.Confidence {
	switch {
	case severe >= 1:
		return signal.ConfidenceLow
	case moderate >= p.ModerateRiskLimit:
		if base == signal.ConfidenceHigh {
			return signal.ConfidenceMedium
		}
		return signal.ConfidenceLow
	case moderate == 1 && base == signal.ConfidenceHigh:
		return signal.ConfidenceMedium
	default:
		return base
	}
}

// signalsForFactors returns the signals whose slots raised risk factors, in
// input order.
func signalsForFactors(signals []*signal.Signal, factors []RiskFactor) []*signal.Signal {
	flagged := make(map[signal.Slot]bool, len(factors))
	for _, f := range factors {
		flagged[f.Slot] = true
	}
	var out []*signal.Signal
	for _, sig := range signals {
		if flagged[sig.Slot] {
			out = append(out, sig)
		}
	}
	return out
}

// signalsForConflicts returns the signals involved in any conflict, in input
// order.
func signalsForConflicts(signals []*signal.Signal, conflicts []Conflict) []*signal.Signal {
	involved := make(map[signal.Slot]bool)
	for _, c := range conflicts {
		for _, slot := range c.Slots {
			involved[slot] = true
		}
	}
	var out []*signal.Signal
	for _, sig := range signals {
		if involved[sig.Slot] {
			out = append(out, sig)
		}
	}
	return out
}
