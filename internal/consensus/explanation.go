package consensus

import (
	"fmt"
	"strings"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// buildExplanation assembles the ordered explanation for a decided
// recommendation: signal summary, consensus statement, action rationale,
// fallback note, risk summary, conflict summary. Each fact appears on
// exactly one line.
func buildExplanation(valid []*signal.Signal, winner *tally, rec *Recommendation) []string {
	var lines []string

	var generative, fallbacks int
	for _, sig := range valid {
		if sig.IsGenerative() {
			generative++
		}
		if sig.IsFallback() {
			fallbacks++
		}
	}
	lines = append(lines, fmt.Sprintf("evaluated %d signals (%d generative, %d heuristic)",
		len(valid), generative, len(valid)-generative))

	if winner != nil && winner.count > 0 {
		slots := make([]string, 0, len(winner.signals))
		for _, sig := range winner.signals {
			slots = append(slots, string(sig.Slot))
		}
		lines = append(lines, fmt.Sprintf("%s agree on %s (weighted strength %.2f)",
			strings.Join(slots, ", "), winner.action, winner.weight))
	}

	lines = append(lines, rationale(rec))

	if fallbacks > 0 {
		lines = append(lines, fmt.Sprintf("%d slot(s) fell back to heuristic analysis", fallbacks))
	}

	if len(rec.RiskFactors) > 0 {
		descs := make([]string, 0, len(rec.RiskFactors))
		for _, f := range rec.RiskFactors {
			descs = append(descs, f.Description)
		}
		lines = append(lines, "risk factors: "+strings.Join(descs, "; "))
	}

	if len(rec.Conflicts) > 0 {
		descs := make([]string, 0, len(rec.Conflicts))
		for _, c := range rec.Conflicts {
			descs = append(descs, c.Description)
		}
		lines = append(lines, "conflicts: "+strings.Join(descs, "; "))
	}

	return lines
}

// rationale renders the single line justifying the chosen action.
func rationale(rec *Recommendation) string {
	switch rec.Reason {
	case ReasonHighRisk:
		severe, moderate := countSeverity(rec.RiskFactors)
		return fmt.Sprintf("no action: high risk (%d severe, %d moderate factors) blocks optimization",
			severe, moderate)
	case ReasonConsensus:
		switch rec.Action {
		case ActionReplaceConstruction:
			return fmt.Sprintf("recommending %s: replace %q with %q", rec.Action, rec.From, rec.To)
		case ActionReduceScope:
			return fmt.Sprintf("recommending %s: move persistence-dependent work out of this declared unit example", rec.Action)
		default:
			return fmt.Sprintf("recommending %s: persisted setup is never read back and no single strategy swap applies", rec.Action)
		}
	case ReasonConflict:
		return fmt.Sprintf("suggesting %s: the signals disagree and only a soft suggestion is safe", rec.Action)
	case ReasonUnclear:
		return "no action: the signals carry no actionable consensus"
	default:
		return fmt.Sprintf("no action (%s)", rec.Reason)
	}
}
