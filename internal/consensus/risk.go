package consensus

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Severity grades a risk factor.
type Severity string

const (
	// SeveritySevere blocks any recommendation on its own.
	SeveritySevere Severity = "severe"

	// SeverityModerate downgrades confidence; enough of them together block
	// a recommendation.
	SeverityModerate Severity = "moderate"
)

// RiskFactor is one reason optimizing this example might be unsafe, tied to
// the signal that raised it.
type RiskFactor struct {
	// Description says what was flagged.
	Description string `json:"description"`

	// Severity is severe or moderate.
	Severity Severity `json:"severity"`

	// Slot and Confidence identify the source signal.
	Slot       signal.Slot       `json:"slot"`
	Confidence signal.Confidence `json:"confidence"`
}

// dangerVerdicts are verdicts that directly assert optimization is unsafe.
var dangerVerdicts = map[signal.Verdict]bool{
	signal.VerdictCallbackRisk: true,
	signal.VerdictMutationRisk: true,
}

// detectRiskFactors scans every signal for danger verdicts, elevated
// risk-score metadata, and long risk-factor lists. Each signal contributes
// at most one factor, graded by its worst finding.
func detectRiskFactors(signals []*signal.Signal, p Params) []RiskFactor {
	var out []RiskFactor
	for _, sig := range signals {
		factor, ok := gradeSignal(sig, p)
		if ok {
			out = append(out, factor)
		}
	}
	return out
}

// gradeSignal grades one signal's risk contribution.
func gradeSignal(sig *signal.Signal, p Params) (RiskFactor, bool) {
	score, hasScore := sig.RiskScore()
	factors := sig.RiskFactors()

	severe := false
	var desc string

	switch {
	case dangerVerdicts[sig.Verdict] && sig.Confidence == signal.ConfidenceHigh:
		severe = true
		desc = fmt.Sprintf("%s reported %s with high confidence", sig.Slot, sig.Verdict)
	case hasScore && score >= p.SevereRiskScore:
		severe = true
		desc = fmt.Sprintf("%s carries risk score %.2f", sig.Slot, score)
	case dangerVerdicts[sig.Verdict]:
		desc = fmt.Sprintf("%s reported %s", sig.Slot, sig.Verdict)
	case hasScore && score >= p.ModerateRiskScore:
		desc = fmt.Sprintf("%s carries risk score %.2f", sig.Slot, score)
	case len(factors) >= p.RiskFactorLimit:
		desc = fmt.Sprintf("%s lists %d risk factors", sig.Slot, len(factors))
	default:
		return RiskFactor{}, false
	}

	severity := SeverityModerate
	if severe {
		severity = SeveritySevere
	}
	return RiskFactor{
		Description: desc,
		Severity:    severity,
		Slot:        sig.Slot,
		Confidence:  sig.Confidence,
	}, true
}

// countSeverity tallies factors by severity.
func countSeverity(factors []RiskFactor) (severe, moderate int) {
	for _, f := range factors {
		if f.Severity == SeveritySevere {
			severe++
		} else {
			moderate++
		}
	}
	return severe, moderate
}
