package consensus

// Params holds every numeric threshold the engine consults. All of them are
// overridable through configuration; the zero value of any field falls back
// to its default via Normalize.
//
// The default source weights implement weighted voting. Setting both source
// weights and all confidence weights to 1.0 degrades the engine to plain
// count-based voting.
type Params struct {
	// GenerativeSourceWeight multiplies votes from generative-sourced
	// signals.
	GenerativeSourceWeight float64 `toml:"generative_source_weight"`

	// HeuristicSourceWeight multiplies votes from heuristic-sourced signals.
	HeuristicSourceWeight float64 `toml:"heuristic_source_weight"`

	// Confidence weights per level. Other covers any confidence outside the
	// three known levels, which structurally valid signals never carry.
	HighConfidenceWeight   float64 `toml:"high_confidence_weight"`
	MediumConfidenceWeight float64 `toml:"medium_confidence_weight"`
	LowConfidenceWeight    float64 `toml:"low_confidence_weight"`
	OtherConfidenceWeight  float64 `toml:"other_confidence_weight"`

	// MinAgreement is the minimum number of signals agreeing on the winning
	// canonical action before a concrete recommendation is made.
	MinAgreement int `toml:"min_agreement"`

	// MinStrong is the minimum number of strong signals (high-confidence,
	// optimization-leaning) required for a concrete recommendation.
	MinStrong int `toml:"min_strong"`

	// StrongForHigh and HighAgreement gate high overall confidence.
	StrongForHigh int `toml:"strong_for_high"`
	HighAgreement int `toml:"high_agreement"`

	// MediumWeightedStrength is the winning weighted score at which medium
	// confidence is granted even without two agreeing signals.
	MediumWeightedStrength float64 `toml:"medium_weighted_strength"`

	// SevereRiskScore is the risk_score metadata value at or above which a
	// signal is a severe risk factor.
	SevereRiskScore float64 `toml:"severe_risk_score"`

	// ModerateRiskScore is the risk_score metadata value at or above which a
	// signal is at least a moderate risk factor.
	ModerateRiskScore float64 `toml:"moderate_risk_score"`

	// RiskFactorLimit is the risk_factors metadata count at or above which a
	// signal is a moderate risk factor regardless of score.
	RiskFactorLimit int `toml:"risk_factor_limit"`

	// ModerateRiskLimit is the number of moderate risk factors that together
	// block a recommendation outright.
	ModerateRiskLimit int `toml:"moderate_risk_limit"`
}

// DefaultParams returns the engine's default thresholds. The values are
// deliberate defaults rather than derived quantities; treat them as tuning
// knobs.
func DefaultParams() Params {
	return Params{
		GenerativeSourceWeight: 1.5,
		HeuristicSourceWeight:  1.0,
		HighConfidenceWeight:   1.0,
		MediumConfidenceWeight: 0.8,
		LowConfidenceWeight:    0.6,
		OtherConfidenceWeight:  0.3,
		MinAgreement:           2,
		MinStrong:              1,
		StrongForHigh:          2,
		HighAgreement:          3,
		MediumWeightedStrength: 1.8,
		SevereRiskScore:        0.8,
		ModerateRiskScore:      0.5,
		RiskFactorLimit:        3,
		ModerateRiskLimit:      2,
	}
}

// Normalize fills zero-valued fields with their defaults and returns the
// result. Explicit zeroes are indistinguishable from unset fields; configure
// a tiny positive value to effectively disable a weight.
func (p Params) Normalize() Params {
	d := DefaultParams()
	if p.GenerativeSourceWeight <= 0 {
		p.GenerativeSourceWeight = d.GenerativeSourceWeight
	}
	if p.HeuristicSourceWeight <= 0 {
		p.HeuristicSourceWeight = d.HeuristicSourceWeight
	}
	if p.HighConfidenceWeight <= 0 {
		p.HighConfidenceWeight = d.HighConfidenceWeight
	}
	if p.MediumConfidenceWeight <= 0 {
		p.MediumConfidenceWeight = d.MediumConfidenceWeight
	}
	if p.LowConfidenceWeight <= 0 {
		p.LowConfidenceWeight = d.LowConfidenceWeight
	}
	if p.OtherConfidenceWeight <= 0 {
		p.OtherConfidenceWeight = d.OtherConfidenceWeight
	}
	if p.MinAgreement <= 0 {
		p.MinAgreement = d.MinAgreement
	}
	if p.MinStrong <= 0 {
		p.MinStrong = d.MinStrong
	}
	if p.StrongForHigh <= 0 {
		p.StrongForHigh = d.StrongForHigh
	}
	if p.HighAgreement <= 0 {
		p.HighAgreement = d.HighAgreement
	}
	if p.MediumWeightedStrength <= 0 {
		p.MediumWeightedStrength = d.MediumWeightedStrength
	}
	if p.SevereRiskScore <= 0 {
		p.SevereRiskScore = d.SevereRiskScore
	}
	if p.ModerateRiskScore <= 0 {
		p.ModerateRiskScore = d.ModerateRiskScore
	}
	if p.RiskFactorLimit <= 0 {
		p.RiskFactorLimit = d.RiskFactorLimit
	}
	if p.ModerateRiskLimit <= 0 {
		p.ModerateRiskLimit = d.ModerateRiskLimit
	}
	return p
}

// confidenceWeight returns the vote multiplier for a confidence level.
func (p Params) confidenceWeight(confidence string) float64 {
	switch confidence {
	case "high":
		return p.HighConfidenceWeight
	case "medium":
		return p.MediumConfidenceWeight
	case "low":
		return p.LowConfidenceWeight
	default:
		return p.OtherConfidenceWeight
	}
}

// sourceWeight returns the vote multiplier for an execution mode.
func (p Params) sourceWeight(generative bool) float64 {
	if generative {
		return p.GenerativeSourceWeight
	}
	return p.HeuristicSourceWeight
}
