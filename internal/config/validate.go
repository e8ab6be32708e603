package config

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// ValidationSeverity indicates whether a validation issue is an error or
// warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is
	// unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates an informational validation issue; the
	// configuration works but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "analysis.slots"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

// Validate checks the configuration for correctness. meta may be nil if no
// file was loaded; when present it is used to flag unknown keys.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	validateProfile(vr, &cfg.Profile)
	validateAnalysis(vr, &cfg.Analysis)
	validateProvider(vr, cfg)
	validateConsensus(vr, cfg)
	validateUnknownKeys(vr, meta)

	return vr
}

// validateProfile checks the [profile] section glob patterns.
func validateProfile(vr *ValidationResult, p *ProfileConfig) {
	for i, pattern := range p.Include {
		if !doublestar.ValidatePattern(pattern) {
			addError(vr, fmt.Sprintf("profile.include[%d]", i),
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
	for i, pattern := range p.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			addError(vr, fmt.Sprintf("profile.exclude[%d]", i),
				fmt.Sprintf("invalid glob pattern %q", pattern))
		}
	}
}

// validateAnalysis checks the [analysis] section.
func validateAnalysis(vr *ValidationResult, a *AnalysisConfig) {
	known := make(map[string]bool, len(a.Slots))
	for i, name := range a.Slots {
		if !signal.KnownSlot(signal.Slot(name)) {
			addError(vr, fmt.Sprintf("analysis.slots[%d]", i),
				fmt.Sprintf("unknown slot %q; must be one of: %s", name, knownSlotList()))
			continue
		}
		if known[name] {
			addError(vr, fmt.Sprintf("analysis.slots[%d]", i),
				fmt.Sprintf("slot %q listed more than once", name))
		}
		known[name] = true
	}

	for i, name := range a.HeuristicOnly {
		if !signal.KnownSlot(signal.Slot(name)) {
			addError(vr, fmt.Sprintf("analysis.heuristic_only[%d]", i),
				fmt.Sprintf("unknown slot %q; must be one of: %s", name, knownSlotList()))
		}
	}

	if a.GenerativeTimeout.Duration < 0 {
		addError(vr, "analysis.generative_timeout", "must not be negative")
	}
	if a.Concurrency < 0 {
		addError(vr, "analysis.concurrency", "must not be negative")
	}
}

// validateProvider checks the [provider] section.
func validateProvider(vr *ValidationResult, cfg *Config) {
	p := cfg.Provider
	if p.Command == "" {
		if p.Model != "" {
			addWarning(vr, "provider.model",
				"model is set but provider.command is empty; analysis runs heuristics only")
		}
		return
	}

	// Warning only: the binary may live elsewhere at analysis time.
	if _, err := exec.LookPath(p.Command); err != nil {
		addWarning(vr, "provider.command",
			fmt.Sprintf("executable %q not found in PATH", p.Command))
	}

	if len(cfg.Analysis.HeuristicOnly) >= len(signal.Slots()) && len(cfg.Analysis.Slots) == 0 {
		addWarning(vr, "provider.command",
			"a provider is configured but every slot is forced heuristic-only")
	}
}

// validateConsensus checks the [consensus] threshold overrides. Zero values
// mean "use the default" and are never flagged.
func validateConsensus(vr *ValidationResult, cfg *Config) {
	c := cfg.Consensus
	for field, value := range map[string]float64{
		"consensus.generative_source_weight": c.GenerativeSourceWeight,
		"consensus.heuristic_source_weight":  c.HeuristicSourceWeight,
		"consensus.high_confidence_weight":   c.HighConfidenceWeight,
		"consensus.medium_confidence_weight": c.MediumConfidenceWeight,
		"consensus.low_confidence_weight":    c.LowConfidenceWeight,
		"consensus.other_confidence_weight":  c.OtherConfidenceWeight,
	} {
		if value < 0 {
			addError(vr, field, "must not be negative")
		}
	}

	for field, value := range map[string]float64{
		"consensus.severe_risk_score":   c.SevereRiskScore,
		"consensus.moderate_risk_score": c.ModerateRiskScore,
	} {
		if value < 0 || value > 1 {
			addError(vr, field, "must be between 0 and 1")
		}
	}
	if c.SevereRiskScore > 0 && c.ModerateRiskScore > 0 && c.SevereRiskScore < c.ModerateRiskScore {
		addError(vr, "consensus.severe_risk_score",
			"must not be lower than consensus.moderate_risk_score")
	}

	for field, value := range map[string]int{
		"consensus.min_agreement":       c.MinAgreement,
		"consensus.min_strong":          c.MinStrong,
		"consensus.strong_for_high":     c.StrongForHigh,
		"consensus.high_agreement":      c.HighAgreement,
		"consensus.risk_factor_limit":   c.RiskFactorLimit,
		"consensus.moderate_risk_limit": c.ModerateRiskLimit,
	} {
		if value < 0 {
			addError(vr, field, "must not be negative")
		}
	}
}

// validateUnknownKeys checks for TOML keys that did not map to any config
// struct field.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}
	for _, key := range meta.Undecoded() {
		addWarning(vr, strings.Join(key, "."), "unknown configuration key")
	}
}

// knownSlotList renders the valid slot names for error messages.
func knownSlotList() string {
	slots := signal.Slots()
	names := make([]string, len(slots))
	for i, s := range slots {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// addError appends an error-severity issue to the validation result.
func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

// addWarning appends a warning-severity issue to the validation result.
func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Field:    field,
		Message:  message,
	})
}
