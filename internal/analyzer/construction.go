package analyzer

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Construction heuristic thresholds.
const (
	// minHeavyweightCount is the minimum number of heavyweight constructions
	// before the slot flags inefficiency at all.
	minHeavyweightCount = 3

	// highConfidenceHeavyShare is the share of total construction the
	// heavyweight strategy must hold for a high-confidence verdict.
	highConfidenceHeavyShare = 0.8
)

// heavyweightStrategies are construction strategies that persist records.
var heavyweightStrategies = map[string]bool{
	"create":      true,
	"create_list": true,
}

// LighterStrategy maps a heavyweight construction strategy to its in-memory
// replacement. It is consulted by the consensus engine when it needs a
// concrete from/to pair for a replace-construction recommendation.
func LighterStrategy(strategy string) (string, bool) {
	switch strategy {
	case "create":
		return "build_stubbed", true
	case "create_list":
		return "build_stubbed_list", true
	default:
		return "", false
	}
}

// ConstructionSlot analyzes object-construction strategy usage: whether the
// example builds its objects with persisting strategies it never needed.
type ConstructionSlot struct{}

// Name returns the slot identifier.
func (s *ConstructionSlot) Name() signal.Slot { return signal.SlotConstruction }

// Description returns the one-line summary for slot listings.
func (s *ConstructionSlot) Description() string {
	return "flags persisted object construction that in-memory strategies could replace"
}

// Heuristic classifies construction usage from the telemetry counts alone.
func (s *ConstructionSlot) Heuristic(snap *profile.Snapshot, _ string) (*signal.Signal, error) {
	total := snap.TotalConstruction()
	if total == 0 {
		return signal.New(signal.SlotConstruction, signal.VerdictConstructionUnclear,
			signal.ConfidenceLow, "no object construction was recorded for this example")
	}

	dominant, count := snap.DominantConstruction()

	if heavyweightStrategies[dominant] && count >= minHeavyweightCount && snap.PersistenceReads() == 0 {
		confidence := signal.ConfidenceMedium
		if float64(count)/float64(total) >= highConfidenceHeavyShare {
			confidence = signal.ConfidenceHigh
		}
		return signal.New(signal.SlotConstruction, signal.VerdictConstructionInefficient, confidence,
			fmt.Sprintf("%q is used %d of %d times but the example never reads persisted data back", dominant, count, total))
	}

	if !heavyweightStrategies[dominant] {
		return signal.New(signal.SlotConstruction, signal.VerdictConstructionAppropriate,
			signal.ConfidenceMedium,
			fmt.Sprintf("the dominant strategy %q does not persist records", dominant))
	}

	return signal.New(signal.SlotConstruction, signal.VerdictConstructionUnclear,
		signal.ConfidenceLow,
		fmt.Sprintf("%q usage is present but the telemetry does not show a clear replacement opportunity", dominant))
}

// Prompt builds the generative prompt for the construction slot.
func (s *ConstructionSlot) Prompt(snap *profile.Snapshot, source string) string {
	return promptPreamble(snap) +
		promptSource(source) +
		"Judge whether this example's object-construction strategy is heavier than its assertions require. " +
		"Persisting strategies (create, create_list) are only justified when the example reads data back " +
		"through the persistence layer.\n" +
		promptInstructions(signal.SlotConstruction)
}

// SystemPrompt frames the construction analyst role.
func (s *ConstructionSlot) SystemPrompt() string {
	return "You are a test-performance analyst. You classify object-construction strategy usage " +
		"in unit tests from execution telemetry, strictly following the requested JSON contract."
}
