package analyzer

import (
	"fmt"
	"strings"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// highConfidenceBoundaryWrites is the persistence write count at which a
// declared-unit example is confidently flagged as overreaching its boundary.
const highConfidenceBoundaryWrites = 5

// unitCategories are declared categories that promise unit-level isolation.
var unitCategories = map[string]bool{
	"unit":  true,
	"model": true,
}

// integrationCategories are declared categories where persistence activity is
// expected and intentional.
var integrationCategories = map[string]bool{
	"request":     true,
	"feature":     true,
	"system":      true,
	"integration": true,
}

// BoundarySlot classifies whether the example's observed activity matches
// its declared unit/integration boundary.
type BoundarySlot struct{}

// Name returns the slot identifier.
func (s *BoundarySlot) Name() signal.Slot { return signal.SlotBoundary }

// Description returns the one-line summary for slot listings.
func (s *BoundarySlot) Description() string {
	return "checks whether observed activity matches the example's declared test boundary"
}

// Heuristic compares the declared category against observed persistence
// activity.
func (s *BoundarySlot) Heuristic(snap *profile.Snapshot, _ string) (*signal.Signal, error) {
	category := strings.ToLower(snap.Category)
	writes := snap.PersistenceWrites()

	switch {
	case unitCategories[category] && writes > 0:
		confidence := signal.ConfidenceMedium
		if writes >= highConfidenceBoundaryWrites {
			confidence = signal.ConfidenceHigh
		}
		return signal.New(signal.SlotBoundary, signal.VerdictBoundaryUnit, confidence,
			fmt.Sprintf("declared %q but performs %d persistence writes; the example is paying integration-level setup for unit-level assertions", category, writes))

	case integrationCategories[category]:
		return signal.New(signal.SlotBoundary, signal.VerdictBoundaryIntegration,
			signal.ConfidenceMedium,
			fmt.Sprintf("declared %q; persistence activity is expected at this boundary", category))

	case unitCategories[category]:
		return signal.New(signal.SlotBoundary, signal.VerdictBoundaryUnclear,
			signal.ConfidenceLow,
			"declared boundary matches observed activity")

	default:
		return signal.New(signal.SlotBoundary, signal.VerdictBoundaryUnclear,
			signal.ConfidenceLow,
			fmt.Sprintf("category %q gives no boundary expectation", snap.Category))
	}
}

// Prompt builds the generative prompt for the boundary slot.
func (s *BoundarySlot) Prompt(snap *profile.Snapshot, source string) string {
	return promptPreamble(snap) +
		promptSource(source) +
		"Judge whether this example behaves like the unit test its category declares, or whether it is " +
		"really exercising an integration boundary. Persistence activity in a declared unit test is the " +
		"main tell.\n" +
		promptInstructions(signal.SlotBoundary)
}

// SystemPrompt frames the boundary analyst role.
func (s *BoundarySlot) SystemPrompt() string {
	return "You are a test-architecture analyst. You classify the unit/integration boundary of test " +
		"examples from execution telemetry, strictly following the requested JSON contract."
}
