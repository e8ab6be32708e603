package analyzer

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Persistence heuristic thresholds.
const (
	// highConfidenceWriteCount is the write count at which unused
	// persistence is flagged with high confidence.
	highConfidenceWriteCount = 5

	// partialReadShare is the reads/writes ratio below which persistence is
	// considered only partially used.
	partialReadShare = 0.25

	// highConfidenceReadCount is the read count at which required
	// persistence is asserted with high confidence.
	highConfidenceReadCount = 3
)

// PersistenceSlot analyzes persistence-layer activity: whether the example
// actually reads any of the data it pays to write.
type PersistenceSlot struct{}

// Name returns the slot identifier.
func (s *PersistenceSlot) Name() signal.Slot { return signal.SlotPersistence }

// Description returns the one-line summary for slot listings.
func (s *PersistenceSlot) Description() string {
	return "detects persistence writes the example never reads back"
}

// Heuristic classifies persistence usage from read/write counts.
func (s *PersistenceSlot) Heuristic(snap *profile.Snapshot, _ string) (*signal.Signal, error) {
	writes := snap.PersistenceWrites()
	reads := snap.PersistenceReads()

	switch {
	case writes == 0 && reads == 0:
		return signal.New(signal.SlotPersistence, signal.VerdictPersistenceUnused,
			signal.ConfidenceLow, "the example never touched the persistence layer")

	case reads == 0:
		confidence := signal.ConfidenceMedium
		if writes >= highConfidenceWriteCount {
			confidence = signal.ConfidenceHigh
		}
		return signal.New(signal.SlotPersistence, signal.VerdictPersistenceUnused, confidence,
			fmt.Sprintf("%d persistence writes occurred but nothing was ever read back", writes))

	case writes > 0 && float64(reads)/float64(writes) < partialReadShare:
		return signal.New(signal.SlotPersistence, signal.VerdictPersistencePartial,
			signal.ConfidenceMedium,
			fmt.Sprintf("only %d reads against %d writes; most persisted data is never consulted", reads, writes))

	default:
		confidence := signal.ConfidenceMedium
		if reads >= highConfidenceReadCount {
			confidence = signal.ConfidenceHigh
		}
		return signal.New(signal.SlotPersistence, signal.VerdictPersistenceRequired, confidence,
			fmt.Sprintf("the example reads persisted data back %d times", reads))
	}
}

// Prompt builds the generative prompt for the persistence slot.
func (s *PersistenceSlot) Prompt(snap *profile.Snapshot, source string) string {
	return promptPreamble(snap) +
		promptSource(source) +
		"Judge whether this example genuinely depends on the persistence layer. " +
		"Writes without corresponding reads usually mean the persistence setup is wasted cost.\n" +
		promptInstructions(signal.SlotPersistence)
}

// SystemPrompt frames the persistence analyst role.
func (s *PersistenceSlot) SystemPrompt() string {
	return "You are a test-performance analyst. You classify persistence-layer usage in unit tests " +
		"from execution telemetry, strictly following the requested JSON contract."
}
