package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// heavySnapshot models the classic offender: a declared-unit example that
// persists everything via create and reads nothing back.
func heavySnapshot() *profile.Snapshot {
	return &profile.Snapshot{
		Location: "spec/models/order_spec.rb:42",
		Category: "model",
		Duration: 900 * time.Millisecond,
		Construction: map[string]int{
			"create": 10,
			"build":  1,
		},
		Persistence: map[string]int{
			"insert": 10,
			"query":  0,
		},
		Events: map[string]int{
			"callback": 4,
		},
	}
}

// ---------------------------------------------------------------------------
// ConstructionSlot
// ---------------------------------------------------------------------------

func TestConstructionHeuristic_Inefficient_HighConfidence(t *testing.T) {
	t.Parallel()

	sig, err := (&ConstructionSlot{}).Heuristic(heavySnapshot(), "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictConstructionInefficient, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)
	assert.Contains(t, sig.Reasoning, "never reads")
}

func TestConstructionHeuristic_Inefficient_MediumWhenMixed(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	// create dominates but holds less than the high-confidence share.
	snap.Construction = map[string]int{"create": 5, "build": 4}

	sig, err := (&ConstructionSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictConstructionInefficient, sig.Verdict)
	assert.Equal(t, signal.ConfidenceMedium, sig.Confidence)
}

func TestConstructionHeuristic_Appropriate(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Construction = map[string]int{"build_stubbed": 8, "create": 1}

	sig, err := (&ConstructionSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictConstructionAppropriate, sig.Verdict)
}

func TestConstructionHeuristic_UnclearWhenReadsExist(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Persistence["query"] = 4

	sig, err := (&ConstructionSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictConstructionUnclear, sig.Verdict)
}

func TestConstructionHeuristic_NoConstruction(t *testing.T) {
	t.Parallel()

	snap := &profile.Snapshot{Location: "x:1"}
	sig, err := (&ConstructionSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictConstructionUnclear, sig.Verdict)
	assert.Equal(t, signal.ConfidenceLow, sig.Confidence)
}

func TestLighterStrategy(t *testing.T) {
	t.Parallel()

	to, ok := LighterStrategy("create")
	require.True(t, ok)
	assert.Equal(t, "build_stubbed", to)

	_, ok = LighterStrategy("build")
	assert.False(t, ok)
}

// ---------------------------------------------------------------------------
// PersistenceSlot
// ---------------------------------------------------------------------------

func TestPersistenceHeuristic_Unused_High(t *testing.T) {
	t.Parallel()

	sig, err := (&PersistenceSlot{}).Heuristic(heavySnapshot(), "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictPersistenceUnused, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)
}

func TestPersistenceHeuristic_Unused_MediumForFewWrites(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Persistence = map[string]int{"insert": 2}

	sig, err := (&PersistenceSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictPersistenceUnused, sig.Verdict)
	assert.Equal(t, signal.ConfidenceMedium, sig.Confidence)
}

func TestPersistenceHeuristic_Partial(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Persistence = map[string]int{"insert": 10, "query": 1}

	sig, err := (&PersistenceSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictPersistencePartial, sig.Verdict)
}

func TestPersistenceHeuristic_Required(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Persistence = map[string]int{"insert": 4, "query": 6}

	sig, err := (&PersistenceSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictPersistenceRequired, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)
}

func TestPersistenceHeuristic_NoActivity(t *testing.T) {
	t.Parallel()

	snap := &profile.Snapshot{Location: "x:1"}
	sig, err := (&PersistenceSlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictPersistenceUnused, sig.Verdict)
	assert.Equal(t, signal.ConfidenceLow, sig.Confidence)
}

// ---------------------------------------------------------------------------
// BoundarySlot
// ---------------------------------------------------------------------------

func TestBoundaryHeuristic_UnitWithWrites(t *testing.T) {
	t.Parallel()

	sig, err := (&BoundarySlot{}).Heuristic(heavySnapshot(), "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictBoundaryUnit, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)
}

func TestBoundaryHeuristic_Integration(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Category = "request"

	sig, err := (&BoundarySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictBoundaryIntegration, sig.Verdict)
}

func TestBoundaryHeuristic_CleanUnit(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Persistence = map[string]int{}

	sig, err := (&BoundarySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictBoundaryUnclear, sig.Verdict)
}

func TestBoundaryHeuristic_UnknownCategory(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Category = "benchmark"

	sig, err := (&BoundarySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictBoundaryUnclear, sig.Verdict)
}

// ---------------------------------------------------------------------------
// SafetySlot
// ---------------------------------------------------------------------------

func TestSafetyHeuristic_CallbackRisk(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Events = map[string]int{"callback": 45}

	sig, err := (&SafetySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictCallbackRisk, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)

	score, ok := sig.RiskScore()
	require.True(t, ok)
	assert.InDelta(t, 0.9, score, 1e-9)
	assert.NotEmpty(t, sig.RiskFactors())
}

func TestSafetyHeuristic_CallbackRisk_MediumBelowDoubleThreshold(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Events = map[string]int{"callback": 25}

	sig, err := (&SafetySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictCallbackRisk, sig.Verdict)
	assert.Equal(t, signal.ConfidenceMedium, sig.Confidence)
}

func TestSafetyHeuristic_MutationRisk(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Events = map[string]int{"mutation": 2}

	sig, err := (&SafetySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictMutationRisk, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)
}

func TestSafetyHeuristic_LowRisk(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Events = map[string]int{}

	sig, err := (&SafetySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	assert.Equal(t, signal.VerdictLowRisk, sig.Verdict)
	assert.Equal(t, signal.ConfidenceHigh, sig.Confidence)

	score, ok := sig.RiskScore()
	require.True(t, ok)
	assert.Zero(t, score)
}

func TestSafetyHeuristic_RiskScoreCapped(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	snap.Events = map[string]int{"callback": 500}

	sig, err := (&SafetySlot{}).Heuristic(snap, "")
	require.NoError(t, err)
	score, ok := sig.RiskScore()
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

// ---------------------------------------------------------------------------
// Prompts
// ---------------------------------------------------------------------------

func TestPrompts_ContainVocabularyAndTelemetry(t *testing.T) {
	t.Parallel()

	snap := heavySnapshot()
	for _, slot := range []Slot{&ConstructionSlot{}, &PersistenceSlot{}, &BoundarySlot{}, &SafetySlot{}} {
		prompt := slot.Prompt(snap, "it { expect(order.total).to eq(100) }")
		assert.Contains(t, prompt, snap.Location, "slot %s", slot.Name())
		assert.Contains(t, prompt, "Respond with a single JSON object", "slot %s", slot.Name())
		assert.NotContains(t, prompt, "failed", "slot %s must not offer the synthetic verdict", slot.Name())
		assert.Contains(t, prompt, "order.total", "slot %s should include the source", slot.Name())
		assert.NotEmpty(t, slot.SystemPrompt(), "slot %s", slot.Name())
	}
}

func TestPromptSource_Truncated(t *testing.T) {
	t.Parallel()

	long := make([]byte, maxPromptSourceBytes+100)
	for i := range long {
		long[i] = 'x'
	}
	rendered := promptSource(string(long))
	assert.Contains(t, rendered, "(truncated)")
	assert.Less(t, len(rendered), maxPromptSourceBytes+200)
}
