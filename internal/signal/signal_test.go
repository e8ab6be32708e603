package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// New / Validate
// ---------------------------------------------------------------------------

func TestNew_Valid(t *testing.T) {
	t.Parallel()

	s, err := New(SlotPersistence, VerdictPersistenceUnused, ConfidenceHigh, "writes but never reads")
	require.NoError(t, err)
	assert.Equal(t, SlotPersistence, s.Slot)
	assert.Equal(t, VerdictPersistenceUnused, s.Verdict)
	assert.Equal(t, ConfidenceHigh, s.Confidence)
}

func TestNew_VerdictOutsideSlotVocabulary(t *testing.T) {
	t.Parallel()

	// persistence-unused belongs to the persistence slot, not construction.
	_, err := New(SlotConstruction, VerdictPersistenceUnused, ConfidenceHigh, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in slot vocabulary")
}

func TestNew_UnknownSlot(t *testing.T) {
	t.Parallel()

	_, err := New(Slot("telepathy"), VerdictFailed, ConfidenceLow, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown slot")
}

func TestNew_InvalidConfidence(t *testing.T) {
	t.Parallel()

	_, err := New(SlotSafety, VerdictLowRisk, Confidence("certain"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid confidence")
}

func TestNew_MissingVerdict(t *testing.T) {
	t.Parallel()

	_, err := New(SlotSafety, "", ConfidenceLow, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing verdict")
}

func TestValidate_NilSignal(t *testing.T) {
	t.Parallel()

	var s *Signal
	require.Error(t, s.Validate())
}

func TestValidate_EverySlotAcceptsFailed(t *testing.T) {
	t.Parallel()

	for _, slot := range Slots() {
		_, err := New(slot, VerdictFailed, ConfidenceLow, "both implementations failed")
		assert.NoError(t, err, "slot %s must accept the failed verdict", slot)
	}
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

func TestVocabulary_ClosedPerSlot(t *testing.T) {
	t.Parallel()

	assert.True(t, InVocabulary(SlotPersistence, VerdictPersistenceRequired))
	assert.False(t, InVocabulary(SlotPersistence, VerdictCallbackRisk))
	assert.False(t, InVocabulary(Slot("nope"), VerdictFailed))
}

func TestVocabulary_ReturnsCopy(t *testing.T) {
	t.Parallel()

	vocab := Vocabulary(SlotSafety)
	require.NotEmpty(t, vocab)
	vocab[0] = Verdict("tampered")
	assert.NotContains(t, Vocabulary(SlotSafety), Verdict("tampered"))
}

func TestSlots_CanonicalOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Slot{SlotConstruction, SlotPersistence, SlotBoundary, SlotSafety}, Slots())
}

// ---------------------------------------------------------------------------
// Metadata accessors
// ---------------------------------------------------------------------------

func TestExecutionModeAndFallback(t *testing.T) {
	t.Parallel()

	s, err := New(SlotBoundary, VerdictBoundaryUnit, ConfidenceMedium, "")
	require.NoError(t, err)
	s.WithMeta(MetaExecutionMode, ModeHeuristic).WithMeta(MetaFallback, true)

	assert.Equal(t, ModeHeuristic, s.ExecutionMode())
	assert.False(t, s.IsGenerative())
	assert.True(t, s.IsFallback())
}

func TestIsFallback_StringValue(t *testing.T) {
	t.Parallel()

	s, err := New(SlotBoundary, VerdictBoundaryUnit, ConfidenceMedium, "")
	require.NoError(t, err)
	s.WithMeta(MetaFallback, "true")
	assert.True(t, s.IsFallback())
}

func TestIsFallback_Untagged(t *testing.T) {
	t.Parallel()

	s, err := New(SlotBoundary, VerdictBoundaryUnit, ConfidenceMedium, "")
	require.NoError(t, err)
	assert.False(t, s.IsFallback())
}

func TestRiskScore_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float64", 0.85, 0.85, true},
		{"int", 1, 1.0, true},
		{"numeric string", "0.6", 0.6, true},
		{"garbage string", "hot", 0, false},
		{"absent", nil, 0, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := New(SlotSafety, VerdictCallbackRisk, ConfidenceHigh, "")
			require.NoError(t, err)
			if tc.value != nil {
				s.WithMeta(MetaRiskScore, tc.value)
			}
			got, ok := s.RiskScore()
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestRiskFactors_AnySlice(t *testing.T) {
	t.Parallel()

	s, err := New(SlotSafety, VerdictMutationRisk, ConfidenceMedium, "")
	require.NoError(t, err)
	// JSON decoding produces []any, not []string.
	s.WithMeta(MetaRiskFactors, []any{"after_save callback", "global mutation", 42})

	assert.Equal(t, []string{"after_save callback", "global mutation"}, s.RiskFactors())
}

func TestString(t *testing.T) {
	t.Parallel()

	s, err := New(SlotSafety, VerdictCallbackRisk, ConfidenceHigh, "")
	require.NoError(t, err)
	assert.Equal(t, "safety/callback-risk (high)", s.String())
}
