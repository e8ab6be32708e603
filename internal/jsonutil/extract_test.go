package jsonutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Extract
// ---------------------------------------------------------------------------

func TestExtract_PlainObject(t *testing.T) {
	t.Parallel()

	raw, err := Extract(`{"verdict":"persistence-unused","confidence":"high"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"persistence-unused","confidence":"high"}`, string(raw))
}

func TestExtract_ObjectEmbeddedInProse(t *testing.T) {
	t.Parallel()

	text := "Sure! Here is my analysis of the example:\n" +
		`{"verdict":"construction-inefficient","confidence":"medium","reasoning":"create dominates"}` +
		"\nLet me know if you need anything else."

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"construction-inefficient"`)
}

func TestExtract_JSONCodeFence(t *testing.T) {
	t.Parallel()

	text := "Analysis complete.\n```json\n{\"verdict\":\"boundary-unit\",\"confidence\":\"low\"}\n```\n"

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"boundary-unit","confidence":"low"}`, string(raw))
}

func TestExtract_UntaggedCodeFence(t *testing.T) {
	t.Parallel()

	text := "```\n{\"verdict\":\"low-risk\",\"confidence\":\"high\"}\n```"

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"low-risk","confidence":"high"}`, string(raw))
}

func TestExtract_FencePreferredOverLaterObject(t *testing.T) {
	t.Parallel()

	text := "```json\n{\"first\": true}\n```\nand also {\"second\": true}"

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"first": true}`, string(raw))
}

func TestExtract_ANSIStripped(t *testing.T) {
	t.Parallel()

	text := "\x1b[32m{\"verdict\":\"persistence-required\"}\x1b[0m"

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"persistence-required"}`, string(raw))
}

func TestExtract_BOMStripped(t *testing.T) {
	t.Parallel()

	text := "\xef\xbb\xbf{\"ok\":true}"

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestExtract_BracesInsideStringsIgnored(t *testing.T) {
	t.Parallel()

	text := `{"reasoning":"uses create { a lot } of times","verdict":"construction-inefficient"}`

	raw, err := Extract(text)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "a lot")
}

func TestExtract_Array(t *testing.T) {
	t.Parallel()

	raw, err := Extract(`noise ["a","b"] noise`)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(raw))
}

func TestExtract_NoJSON_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := Extract("no structured output here, sorry")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid JSON")
}

func TestExtract_UnbalancedBraces_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := Extract(`{"verdict":"failed"`)
	require.Error(t, err)
}

func TestExtract_OversizedInput_ReturnsError(t *testing.T) {
	t.Parallel()

	_, err := Extract(strings.Repeat("x", maxInputBytes+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum size")
}

// ---------------------------------------------------------------------------
// ExtractInto
// ---------------------------------------------------------------------------

func TestExtractInto_Success(t *testing.T) {
	t.Parallel()

	var payload struct {
		Verdict    string `json:"verdict"`
		Confidence string `json:"confidence"`
	}
	text := "Here you go:\n```json\n{\"verdict\":\"callback-risk\",\"confidence\":\"high\"}\n```"

	require.NoError(t, ExtractInto(text, &payload))
	assert.Equal(t, "callback-risk", payload.Verdict)
	assert.Equal(t, "high", payload.Confidence)
}

func TestExtractInto_TypeMismatch_ReturnsError(t *testing.T) {
	t.Parallel()

	var payload struct {
		Verdict int `json:"verdict"`
	}
	err := ExtractInto(`{"verdict":"not-a-number"}`, &payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestExtractInto_NoJSON_ReturnsError(t *testing.T) {
	t.Parallel()

	var payload map[string]any
	require.Error(t, ExtractInto("plain prose", &payload))
}
