package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// maxPromptSourceBytes caps how much test source text is inlined into a
// prompt. Longer sources are truncated with a marker; the telemetry section
// carries the load-bearing facts anyway.
const maxPromptSourceBytes = 16 * 1024

// promptPreamble renders the telemetry section shared by every slot prompt.
func promptPreamble(snap *profile.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Test example: %s\n", snap.Location)
	if snap.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", snap.Description)
	}
	if snap.Category != "" {
		fmt.Fprintf(&sb, "Category: %s\n", snap.Category)
	}
	fmt.Fprintf(&sb, "Duration: %s\n", snap.Duration)

	writeCountSection(&sb, "Object construction", snap.Construction)
	writeCountSection(&sb, "Persistence activity", snap.Persistence)
	writeCountSection(&sb, "Lifecycle events", snap.Events)

	return sb.String()
}

// writeCountSection renders one count map in deterministic key order.
func writeCountSection(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(sb, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(sb, "  %s: %d\n", k, counts[k])
	}
}

// promptInstructions renders the response contract for a slot: the closed
// verdict vocabulary and the required JSON shape. Responses that stray from
// this contract fail structural validation and trigger the heuristic
// fallback.
func promptInstructions(slot signal.Slot) string {
	vocab := signal.Vocabulary(slot)
	verdicts := make([]string, 0, len(vocab))
	for _, v := range vocab {
		if v == signal.VerdictFailed {
			// "failed" is synthesized internally, never requested.
			continue
		}
		verdicts = append(verdicts, string(v))
	}

	var sb strings.Builder
	sb.WriteString("Respond with a single JSON object and nothing else:\n")
	sb.WriteString(`{"verdict": "...", "confidence": "...", "reasoning": "..."}` + "\n")
	fmt.Fprintf(&sb, "verdict must be one of: %s\n", strings.Join(verdicts, ", "))
	sb.WriteString("confidence must be one of: high, medium, low\n")
	sb.WriteString("reasoning must be one or two short sentences grounded in the telemetry.\n")
	return sb.String()
}

// promptSource renders the optional test source section, truncated to
// maxPromptSourceBytes.
func promptSource(source string) string {
	if source == "" {
		return ""
	}
	if len(source) > maxPromptSourceBytes {
		source = source[:maxPromptSourceBytes] + "\n... (truncated)"
	}
	return "Test source:\n```\n" + source + "\n```\n"
}
