// Package report renders analysis advice for the console and for machine
// consumption, and maps advice onto a process exit status.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/advisor"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/consensus"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Exit codes for the analyze command.
const (
	// ExitOK means the run completed; nothing demanded action, or the caller
	// did not ask advice to gate the exit status.
	ExitOK = 0

	// ExitAdvice means the run completed and at least one recommendation
	// demands action while --fail-on-advice is set.
	ExitAdvice = 2
)

// Console colors follow the terminal's 16-color palette so they track the
// user's theme. When --no-color is active the root command sets the Ascii
// color profile and lipgloss strips all of these.
var (
	styleLocation   = lipgloss.NewStyle().Bold(true)
	styleAction     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // yellow
	styleNoAction   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	styleRiskAction = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // red
	styleDim        = lipgloss.NewStyle().Faint(true)
	styleHeading    = lipgloss.NewStyle().Bold(true)
	styleRisk       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleConflict   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

// actionStyle tints the action line by how alarming the decision is.
func actionStyle(rec *consensus.Recommendation) lipgloss.Style {
	switch {
	case rec.Reason == consensus.ReasonHighRisk:
		return styleRiskAction
	case rec.Action == consensus.ActionNone:
		return styleNoAction
	default:
		return styleAction
	}
}

// RenderText writes the human-readable report for one advice to w.
func RenderText(w io.Writer, advice *advisor.Advice) error {
	rec := advice.Recommendation

	fmt.Fprintln(w, styleLocation.Render(advice.Snapshot.Location))

	actionLine := string(rec.Action)
	if rec.Action == consensus.ActionReplaceConstruction {
		actionLine = fmt.Sprintf("%s: %s -> %s", rec.Action, rec.From, rec.To)
	}
	fmt.Fprintf(w, "  %s %s\n",
		actionStyle(rec).Render(actionLine),
		styleDim.Render(fmt.Sprintf("(%s confidence, %s)", rec.Confidence, rec.Reason)))

	for _, line := range rec.Explanation {
		fmt.Fprintf(w, "  - %s\n", line)
	}

	if len(advice.Signals) > 0 {
		fmt.Fprintln(w, styleHeading.Render("  signals"))
		for _, sig := range advice.Signals {
			fmt.Fprintf(w, "    %-14s %-26s %-8s %s\n",
				sig.Slot, sig.Verdict, sig.Confidence, styleDim.Render(signalMode(sig)))
		}
	}

	if len(rec.RiskFactors) > 0 {
		fmt.Fprintln(w, styleHeading.Render("  risk factors"))
		for _, f := range rec.RiskFactors {
			fmt.Fprintf(w, "    %s %s\n", styleRisk.Render("["+string(f.Severity)+"]"), f.Description)
		}
	}

	if len(rec.Conflicts) > 0 {
		fmt.Fprintln(w, styleHeading.Render("  conflicts"))
		for _, c := range rec.Conflicts {
			fmt.Fprintf(w, "    %s %s\n", styleConflict.Render("["+string(c.Kind)+"]"), c.Description)
		}
	}

	fmt.Fprintln(w)
	return nil
}

// signalMode renders the execution-mode tag for the signal table.
func signalMode(sig *signal.Signal) string {
	mode := sig.ExecutionMode()
	if mode == "" {
		mode = signal.ModeHeuristic
	}
	if sig.IsFallback() {
		return mode + ", fallback"
	}
	return mode
}

// RenderJSON writes the advice list as indented JSON to w.
func RenderJSON(w io.Writer, advices []*advisor.Advice) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(advices)
}

// Summary writes the closing one-line summary for a multi-snapshot run.
func Summary(w io.Writer, advices []*advisor.Advice) {
	actionable := 0
	for _, a := range advices {
		if DemandsAction(a) {
			actionable++
		}
	}
	line := fmt.Sprintf("%d snapshot(s) analyzed, %d with actionable advice", len(advices), actionable)
	if actionable > 0 {
		fmt.Fprintln(w, styleAction.Render(line))
	} else {
		fmt.Fprintln(w, styleNoAction.Render(line))
	}
}

// DemandsAction reports whether the advice recommends doing something.
func DemandsAction(advice *advisor.Advice) bool {
	return advice.Recommendation != nil && advice.Recommendation.Action != consensus.ActionNone
}

// ExitCode maps a finished run onto the process exit status: ExitAdvice when
// failOnAdvice is set and any recommendation demands action, ExitOK
// otherwise.
func ExitCode(advices []*advisor.Advice, failOnAdvice bool) int {
	if !failOnAdvice {
		return ExitOK
	}
	for _, a := range advices {
		if DemandsAction(a) {
			return ExitAdvice
		}
	}
	return ExitOK
}
