package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/advisor"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/analyzer"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/consensus"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/logging"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/provider"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/report"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// analyzeFlags holds parsed flag values for the analyze command.
type analyzeFlags struct {
	// Slots is a comma-separated list of slot names to run (e.g.
	// "construction,safety"). When empty, slots are sourced from the config,
	// and failing that all slots run.
	Slots string

	// HeuristicOnly is a comma-separated list of slots forced to their
	// heuristic implementation even when a provider is configured.
	HeuristicOnly string

	// Heuristic disables generative analysis entirely for this run.
	Heuristic bool

	// Model overrides the provider's configured model.
	Model string

	// Timeout overrides the per-call generative timeout.
	Timeout time.Duration

	// Include and Exclude are glob patterns selecting snapshots by location.
	Include []string
	Exclude []string

	// SourceDir is an optional directory holding the test source files
	// referenced by snapshot locations. When set, matching files are read
	// and handed to the analyzers as source context.
	SourceDir string

	// JSON switches output to a machine-readable JSON document on stdout.
	JSON bool

	// FailOnAdvice makes the exit code reflect whether any snapshot drew an
	// actionable recommendation.
	FailOnAdvice bool

	// Output is an optional file path to write the report to. When empty,
	// the report is written to stdout.
	Output string
}

// newAnalyzeCmd creates the "lightspec analyze" command.
func newAnalyzeCmd() *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <profile-file>",
		Short: "Analyze a profile report and recommend test optimizations",
		Long: `Analyze reads a profile report (JSON or YAML) collected from a test suite
run and produces one recommendation per snapshot.

Each snapshot is analyzed by independent slots: object construction,
persistence usage, test boundary, and refactoring safety. With a provider
configured in lightspec.toml, slots run generative-first with a deterministic
heuristic fallback; without one, the heuristics run alone. The per-slot
signals are combined by a weighted consensus engine into a single
recommendation with an explanation trail.

The exit code encodes the result:
  0 - analysis completed (default)
  1 - error during analysis
  2 - with --fail-on-advice: at least one snapshot drew an actionable
      recommendation`,
		Example: `  # Analyze a report with heuristics only
  lightspec analyze profile.json

  # Analyze with generative slots via the configured provider
  lightspec analyze profile.json --source-dir .

  # Restrict analysis to two slots
  lightspec analyze profile.json --slots construction,persistence

  # Only model specs, machine-readable output
  lightspec analyze profile.yaml --include 'spec/models/**' --json

  # Gate a CI job on the outcome
  lightspec analyze profile.json --fail-on-advice`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.Slots, "slots", "", "Comma-separated slot names to run (default: from config, then all)")
	cmd.Flags().StringVar(&flags.HeuristicOnly, "heuristic-only", "", "Comma-separated slots forced to heuristic analysis")
	cmd.Flags().BoolVar(&flags.Heuristic, "heuristic", false, "Disable generative analysis for all slots")
	cmd.Flags().StringVar(&flags.Model, "model", "", "Override the provider model for this run")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "Per-call generative timeout (default: from config)")
	cmd.Flags().StringSliceVar(&flags.Include, "include", nil, "Glob pattern selecting snapshot locations (repeatable)")
	cmd.Flags().StringSliceVar(&flags.Exclude, "exclude", nil, "Glob pattern excluding snapshot locations (repeatable)")
	cmd.Flags().StringVar(&flags.SourceDir, "source-dir", "", "Directory holding the test source files")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Output recommendations as JSON")
	cmd.Flags().BoolVar(&flags.FailOnAdvice, "fail-on-advice", false, "Exit 2 when any snapshot draws an actionable recommendation")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Write the report to a file instead of stdout")

	// Shell completion for --slots and --heuristic-only: the known slot names.
	slotCompletion := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(signal.Slots()))
		for i, s := range signal.Slots() {
			names[i] = string(s)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
	_ = cmd.RegisterFlagCompletionFunc("slots", slotCompletion)
	_ = cmd.RegisterFlagCompletionFunc("heuristic-only", slotCompletion)

	return cmd
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

// runAnalyze is the RunE implementation for the analyze command. It wires
// together config loading, snapshot filtering, the analyzer orchestrator, the
// consensus engine, and report rendering.
func runAnalyze(cmd *cobra.Command, profilePath string, flags analyzeFlags) error {
	logger := logging.New("analyze")

	// Step 1: Load and validate configuration.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Step 2: Merge flags over config. Flags win wherever both are set.
	slots, err := resolveSlots(flags.Slots, cfg.Analysis.Slots)
	if err != nil {
		return err
	}
	heuristicOnly, err := resolveHeuristicOnly(flags.HeuristicOnly, cfg.Analysis.HeuristicOnly)
	if err != nil {
		return err
	}
	timeout := cfg.Analysis.Timeout()
	if flags.Timeout > 0 {
		timeout = flags.Timeout
	}
	include := cfg.Profile.Include
	if len(flags.Include) > 0 {
		include = flags.Include
	}
	exclude := cfg.Profile.Exclude
	if len(flags.Exclude) > 0 {
		exclude = flags.Exclude
	}

	// Step 3: Load the profile report and select snapshots.
	rep, err := profile.LoadReport(profilePath)
	if err != nil {
		return err
	}
	snapshots, err := profile.Filter(rep.Snapshots, include, exclude)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots to analyze (empty report or all filtered out).")
		return nil
	}
	logger.Debug("snapshots selected",
		"total", len(rep.Snapshots),
		"selected", len(snapshots),
		"suite", rep.Suite,
	)

	// Step 4: Construct the provider, unless this is a heuristic-only run.
	var prov provider.Provider
	if !flags.Heuristic && cfg.Provider.Command != "" {
		cp := provider.NewCommandProvider(cfg.Provider.Command, cfg.Provider, logging.New("provider"))
		if err := cp.CheckPrerequisites(); err != nil {
			logger.Warn("provider unavailable, falling back to heuristics", "error", err)
		} else {
			prov = cp
		}
	}

	// Step 5: Assemble the analysis pipeline.
	orchestrator := analyzer.NewOrchestrator(
		analyzer.DefaultRegistry(),
		prov,
		analyzer.Options{
			Slots:             slots,
			HeuristicOnly:     heuristicOnly,
			GenerativeTimeout: timeout,
			Concurrency:       cfg.Analysis.Concurrency,
			Model:             flags.Model,
		},
		logging.New("analyzer"),
	)
	engine := consensus.NewEngine(cfg.Consensus)
	adv := advisor.New(orchestrator, engine, logging.New("advisor"))

	// Step 6: Set up signal handling for graceful Ctrl+C.
	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Step 7: Advise each snapshot in report order.
	advices := make([]*advisor.Advice, 0, len(snapshots))
	for _, snap := range snapshots {
		advice, aerr := adv.Advise(ctx, snap, readSource(flags.SourceDir, snap.Location, logger))
		if aerr != nil {
			if errors.Is(aerr, context.Canceled) {
				fmt.Fprintln(cmd.ErrOrStderr(), "\nAnalysis cancelled.")
				return aerr
			}
			return fmt.Errorf("analyzing %s: %w", snap.Location, aerr)
		}
		advices = append(advices, advice)
	}

	// Step 8: Render the report.
	out := cmd.OutOrStdout()
	if flags.Output != "" {
		f, ferr := os.Create(flags.Output)
		if ferr != nil {
			return fmt.Errorf("creating output file %q: %w", flags.Output, ferr)
		}
		defer f.Close()
		out = f
	}
	if flags.JSON {
		if err := report.RenderJSON(out, advices); err != nil {
			return fmt.Errorf("rendering JSON report: %w", err)
		}
	} else {
		for _, advice := range advices {
			if err := report.RenderText(out, advice); err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			fmt.Fprintln(out)
		}
		report.Summary(out, advices)
	}
	if flags.Output != "" {
		logger.Info("report written", "path", flags.Output)
	}

	// Step 9: Map the result to an exit code.
	if code := report.ExitCode(advices, flags.FailOnAdvice); code != report.ExitOK {
		// os.Exit is required here because RunE returning a non-nil error
		// always produces exit code 1. Exit code 2 is a semantic signal
		// ("advice found"), not an error, and must bypass Cobra's
		// error-handling path.
		os.Exit(code)
	}
	return nil
}

// resolveSlots merges the --slots flag over the configured slot list and
// parses the names.
func resolveSlots(flagValue string, configured []string) ([]signal.Slot, error) {
	names := configured
	if flagValue != "" {
		names = splitList(flagValue)
	}
	slots := make([]signal.Slot, 0, len(names))
	for _, name := range names {
		s := signal.Slot(name)
		if !signal.KnownSlot(s) {
			return nil, fmt.Errorf("unknown slot %q: available slots are: %s", name, knownSlotNames())
		}
		slots = append(slots, s)
	}
	return slots, nil
}

// resolveHeuristicOnly merges the --heuristic-only flag over the configured
// list into the set shape the orchestrator takes.
func resolveHeuristicOnly(flagValue string, configured []string) (map[signal.Slot]bool, error) {
	names := configured
	if flagValue != "" {
		names = splitList(flagValue)
	}
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[signal.Slot]bool, len(names))
	for _, name := range names {
		s := signal.Slot(name)
		if !signal.KnownSlot(s) {
			return nil, fmt.Errorf("unknown slot %q in heuristic-only list: available slots are: %s", name, knownSlotNames())
		}
		set[s] = true
	}
	return set, nil
}

// readSource loads the test source file a snapshot location points at.
// Missing files are not an error: analysis runs on telemetry alone.
func readSource(dir, location string, logger *log.Logger) string {
	if dir == "" {
		return ""
	}
	path := location
	if i := strings.LastIndex(path, ":"); i > 0 {
		if _, err := strconv.Atoi(path[i+1:]); err == nil {
			path = path[:i]
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		logger.Debug("no source file for snapshot", "location", location, "error", err)
		return ""
	}
	return string(data)
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// knownSlotNames renders the valid slot names for error messages.
func knownSlotNames() string {
	names := make([]string, len(signal.Slots()))
	for i, s := range signal.Slots() {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
