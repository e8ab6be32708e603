package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/provider"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// DefaultGenerativeTimeout bounds each generative call. Conservative on
// purpose: a slow provider is indistinguishable from a hung one, and the
// heuristic fallback is always available.
const DefaultGenerativeTimeout = 30 * time.Second

// DefaultConcurrency is the slot fan-out limit when none is configured.
const DefaultConcurrency = 4

// Options configures one Orchestrator.
type Options struct {
	// Slots is the enabled slot list in execution order. Empty enables all
	// registered slots.
	Slots []signal.Slot

	// HeuristicOnly forces the heuristic implementation for specific slots
	// even when a provider is configured.
	HeuristicOnly map[signal.Slot]bool

	// GenerativeTimeout bounds each generative call. Zero means
	// DefaultGenerativeTimeout.
	GenerativeTimeout time.Duration

	// Concurrency caps how many slots run simultaneously. Values <= 0 are
	// clamped to DefaultConcurrency.
	Concurrency int

	// Model overrides the provider's configured model for all slots.
	Model string
}

// Orchestrator runs the enabled analyzer slots for one snapshot. Slots are
// independent: they share no mutable state, each may run generative-first
// with heuristic fallback, and one slot's failure never aborts the run. The
// orchestrator returns a signal for every enabled slot even under total
// provider unavailability.
type Orchestrator struct {
	registry *Registry
	provider provider.Provider // nil means heuristic-only execution
	opts     Options
	logger   *log.Logger
}

// NewOrchestrator creates an Orchestrator. prov may be nil, which forces
// heuristic execution for every slot. logger may be nil.
func NewOrchestrator(registry *Registry, prov provider.Provider, opts Options, logger *log.Logger) *Orchestrator {
	if opts.GenerativeTimeout <= 0 {
		opts.GenerativeTimeout = DefaultGenerativeTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		registry: registry,
		provider: prov,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes all enabled slots against the snapshot and returns their
// signals and execution outcomes in enabled-slot order. source is the
// optional test source text.
//
// The only hard errors are a missing/invalid snapshot and context
// cancellation; per-slot failures are absorbed into the returned signals.
func (o *Orchestrator) Run(ctx context.Context, snap *profile.Snapshot, source string) ([]*signal.Signal, []*Outcome, error) {
	if err := snap.Validate(); err != nil {
		return nil, nil, fmt.Errorf("analyzer: orchestrator: %w", err)
	}

	slots, err := o.registry.Resolve(o.opts.Slots)
	if err != nil {
		return nil, nil, fmt.Errorf("analyzer: orchestrator: %w", err)
	}

	if o.logger != nil {
		o.logger.Debug("analysis started",
			"location", snap.Location,
			"fingerprint", fmt.Sprintf("%016x", snap.Fingerprint()),
			"slots", len(slots),
			"generative", o.provider != nil,
		)
	}

	// Indexed result slices keep the output in enabled-slot order without a
	// mutex: each worker writes only its own index. The order is part of the
	// contract — the consensus engine's final tie-break is first-seen order.
	signals := make([]*signal.Signal, len(slots))
	outcomes := make([]*Outcome, len(slots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)

	for i, slot := range slots {
		i, slot := i, slot
		g.Go(func() error {
			signals[i], outcomes[i] = o.runSlot(gctx, slot, snap, source)
			// ALWAYS return nil — per-slot failures must not abort the group.
			return nil
		})
	}

	// The only non-nil error from g.Wait() would be context cancellation,
	// which is surfaced to the caller.
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("analyzer: orchestrator: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("analyzer: orchestrator: %w", err)
	}

	return signals, outcomes, nil
}

// runSlot executes one slot to completion: an optional generative attempt
// under the per-call timeout, then the heuristic, then the synthetic failed
// signal. It always returns a non-nil signal and outcome.
func (o *Orchestrator) runSlot(ctx context.Context, slot Slot, snap *profile.Snapshot, source string) (*signal.Signal, *Outcome) {
	name := slot.Name()
	outcome := newOutcome(name)

	generative := o.provider != nil && !o.opts.HeuristicOnly[name]
	if generative {
		// State transitions on built-in paths cannot fail; errors here would
		// indicate an orchestrator bug and are deliberately ignored.
		_ = outcome.BeginGenerative()

		callCtx, cancel := context.WithTimeout(ctx, o.opts.GenerativeTimeout)
		sig, err := runGenerative(callCtx, o.provider, slot, snap, source, o.opts.Model)
		cancel()

		if err == nil {
			_ = outcome.EndGenerative(StatusSuccess, nil)
			sig.WithMeta(signal.MetaExecutionMode, signal.ModeGenerative)
			sig.WithMeta(signal.MetaFallback, false)
			if o.logger != nil {
				o.logger.Debug("slot completed", "slot", name, "mode", signal.ModeGenerative, "verdict", sig.Verdict)
			}
			return sig, outcome
		}

		status := StatusError
		if errors.Is(err, context.DeadlineExceeded) {
			status = StatusTimeout
		}
		_ = outcome.EndGenerative(status, err)

		if o.logger != nil {
			o.logger.Warn("generative attempt failed, falling back",
				"slot", name,
				"status", status,
				"error", err,
			)
		}
	}

	_ = outcome.BeginFallback()
	sig, err := safeHeuristic(slot, snap, source)
	if err != nil {
		_ = outcome.EndFallback(StatusFailure, err)
		if o.logger != nil {
			o.logger.Error("heuristic failed, synthesizing failed signal", "slot", name, "error", err)
		}
		sig = failedSignal(name, err)
	} else {
		_ = outcome.EndFallback(StatusSuccess, nil)
	}

	sig.WithMeta(signal.MetaExecutionMode, signal.ModeHeuristic)
	sig.WithMeta(signal.MetaFallback, generative)
	if o.logger != nil {
		o.logger.Debug("slot completed", "slot", name, "mode", signal.ModeHeuristic, "verdict", sig.Verdict, "fallback", generative)
	}
	return sig, outcome
}

// safeHeuristic invokes the slot heuristic with panic isolation: a panicking
// heuristic is converted into an error so the slot degrades to the failed
// signal instead of killing the run.
func safeHeuristic(slot Slot, snap *profile.Snapshot, source string) (sig *signal.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig = nil
			err = fmt.Errorf("analyzer: %s: heuristic panicked: %v", slot.Name(), r)
		}
	}()

	sig, err = slot.Heuristic(snap, source)
	if err == nil && sig == nil {
		err = fmt.Errorf("analyzer: %s: heuristic returned no signal", slot.Name())
	}
	if err == nil {
		if verr := sig.Validate(); verr != nil {
			err = fmt.Errorf("analyzer: %s: heuristic produced invalid signal: %w", slot.Name(), verr)
			sig = nil
		}
	}
	return sig, err
}

// failedSignal synthesizes the terminal signal for a slot whose both
// implementations failed.
func failedSignal(slot signal.Slot, cause error) *signal.Signal {
	sig, err := signal.New(slot, signal.VerdictFailed, signal.ConfidenceLow,
		fmt.Sprintf("analysis failed: %v", cause))
	if err != nil {
		// Every slot vocabulary contains "failed"; reaching this would be a
		// vocabulary regression caught by the signal package tests.
		panic(fmt.Sprintf("analyzer: cannot synthesize failed signal for %s: %v", slot, err))
	}
	return sig
}
