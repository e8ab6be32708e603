// Package advisor wires the analyzer orchestrator and the consensus engine
// into the end-to-end pipeline for one snapshot.
//
// The advisor is also the degradation boundary: an unexpected panic inside
// the decision logic is converted into a low-confidence no_action
// recommendation instead of crashing the caller. A missing or invalid
// snapshot stays a hard error, which is "no analysis possible" rather than
// "no action recommended".
package advisor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/analyzer"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/consensus"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// Advice is the full result of analyzing one snapshot.
type Advice struct {
	// Snapshot is the analyzed input, unchanged.
	Snapshot *profile.Snapshot `json:"snapshot"`

	// Signals are the per-slot signals in enabled-slot order.
	Signals []*signal.Signal `json:"signals"`

	// Outcomes are the per-slot execution records, aligned with Signals.
	Outcomes []*analyzer.Outcome `json:"-"`

	// Recommendation is the consensus engine's output. Never nil.
	Recommendation *consensus.Recommendation `json:"recommendation"`
}

// Advisor runs the full analysis pipeline for snapshots.
type Advisor struct {
	orchestrator *analyzer.Orchestrator
	engine       *consensus.Engine
	logger       *log.Logger
}

// New creates an Advisor. logger may be nil.
func New(orchestrator *analyzer.Orchestrator, engine *consensus.Engine, logger *log.Logger) *Advisor {
	return &Advisor{
		orchestrator: orchestrator,
		engine:       engine,
		logger:       logger,
	}
}

// Advise analyzes one snapshot end to end. source is the optional test
// source text. The returned error is non-nil only for an invalid snapshot or
// a cancelled context; every other failure degrades into the recommendation
// itself.
func (a *Advisor) Advise(ctx context.Context, snap *profile.Snapshot, source string) (*Advice, error) {
	signals, outcomes, err := a.orchestrator.Run(ctx, snap, source)
	if err != nil {
		return nil, fmt.Errorf("advisor: %w", err)
	}

	rec := a.decide(signals, snap)

	if a.logger != nil {
		a.logger.Info("analysis complete",
			"location", snap.Location,
			"action", rec.Action,
			"confidence", rec.Confidence,
			"reason", rec.Reason,
		)
	}

	return &Advice{
		Snapshot:       snap,
		Signals:        signals,
		Outcomes:       outcomes,
		Recommendation: rec,
	}, nil
}

// decide invokes the consensus engine with panic isolation.
func (a *Advisor) decide(signals []*signal.Signal, snap *profile.Snapshot) (rec *consensus.Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			if a.logger != nil {
				a.logger.Error("consensus engine panicked, degrading to no_action", "panic", r)
			}
			rec = &consensus.Recommendation{
				Action:     consensus.ActionNone,
				Confidence: signal.ConfidenceLow,
				Reason:     consensus.ReasonInternalFailure,
				Explanation: []string{
					fmt.Sprintf("internal failure during consensus: %v", r),
				},
			}
		}
	}()

	return a.engine.Decide(signals, snap)
}
