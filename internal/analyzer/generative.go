package analyzer

import (
	"context"
	"fmt"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/jsonutil"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/profile"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/provider"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// generativePayload is the JSON contract every slot prompt requests from the
// provider. Extra fields are optional risk metadata emitted by the safety
// slot's prompt.
type generativePayload struct {
	Verdict     string   `json:"verdict"`
	Confidence  string   `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	RiskScore   *float64 `json:"risk_score,omitempty"`
	RiskFactors []string `json:"risk_factors,omitempty"`
}

// runGenerative executes one generative analysis call for a slot: build the
// prompt, call the provider under the caller-supplied (already timed) context,
// extract the JSON payload, and validate it against the slot's vocabulary.
// Any failure — transport, timeout, extraction, or structural validation —
// is returned as an error so the caller can fall back to the heuristic.
func runGenerative(ctx context.Context, prov provider.Provider, slot Slot, snap *profile.Snapshot, source, model string) (*signal.Signal, error) {
	req := provider.Request{
		Prompt:       slot.Prompt(snap, source),
		SystemPrompt: slot.SystemPrompt(),
		Model:        model,
	}

	res, err := prov.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %s: generative call: %w", slot.Name(), err)
	}

	var payload generativePayload
	if err := jsonutil.ExtractInto(res.Text, &payload); err != nil {
		return nil, fmt.Errorf("analyzer: %s: extracting response payload: %w", slot.Name(), err)
	}

	// signal.New enforces the structural contract: verdict inside the slot
	// vocabulary and a known confidence level. A response that fails here is
	// a slot failure, never coerced into a default.
	sig, err := signal.New(slot.Name(), signal.Verdict(payload.Verdict),
		signal.Confidence(payload.Confidence), payload.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("analyzer: %s: invalid response: %w", slot.Name(), err)
	}

	if payload.RiskScore != nil {
		sig.WithMeta(signal.MetaRiskScore, *payload.RiskScore)
	}
	if len(payload.RiskFactors) > 0 {
		sig.WithMeta(signal.MetaRiskFactors, payload.RiskFactors)
	}

	return sig, nil
}
