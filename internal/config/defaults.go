package config

import (
	"time"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/analyzer"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/consensus"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/provider"
)

// NewDefaults returns a Config populated with all default values. With no
// [provider] command configured, analysis runs heuristics only.
func NewDefaults() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			GenerativeTimeout: Duration{analyzer.DefaultGenerativeTimeout},
			Concurrency:       analyzer.DefaultConcurrency,
		},
		Provider: provider.CommandConfig{
			ModelFlag: "--model",
		},
		Consensus: consensus.DefaultParams(),
	}
}

// Timeout returns the configured generative timeout, defaulted when unset.
func (a AnalysisConfig) Timeout() time.Duration {
	if a.GenerativeTimeout.Duration <= 0 {
		return analyzer.DefaultGenerativeTimeout
	}
	return a.GenerativeTimeout.Duration
}
