// Package config loads and validates lightspec.toml.
package config

import (
	"time"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/consensus"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/provider"
)

// Config is the top-level configuration structure mapping to lightspec.toml.
type Config struct {
	Profile   ProfileConfig          `toml:"profile"`
	Analysis  AnalysisConfig         `toml:"analysis"`
	Provider  provider.CommandConfig `toml:"provider"`
	Consensus consensus.Params       `toml:"consensus"`
}

// ProfileConfig maps to the [profile] section: which snapshots from a
// profile report are analyzed.
type ProfileConfig struct {
	// Include and Exclude are doublestar glob patterns matched against
	// snapshot locations (file path part, line suffix stripped). Empty
	// Include admits everything.
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// AnalysisConfig maps to the [analysis] section.
type AnalysisConfig struct {
	// Slots is the enabled slot list in execution order. Empty enables all.
	Slots []string `toml:"slots"`

	// HeuristicOnly forces the heuristic implementation for these slots
	// even when a provider is configured.
	HeuristicOnly []string `toml:"heuristic_only"`

	// GenerativeTimeout bounds each generative call, e.g. "30s".
	GenerativeTimeout Duration `toml:"generative_timeout"`

	// Concurrency caps how many slots run simultaneously.
	Concurrency int `toml:"concurrency"`
}

// Duration is a time.Duration that unmarshals from TOML strings like "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
