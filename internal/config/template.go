package config

import (
	"fmt"
	"os"
)

// StarterConfig is the commented lightspec.toml scaffold written by
// `lightspec init`. Every value shown is the built-in default, so the file is
// a no-op until edited.
const StarterConfig = `# lightspec configuration
# See: lightspec slots, lightspec config show

[profile]
# Doublestar glob patterns matched against snapshot locations.
# Empty include admits every snapshot.
# include = ["spec/models/**"]
# exclude = ["spec/legacy/**"]

[analysis]
# Slots to run, in order. Empty enables all: construction, persistence,
# boundary, safety.
# slots = ["construction", "persistence", "boundary", "safety"]

# Slots forced to their deterministic heuristic even with a provider.
# heuristic_only = ["safety"]

# Per-call generative timeout and slot fan-out limit.
# generative_timeout = "30s"
# concurrency = 4

[provider]
# Model CLI used for generative analysis. Leave command empty to run
# heuristics only.
# command = "claude"
# args = ["--print"]
# model = "sonnet"
# model_flag = "--model"
# prompt_flag = "--prompt"
# system_prompt_flag = "--system-prompt"

[consensus]
# Voting and risk thresholds. Unset values use the built-in defaults.
# generative_source_weight = 1.5
# min_agreement = 2
`

// WriteStarter writes the starter configuration to path. An existing file is
// preserved unless force is set.
func WriteStarter(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(StarterConfig), 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
