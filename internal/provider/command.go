package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Compile-time check that CommandProvider implements Provider.
var _ Provider = (*CommandProvider)(nil)

// commandLogger is the minimal logging interface required by CommandProvider.
// It accepts a message and structured key-value pairs.
type commandLogger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

var (
	// reRateLimit matches common rate-limit phrases in model CLI output.
	reRateLimit = regexp.MustCompile(`(?i)(?:rate limit|too many requests|rate.?limited)`)

	// reResetTime matches "reset in N seconds/minutes/hours" patterns.
	reResetTime = regexp.MustCompile(`(?i)reset\s+(?:in\s+)?(\d+)\s*(seconds?|minutes?|hours?)`)

	// reTryAgain matches "try again in N seconds/minutes/hours" patterns.
	reTryAgain = regexp.MustCompile(`(?i)try\s+again\s+in\s+(\d+)\s*(seconds?|minutes?|hours?)`)
)

// CommandConfig holds the CLI invocation shape for a command-backed provider.
// It maps to the [provider] section in lightspec.toml.
type CommandConfig struct {
	// Command is the executable name (e.g. "claude", "gemini").
	Command string `toml:"command"`

	// Args are base arguments prepended to every invocation.
	Args []string `toml:"args"`

	// Model is the model identifier passed via ModelFlag.
	Model string `toml:"model"`

	// ModelFlag is the flag used to pass the model (default "--model").
	ModelFlag string `toml:"model_flag"`

	// PromptFlag is the flag used to pass the prompt (default "--prompt").
	PromptFlag string `toml:"prompt_flag"`

	// SystemPromptFlag is the flag used to pass the system prompt; when
	// empty the system prompt is prepended to the user prompt instead.
	SystemPromptFlag string `toml:"system_prompt_flag"`
}

// CommandProvider executes generation requests by shelling out to a model
// CLI. It handles argument construction, subprocess execution, output
// capture, and rate-limit detection. Cancellation and the per-call timeout
// arrive via the context: exec.CommandContext kills the subprocess when the
// context expires, so an abandoned call never outlives the analysis run.
type CommandProvider struct {
	name   string
	config CommandConfig
	logger commandLogger
}

// NewCommandProvider creates a CommandProvider with the given name and
// configuration. The logger may be nil, in which case debug messages are
// silently discarded.
func NewCommandProvider(name string, config CommandConfig, logger commandLogger) *CommandProvider {
	return &CommandProvider{
		name:   name,
		config: config,
		logger: logger,
	}
}

// Name returns the provider identifier.
func (p *CommandProvider) Name() string { return p.name }

// CheckPrerequisites verifies that the configured CLI executable can be found
// on the system PATH.
func (p *CommandProvider) CheckPrerequisites() error {
	cmd := p.command()
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Errorf("provider %s: CLI %q not found on PATH: %w", p.name, cmd, err)
	}
	return nil
}

// Generate runs one prompt through the CLI and returns the captured stdout.
// A non-zero exit, a detected rate limit, or a context timeout are all
// returned as errors; the orchestrator converts any of them into a heuristic
// fallback.
func (p *CommandProvider) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	cmd := p.buildCommand(ctx, req)

	if p.logger != nil {
		p.logger.Debug("running provider",
			"provider", p.name,
			"command", cmd.Path,
			"args", cmd.Args,
		)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	duration := time.Since(start)

	combined := stdoutBuf.String() + stderrBuf.String()
	if limited, resetAfter := parseRateLimit(combined); limited {
		return nil, fmt.Errorf("provider %s: %w (reset in %s)", p.name, ErrRateLimited, resetAfter)
	}

	if runErr != nil {
		// Surface the context error when the call was timed out or
		// cancelled so callers can distinguish it from a backend failure.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("provider %s: %w", p.name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("provider %s: exit code %d: %s",
				p.name, exitErr.ExitCode(), strings.TrimSpace(stderrBuf.String()))
		}
		return nil, fmt.Errorf("provider %s: running %s: %w", p.name, p.command(), runErr)
	}

	return &Result{
		Text:     stdoutBuf.String(),
		Duration: duration,
	}, nil
}

// command returns the configured executable name, defaulting to the provider
// name itself.
func (p *CommandProvider) command() string {
	if p.config.Command != "" {
		return p.config.Command
	}
	return p.name
}

// buildCommand constructs the *exec.Cmd for the given request.
func (p *CommandProvider) buildCommand(ctx context.Context, req Request) *exec.Cmd {
	args := append([]string{}, p.config.Args...)

	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model != "" {
		flag := p.config.ModelFlag
		if flag == "" {
			flag = "--model"
		}
		args = append(args, flag, model)
	}

	prompt := req.Prompt
	if req.SystemPrompt != "" {
		if p.config.SystemPromptFlag != "" {
			args = append(args, p.config.SystemPromptFlag, req.SystemPrompt)
		} else {
			// No dedicated flag: fold the system prompt into the user prompt.
			prompt = req.SystemPrompt + "\n\n" + prompt
		}
	}

	promptFlag := p.config.PromptFlag
	if promptFlag == "" {
		promptFlag = "--prompt"
	}
	args = append(args, promptFlag, prompt)

	return exec.CommandContext(ctx, p.command(), args...)
}

// parseRateLimit examines output for rate-limit signals and returns the
// parsed reset duration when one is advertised.
func parseRateLimit(output string) (bool, time.Duration) {
	if !reRateLimit.MatchString(output) {
		return false, 0
	}

	var resetAfter time.Duration
	if m := reResetTime.FindStringSubmatch(output); len(m) == 3 {
		resetAfter = parseResetDuration(m[1], m[2])
	} else if m := reTryAgain.FindStringSubmatch(output); len(m) == 3 {
		resetAfter = parseResetDuration(m[1], m[2])
	}
	return true, resetAfter
}

// parseResetDuration converts a numeric string and a time unit word into a
// time.Duration. Unrecognised units return 0.
func parseResetDuration(amount string, unit string) time.Duration {
	n, err := strconv.Atoi(amount)
	if err != nil || n <= 0 {
		return 0
	}

	unit = strings.ToLower(unit)
	switch {
	case strings.HasPrefix(unit, "second"):
		return time.Duration(n) * time.Second
	case strings.HasPrefix(unit, "minute"):
		return time.Duration(n) * time.Minute
	case strings.HasPrefix(unit, "hour"):
		return time.Duration(n) * time.Hour
	default:
		return 0
	}
}
