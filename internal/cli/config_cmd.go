package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/config"
)

// configCmd is the parent "config" namespace command. It has no action of its
// own -- it groups show and validate subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Inspect and validate lightspec configuration.",
	// RunE shows help when invoked with no subcommand.
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// configShowCmd implements "lightspec config show".
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the effective configuration: the discovered lightspec.toml (or
the --config path) merged over the built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, path, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		printConfig(cmd, cfg, path)
		return nil
	},
}

// configValidateCmd implements "lightspec config validate".
// It validates the loaded configuration and reports all errors and warnings.
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and report issues",
	Long:  "Check the configuration for errors and warnings.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, meta, _, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		result := config.Validate(cfg, meta)
		printValidationResult(cmd, result)
		if result.HasErrors() {
			return fmt.Errorf("configuration has %d error(s)", len(result.Errors()))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// ---- Lipgloss styles --------------------------------------------------------

var (
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleSection  = lipgloss.NewStyle().Bold(true)
	styleErrorLbl = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // red
	styleWarnLbl  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true) // yellow
	styleSuccess  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
)

// ---- printConfig ------------------------------------------------------------

const fieldWidth = 24 // column width for field names

// printConfig writes the formatted effective configuration to cmd's output
// writer (stdout by default).
func printConfig(cmd *cobra.Command, cfg *config.Config, path string) {
	out := cmd.OutOrStdout()

	header := styleHeader.Render("Effective Configuration")
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, strings.Repeat("=", len("Effective Configuration")))
	fmt.Fprintln(out)

	if path != "" {
		fmt.Fprintf(out, "Config file: %s\n", path)
	} else {
		fmt.Fprintln(out, "Config file: none found (using defaults)")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSection.Render("[profile]"))
	printField(out, "include", fmtSlice(cfg.Profile.Include))
	printField(out, "exclude", fmtSlice(cfg.Profile.Exclude))
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSection.Render("[analysis]"))
	printField(out, "slots", fmtSlice(cfg.Analysis.Slots))
	printField(out, "heuristic_only", fmtSlice(cfg.Analysis.HeuristicOnly))
	printField(out, "generative_timeout", fmtStr(cfg.Analysis.Timeout().String()))
	printField(out, "concurrency", fmt.Sprintf("%d", cfg.Analysis.Concurrency))
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSection.Render("[provider]"))
	printField(out, "command", fmtStr(cfg.Provider.Command))
	printField(out, "args", fmtSlice(cfg.Provider.Args))
	printField(out, "model", fmtStr(cfg.Provider.Model))
	printField(out, "model_flag", fmtStr(cfg.Provider.ModelFlag))
	printField(out, "prompt_flag", fmtStr(cfg.Provider.PromptFlag))
	printField(out, "system_prompt_flag", fmtStr(cfg.Provider.SystemPromptFlag))
	fmt.Fprintln(out)

	fmt.Fprintln(out, styleSection.Render("[consensus]"))
	// Rendering the struct through the TOML encoder keeps the field list in
	// one place instead of repeating every threshold here.
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg.Consensus); err == nil {
		for _, line := range strings.Split(strings.TrimSpace(sb.String()), "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

// printField writes a single key = value line.
func printField(out io.Writer, name, value string) {
	fmt.Fprintf(out, "  %-*s = %s\n", fieldWidth, name, value)
}

// fmtStr formats a string value for display (quoted).
func fmtStr(s string) string {
	return fmt.Sprintf("%q", s)
}

// fmtSlice formats a string slice for display.
func fmtSlice(ss []string) string {
	if len(ss) == 0 {
		return "[]"
	}
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// ---- printValidationResult --------------------------------------------------

// printValidationResult writes the formatted validation report to cmd's
// output writer.
func printValidationResult(cmd *cobra.Command, result *config.ValidationResult) {
	out := cmd.OutOrStdout()

	header := styleHeader.Render("Configuration Validation")
	fmt.Fprintln(out, header)
	fmt.Fprintln(out, strings.Repeat("=", len("Configuration Validation")))
	fmt.Fprintln(out)

	errs := result.Errors()
	warns := result.Warnings()

	if len(errs) == 0 && len(warns) == 0 {
		fmt.Fprintln(out, styleSuccess.Render("No issues found."))
		return
	}

	if len(errs) > 0 {
		fmt.Fprintln(out, styleErrorLbl.Render("Errors:"))
		for _, issue := range errs {
			fmt.Fprintf(out, "  [%s] %s\n", issue.Field, issue.Message)
		}
		fmt.Fprintln(out)
	}

	if len(warns) > 0 {
		fmt.Fprintln(out, styleWarnLbl.Render("Warnings:"))
		for _, issue := range warns {
			fmt.Fprintf(out, "  [%s] %s\n", issue.Field, issue.Message)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%d error(s), %d warning(s)\n", len(errs), len(warns))
}
