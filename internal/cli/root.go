package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/config"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagNoColor bool
)

// rootCmd is the base command for lightspec.
var rootCmd = &cobra.Command{
	Use:   "lightspec",
	Short: "Unit test optimization advisor",
	Long: `Lightspec turns per-test profiling telemetry into concrete optimization
advice. It reads a profile report collected from a test suite run, analyzes
each snapshot across several independent domains (object construction,
persistence usage, test boundary, refactoring safety), and combines the
resulting signals into a single recommendation per test.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check env vars for flags not explicitly set on command line.
		if !cmd.Flags().Changed("verbose") && os.Getenv("LIGHTSPEC_VERBOSE") != "" {
			flagVerbose = true
		}
		if !cmd.Flags().Changed("quiet") && os.Getenv("LIGHTSPEC_QUIET") != "" {
			flagQuiet = true
		}
		if !cmd.Flags().Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("LIGHTSPEC_NO_COLOR") != "") {
			flagNoColor = true
		}

		// Initialize logging.
		jsonFormat := os.Getenv("LIGHTSPEC_LOG_FORMAT") == "json"
		logging.Setup(flagVerbose, flagQuiet, jsonFormat)

		// Handle --no-color: disable colored output.
		if flagNoColor {
			lipgloss.SetColorProfile(termenv.Ascii)
		}

		// Handle --dir (change working directory).
		if flagDir != "" {
			if err := os.Chdir(flagDir); err != nil {
				return fmt.Errorf("changing directory to %s: %w", flagDir, err)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose (debug) output (env: LIGHTSPEC_VERBOSE)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress all output except errors (env: LIGHTSPEC_QUIET)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to lightspec.toml config file")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Override working directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output (env: LIGHTSPEC_NO_COLOR, NO_COLOR)")
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// loadConfig loads the configuration honouring the global --config flag and
// fails on validation errors. Validation warnings are logged, not fatal.
func loadConfig() (*config.Config, error) {
	cfg, md, path, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	logger := logging.New("config")
	if path != "" {
		logger.Debug("loaded config", "path", path)
	} else {
		logger.Debug("no config file found, using defaults")
	}

	vr := config.Validate(cfg, md)
	for _, warn := range vr.Warnings() {
		logger.Warn(warn.Message, "field", warn.Field)
	}
	if vr.HasErrors() {
		var sb strings.Builder
		sb.WriteString("invalid configuration")
		if path != "" {
			fmt.Fprintf(&sb, " in %s", path)
		}
		for _, e := range vr.Errors() {
			fmt.Fprintf(&sb, "\n  %s: %s", e.Field, e.Message)
		}
		return nil, errors.New(sb.String())
	}

	return cfg, nil
}
