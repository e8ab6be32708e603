package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/analyzer"
	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

var (
	styleSlotName    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleSlotVerdict = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// slotsCmd lists the available analyzer slots and their verdict vocabularies.
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the available analyzer slots",
	Long: `List every analyzer slot with its description and the closed set of
verdicts it can produce. Slot names are valid values for the analyze
command's --slots and --heuristic-only flags and for the [analysis] section
of lightspec.toml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := analyzer.DefaultRegistry()
		out := cmd.OutOrStdout()

		for _, name := range registry.Names() {
			slot, err := registry.Get(name)
			if err != nil {
				return err
			}

			vocab := signal.Vocabulary(name)
			verdicts := make([]string, len(vocab))
			for i, v := range vocab {
				verdicts[i] = string(v)
			}

			fmt.Fprintln(out, styleSlotName.Render(string(name)))
			fmt.Fprintf(out, "  %s\n", slot.Description())
			fmt.Fprintf(out, "  %s\n\n", styleSlotVerdict.Render("verdicts: "+strings.Join(verdicts, ", ")))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}
