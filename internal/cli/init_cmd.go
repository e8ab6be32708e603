package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/config"
)

var initFlagForce bool

// initCmd implements "lightspec init". It writes a commented starter
// lightspec.toml into the working directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter lightspec.toml",
	Long: `Write a commented starter lightspec.toml into the current directory.
Every value in the scaffold is the built-in default, so the file changes
nothing until edited. An existing file is preserved unless --force is
supplied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(".", config.ConfigFileName)
		if err := config.WriteStarter(path, initFlagForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
