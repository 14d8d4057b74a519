package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"runcoach/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.GetConfigDir()
		if err != nil {
			return err
		}

		created, err := config.CreateExample()
		if err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}

		out := cmd.OutOrStdout()
		if !created {
			fmt.Fprintf(out, "Config already exists at %s/config.json\n", dir)
			return nil
		}
		fmt.Fprintf(out, "Wrote example config to %s/config.json\n", dir)
		fmt.Fprintln(out, "Set your level, typical pace and run goal there.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
