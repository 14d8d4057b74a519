package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"runcoach/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in scenarios",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s %7s %9s  %s\n", "NAME", "SAMPLES", "DURATION", "DESCRIPTION")
		for _, name := range scenario.Names() {
			s, _ := scenario.Builtin(name)
			fmt.Fprintf(out, "%-16s %7d %9s  %s\n", s.Name, len(s.Samples), s.Duration(), s.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}
