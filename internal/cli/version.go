package cmd

import (
	"fmt"

	"github.com/rohmanhakim/fake-xhr/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Summary(rootCmd.Name()))
	},
}
