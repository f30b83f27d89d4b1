package cmd

import (
	"fmt"

	"github.com/bitrise-io/ai-verse-processor/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version of the verse processor`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "AI Verse Processor v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
