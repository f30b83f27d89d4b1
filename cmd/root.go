package cmd

import (
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	logLevel     string
	settingsPath string
	ephemeral    bool
)

var rootCmd = &cobra.Command{
	Use:   "verse-processor",
	Short: "AI Verse Processor - Structure biblical and editorial text with an LLM",
	Long: `AI Verse Processor sends pasted text or a PDF to a language model together with
a fixed editorial prompt, and turns the answer into a list of verses and a JSON document.
Past requests are kept in a local history.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger with the specified log level
		logger.Init(logLevel)
		logger.Debugf("Log level set to: %s", logLevel)

		if err := godotenv.Load(); err == nil {
			logger.Debug("Loaded environment from .env")
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommands are provided
		cmd.Help()
	},
}

// Execute runs the root command and handles errors
func Execute() error {
	// Subcommands are added in their respective init() functions
	return rootCmd.Execute()
}

func init() {
	// Add persistent flags that will be available to all subcommands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"Path to the settings file (defaults to verses.yml in the current directory)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false,
		"Keep history in memory only for this run")
}
