package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/bitrise-io/ai-verse-processor/attachment"
	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/bitrise-io/ai-verse-processor/render"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const nothingToProcess = "Nothing to process: provide text, --file or pipe text on standard input"

var processCmd = &cobra.Command{
	Use:   "process [text]",
	Short: "Process text or a PDF into verses and JSON",
	Long: `Send text to the language model and print the structured result.
Text is taken from the arguments, --text, --file or standard input, in that order.
A PDF passed with --file is attached to the request and --text supplements it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := loadSettings()
		if cmd.Flags().Changed("provider") {
			settings.Provider, _ = cmd.Flags().GetString("provider")
		}
		if cmd.Flags().Changed("model") {
			settings.Model, _ = cmd.Flags().GetString("model")
		}

		config, err := configFromFlags(cmd.Flags(), settings.Processor)
		if err != nil {
			return err
		}

		filePath, _ := cmd.Flags().GetString("file")
		text, _ := cmd.Flags().GetString("text")
		if len(args) > 0 {
			text = strings.Join(args, " ")
		}

		var stdin io.Reader
		if filePath == "" && text == "" && stdinIsPiped() {
			stdin = cmd.InOrStdin()
		}
		input, err := readInput(afero.NewOsFs(), filePath, text, stdin)
		if err != nil {
			return err
		}

		if strings.TrimSpace(input.Text) == "" && input.Attachment == nil {
			logger.Warn(nothingToProcess)
			return nil
		}

		a, err := newApp(cmd.Context(), settings, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.processor.Process(cmd.Context(), input.Text, config, input.Attachment)
		if err != nil {
			return err
		}
		if result.IsEmpty() {
			logger.Warn(nothingToProcess)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), render.New(wrapWidth(cmd.Flags())).Result(result, config.OutputMode))

		if copyResult, _ := cmd.Flags().GetBool("copy"); copyResult {
			if err := clipboard.WriteAll(render.CopyText(result, render.TabFor(config.OutputMode))); err != nil {
				return fmt.Errorf("failed to copy to clipboard: %w", err)
			}
			logger.Info("Result copied to clipboard")
		}
		return nil
	},
}

// configFromFlags overrides defaults with the processor flags that were set
func configFromFlags(flags *pflag.FlagSet, defaults common.ProcessorConfig) (common.ProcessorConfig, error) {
	config := defaults
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		config.OutputMode = common.OutputMode(mode)
	}
	if flags.Changed("separator") {
		separator, _ := flags.GetString("separator")
		config.VerseSeparator = unescapeSeparator(separator)
	}
	if flags.Changed("json-key") {
		config.JSONKey, _ = flags.GetString("json-key")
	}
	if flags.Changed("include-index") {
		config.IncludeIndex, _ = flags.GetBool("include-index")
	}
	if err := config.Validate(); err != nil {
		return common.ProcessorConfig{}, err
	}
	return config, nil
}

// unescapeSeparator turns the shell friendly \n and \t escapes into the characters they name
func unescapeSeparator(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(s)
}

// readInput resolves the request input. A text file replaces text, a PDF is
// attached and text supplements it. stdin is read only when nothing else was given.
func readInput(fs afero.Fs, filePath, text string, stdin io.Reader) (attachment.Input, error) {
	if filePath != "" {
		input, err := attachment.Load(fs, filePath)
		if err != nil {
			return attachment.Input{}, err
		}
		if input.Attachment != nil {
			input.Text = text
			return input, nil
		}
		if strings.TrimSpace(text) != "" {
			return attachment.Input{}, errors.New("--text can only be combined with a PDF file")
		}
		return input, nil
	}

	if text == "" && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return attachment.Input{}, fmt.Errorf("failed to read standard input: %w", err)
		}
		text = string(data)
	}
	return attachment.Input{Text: text}, nil
}

// wrapWidth is the --width flag when set, else the terminal width when stdout is a terminal
func wrapWidth(flags *pflag.FlagSet) int {
	width, _ := flags.GetInt("width")
	if flags.Changed("width") {
		return width
	}
	if columns, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && columns > 0 {
		return columns
	}
	return width
}

func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringP("file", "f", "", "Text, Markdown, CSV, JSON or PDF file to process")
	processCmd.Flags().StringP("text", "t", "", "Text to process")
	processCmd.Flags().String("mode", string(common.OutputBoth), "Output mode: both, verses or json")
	processCmd.Flags().String("separator", "", `Split verses exactly at this separator instead of automatic segmentation (\n and \t are unescaped)`)
	processCmd.Flags().String("json-key", common.DefaultJSONKey, "Name of the content array in the JSON output")
	processCmd.Flags().Bool("include-index", true, "Include verse numbers")
	processCmd.Flags().Bool("copy", false, "Copy the result to the clipboard")
	processCmd.Flags().Int("width", 100, "Wrap verses at this many characters (0 disables wrapping)")
	processCmd.Flags().StringP("provider", "p", common.ProviderGemini, "LLM provider: gemini, openai or anthropic")
	processCmd.Flags().StringP("model", "m", "", "LLM model to use")
}
