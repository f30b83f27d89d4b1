package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bitrise-io/ai-verse-processor/history"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/bitrise-io/ai-verse-processor/render"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage past requests",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past requests, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), loadSettings())
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintln(cmd.OutOrStdout(), render.New(0).History(store.List(), store.SelectedID()))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the text and options of a past request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context(), loadSettings())
		if err != nil {
			return err
		}
		defer store.Close()

		item, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", history.ErrItemNotFound, args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.New(wrapWidth(cmd.Flags())).Item(item))
		return nil
	},
}

var historySelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a past request and process it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), loadSettings(), nil)
		if err != nil {
			return err
		}
		defer a.Close()

		result, item, err := a.processor.Reprocess(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.New(wrapWidth(cmd.Flags())).Result(result, item.Config.OutputMode))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), "¿Estás seguro de borrar todo el historial? [s/N] ") {
			logger.Info("History was not cleared")
			return nil
		}

		store, err := openStore(cmd.Context(), loadSettings())
		if err != nil {
			return err
		}
		defer store.Close()

		count := store.Len()
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		logger.Infof("Cleared %d history items", count)
		return nil
	},
}

// confirm asks question on out and reports whether the answer on in was yes
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprint(out, question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historySelectCmd, historyClearCmd)

	historyShowCmd.Flags().Int("width", 100, "Wrap text at this many characters (0 disables wrapping)")
	historySelectCmd.Flags().Int("width", 100, "Wrap verses at this many characters (0 disables wrapping)")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
