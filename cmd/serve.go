package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bitrise-io/ai-verse-processor/server"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the processor and the history over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := loadSettings()
		if cmd.Flags().Changed("addr") {
			settings.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		if logLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, settings, nil)
		if err != nil {
			return err
		}
		defer a.Close()

		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		handler := server.NewHandler(a.processor, a.store, settings.Processor)
		router := server.NewRouter(handler, settings.Server, a.registry)
		return server.Run(ctx, settings.Server.Addr, router)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
