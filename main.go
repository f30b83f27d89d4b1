package main

import (
	"os"

	"github.com/bitrise-io/ai-verse-processor/cmd"
	"github.com/bitrise-io/ai-verse-processor/logger"
)

func main() {
	defer logger.Sync()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
