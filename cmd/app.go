package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/history"
	"github.com/bitrise-io/ai-verse-processor/llm"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/bitrise-io/ai-verse-processor/processor"
	"github.com/prometheus/client_golang/prometheus"
)

// app bundles what a command needs to run
type app struct {
	settings  common.Settings
	store     *history.Store
	processor *processor.Processor
	registry  *prometheus.Registry
}

// loadSettings reads the settings file and applies environment and global flag overrides
func loadSettings() common.Settings {
	settings := common.WithYamlFile(settingsPath)
	settings.ApplyEnv()
	if ephemeral {
		settings.History.Backend = common.BackendMemory
	}
	return settings
}

// openStore opens the configured history backend and loads the history
func openStore(ctx context.Context, settings common.Settings) (*history.Store, error) {
	backend, err := history.OpenBackend(ctx, settings.History)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	store := history.NewStore(backend)
	if err := store.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}
	logger.Debugw("History ready", "backend", settings.History.Backend, "items", store.Len())
	return store, nil
}

// newApp creates the history store and, when model is nil, the configured LLM client
func newApp(ctx context.Context, settings common.Settings, model llm.LLM) (*app, error) {
	if model == nil {
		var err error
		model, err = llm.NewFromSettings(settings)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for LLM provider: %w", err)
		}
	}

	store, err := openStore(ctx, settings)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	p, err := processor.New(model, store,
		processor.WithTimeout(time.Duration(settings.APITimeout)*time.Second),
		processor.WithMetrics(processor.NewMetrics(registry)),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		settings:  settings,
		store:     store,
		processor: p,
		registry:  registry,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warnf("Failed to close history: %v", err)
	}
}
