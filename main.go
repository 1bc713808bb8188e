package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"stackchat/config"
	appmodel "stackchat/model"
	"stackchat/provider"
	"stackchat/store"
	"stackchat/tools"
	"stackchat/ui"
)

const (
	version = "0.1.0"
	license = "MIT"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	creds := config.NewCredentialStore(cfg.DataDir())
	if err := creds.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}

	backend := store.New(cfg.DBPath())
	defer backend.Close()

	// Seeding is best effort: an unreachable backend falls back to mock
	// tool data at invocation time instead of blocking startup.
	if err := backend.Seed(context.Background()); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Backend seed skipped: %v", err)
	}

	executor := tools.NewExecutor(backend)

	providerType := provider.MapProviderIDToType(cfg.Provider)
	providerCfg := provider.Config{
		Type:        providerType,
		BaseURL:     cfg.BaseURL,
		APIKey:      creds.Get(cfg.Provider),
		Model:       cfg.Model,
		MaxTokens:   int64(cfg.MaxTokens),
		Temperature: cfg.Temperature,
	}

	var prov appmodel.Provider
	var apiKeySetup *ui.APIKeySetup

	if provider.RequiresAPIKey(providerType) && providerCfg.APIKey == "" {
		apiKeySetup = ui.NewAPIKeySetup(cfg.Provider, func(key string) (appmodel.Provider, error) {
			keyedCfg := providerCfg
			keyedCfg.APIKey = key

			p, err := provider.NewProvider(keyedCfg)
			if err != nil {
				return nil, err
			}

			creds.Set(cfg.Provider, key)
			if err := creds.Save(); err != nil {
				return nil, fmt.Errorf("failed to store API key: %w", err)
			}

			return p, nil
		})
	} else {
		prov, err = provider.NewProvider(providerCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing provider: %v\n", err)
			os.Exit(1)
		}
	}

	orchestrator := appmodel.NewOrchestrator(prov, executor, tools.Catalog())
	dataModel := appmodel.NewModel(cfg, prov, orchestrator, version, license)

	app := ui.NewAppView(dataModel, apiKeySetup)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
