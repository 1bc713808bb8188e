package provider

import (
	"fmt"

	"stackchat/model"
)

// ProviderType identifies a supported LLM capability backend.
type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeOllama    ProviderType = "ollama"
)

// defaultTemperature applies when the configuration carries no sampling
// temperature.
const defaultTemperature = 0.7

// Config carries the settings needed to construct any provider type.
type Config struct {
	Type        ProviderType
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// NewProvider creates a provider based on configuration. This is the
// centralized factory for all provider types; it dispatches on Config.Type.
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.MaxTokens, cfg.Temperature)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a config provider ID to a ProviderType.
// Unknown IDs pass through as-is so the factory can report them.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "anthropic":
		return ProviderTypeAnthropic
	case "openai":
		return ProviderTypeOpenAI
	case "ollama":
		return ProviderTypeOllama
	default:
		return ProviderType(id)
	}
}

// RequiresAPIKey reports whether the given provider type needs a stored
// credential before it can be constructed.
func RequiresAPIKey(t ProviderType) bool {
	return t == ProviderTypeAnthropic || t == ProviderTypeOpenAI
}
