package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type LLMConfig struct {
	Provider    string  `toml:"provider"`
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url,omitempty"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
}

type BackendConfig struct {
	DatabasePath string `toml:"database_path"`
}

type UserConfig struct {
	LLM                 LLMConfig     `toml:"llm"`
	Backend             BackendConfig `toml:"backend"`
	DefaultSystemPrompt string        `toml:"default_system_prompt,omitempty"`
	MaxToolHops         int           `toml:"max_tool_hops"`
}

type Config struct {
	DataDirectory       string
	Provider            string
	Model               string
	BaseURL             string
	MaxTokens           int
	Temperature         float64
	DatabasePath        string
	DefaultSystemPrompt string
	MaxToolHops         int
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// DBPath resolves the backend database path, defaulting to the data directory.
func (c *Config) DBPath() string {
	if c.DatabasePath == "" {
		return filepath.Join(c.DataDir(), "stackchat.db")
	}
	return ExpandPath(c.DatabasePath)
}

func (c *Config) applyEnvOverrides() {
	if provider := os.Getenv("STACKCHAT_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if model := os.Getenv("STACKCHAT_MODEL"); model != "" {
		c.Model = model
	}
	if dataDir := os.Getenv("STACKCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if dbPath := os.Getenv("STACKCHAT_DB"); dbPath != "" {
		c.DatabasePath = dbPath
	}
}

func CheckDebug() bool {
	debug := os.Getenv("STACKCHAT_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600 - may contain request/response bodies
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (STACKCHAT_DEBUG=%s) ===", os.Getenv("STACKCHAT_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

func Load() (*Config, error) {
	cfg := &Config{
		DataDirectory: "~/.local/share/stackchat",
		Provider:      "anthropic",
		Model:         "claude-3-5-haiku-20241022",
		MaxTokens:     4000,
		Temperature:   0.7,
		MaxToolHops:   10,
	}

	settingsPath := GetSettingsFilePath()

	if FileExists(settingsPath) {
		systemCfg, err := LoadSystemConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load system config: %w", err)
		}
		cfg.DataDirectory = systemCfg.DataDirectory

		userCfg, err := LoadUserConfig(cfg.DataDir())
		if err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
		cfg.applyUserConfig(userCfg)
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyUserConfig(userCfg *UserConfig) {
	if userCfg.LLM.Provider != "" {
		c.Provider = userCfg.LLM.Provider
	}
	if userCfg.LLM.Model != "" {
		c.Model = userCfg.LLM.Model
	}
	c.BaseURL = userCfg.LLM.BaseURL
	if userCfg.LLM.MaxTokens > 0 {
		c.MaxTokens = userCfg.LLM.MaxTokens
	}
	if userCfg.LLM.Temperature > 0 {
		c.Temperature = userCfg.LLM.Temperature
	}
	c.DatabasePath = userCfg.Backend.DatabasePath
	c.DefaultSystemPrompt = userCfg.DefaultSystemPrompt
	if userCfg.MaxToolHops > 0 {
		c.MaxToolHops = userCfg.MaxToolHops
	}
}
