package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/stackchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		LLM: LLMConfig{
			Provider:    "anthropic",
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   4000,
			Temperature: 0.7,
		},
		MaxToolHops: 10,
	}
}

func GenerateSystemConfigTemplate() string {
	return `# stackchat System Configuration
# Location: ~/.config/stackchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where user config, credentials and the backend database are stored
data_directory = "~/.local/share/stackchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# stackchat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[llm]
# LLM provider: "anthropic", "openai" or "ollama"
provider = "anthropic"

# Model to use
model = "claude-3-5-haiku-20241022"

# Optional base URL override (for proxies or local servers)
base_url = ""

max_tokens = 4000
temperature = 0.7

[backend]
# Path to the SaaS management database.
# Defaults to <data_directory>/stackchat.db when empty.
database_path = ""

# Default system prompt prepended to every conversation (optional)
default_system_prompt = ""

# Maximum number of tool invocations allowed within a single turn
max_tool_hops = 10
`
}
