// Package config collects every setting the service needs into one struct.
//
// Sources, lowest precedence first: built-in defaults, an optional TOML file named by
// CONFIG_FILE, then environment variables. Credentials are read from the environment only.
package config

import (
	"fmt"
	"os"
	"strings"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	"github.com/BurntSushi/toml"
)

const (
	MemoryDriverSQLite = "sqlite"
	MemoryDriverMemory = "memory"
	MemoryDriverNone   = "none"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	OpenAI    OpenAIConfig    `toml:"openai"`
	Anthropic AnthropicConfig `toml:"anthropic"`
	Slack     SlackConfig     `toml:"slack"`
	Memory    MemoryConfig    `toml:"memory"`
	HTTPTool  HTTPToolConfig  `toml:"http_tool"`
	Log       LogConfig       `toml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type OpenAIConfig struct {
	APIKey    string `toml:"-"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	DebugHTTP bool   `toml:"debug_http"`
}

type AnthropicConfig struct {
	APIKey    string `toml:"-"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	MaxTokens int64  `toml:"max_tokens"`
}

type SlackConfig struct {
	WebhookURL string `toml:"-"`
}

type MemoryConfig struct {
	Driver               string `toml:"driver"`
	DSN                  string `toml:"dsn"`
	MaxEntriesPerSession int    `toml:"max_entries_per_session"`
	ContextWindow        int    `toml:"context_window"`
}

type HTTPToolConfig struct {
	MaxTextSize int `toml:"max_text_size"`
}

type LogConfig struct {
	Level   string `toml:"level"`
	Dir     string `toml:"dir"`
	Console bool   `toml:"console"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		OpenAI: OpenAIConfig{
			Model: "gpt-4-turbo-preview",
		},
		Anthropic: AnthropicConfig{
			Model:     "claude-3-opus-20240229",
			MaxTokens: 4096,
		},
		Memory: MemoryConfig{
			Driver:               MemoryDriverSQLite,
			DSN:                  "agent_memory.db",
			MaxEntriesPerSession: 1000,
			ContextWindow:        5,
		},
		HTTPTool: HTTPToolConfig{MaxTextSize: 20000},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load builds a Config from defaults, the optional CONFIG_FILE and the environment.
func Load(env output.ConfigPort) (Config, error) {
	cfg := Default()

	if path := env.Get("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(env, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: config file %s: %v", entity.ErrConfiguration, path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("%w: parse %s: %v", entity.ErrConfiguration, path, err)
	}
	return nil
}

func applyEnv(env output.ConfigPort, cfg *Config) {
	cfg.Server.Addr = env.GetWithDefault("HTTP_ADDR", cfg.Server.Addr)

	cfg.OpenAI.APIKey = env.Get("OPENAI_API_KEY")
	cfg.OpenAI.Model = env.GetWithDefault("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = env.GetWithDefault("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.DebugHTTP = env.GetBool("LLM_DEBUG_HTTP", cfg.OpenAI.DebugHTTP)

	cfg.Anthropic.APIKey = env.Get("ANTHROPIC_API_KEY")
	cfg.Anthropic.Model = env.GetWithDefault("ANTHROPIC_MODEL", cfg.Anthropic.Model)
	cfg.Anthropic.BaseURL = env.GetWithDefault("ANTHROPIC_BASE_URL", cfg.Anthropic.BaseURL)
	cfg.Anthropic.MaxTokens = int64(env.GetInt("ANTHROPIC_MAX_TOKENS", int(cfg.Anthropic.MaxTokens)))

	cfg.Slack.WebhookURL = env.Get("SLACK_WEBHOOK_URL")

	cfg.Memory.Driver = strings.ToLower(env.GetWithDefault("MEMORY_DRIVER", cfg.Memory.Driver))
	cfg.Memory.DSN = env.GetWithDefault("MEMORY_DSN", cfg.Memory.DSN)
	cfg.Memory.MaxEntriesPerSession = env.GetInt("MEMORY_MAX_ENTRIES", cfg.Memory.MaxEntriesPerSession)
	cfg.Memory.ContextWindow = env.GetInt("MEMORY_CONTEXT_WINDOW", cfg.Memory.ContextWindow)

	cfg.HTTPTool.MaxTextSize = env.GetInt("HTTP_TOOL_MAX_TEXT", cfg.HTTPTool.MaxTextSize)

	cfg.Log.Level = env.GetWithDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Dir = env.GetWithDefault("LOG_DIR", cfg.Log.Dir)
	cfg.Log.Console = env.GetBool("LOG_CONSOLE", cfg.Log.Console)
}

// Validate checks settings that do not depend on which provider a run picks.
// Missing credentials are reported later, by the component that needs them.
func (c Config) Validate() error {
	switch c.Memory.Driver {
	case MemoryDriverSQLite, MemoryDriverMemory, MemoryDriverNone:
	default:
		return fmt.Errorf("%w: unknown memory driver %q", entity.ErrConfiguration, c.Memory.Driver)
	}
	if c.Memory.Driver == MemoryDriverSQLite && c.Memory.DSN == "" {
		return fmt.Errorf("%w: memory dsn is required for sqlite", entity.ErrConfiguration)
	}
	if c.Memory.MaxEntriesPerSession < 0 {
		return fmt.Errorf("%w: max entries per session must not be negative", entity.ErrConfiguration)
	}
	if c.Memory.ContextWindow < 0 {
		return fmt.Errorf("%w: context window must not be negative", entity.ErrConfiguration)
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("%w: anthropic max tokens must be positive", entity.ErrConfiguration)
	}
	return nil
}

func (c Config) MemoryEnabled() bool {
	return c.Memory.Driver != MemoryDriverNone
}
