package di

import (
	"context"
	"fmt"
	"net/http"

	"agent-runner/internal/adapter/tool"
	"agent-runner/internal/application/port/input"
	"agent-runner/internal/application/port/output"
	"agent-runner/internal/application/service"
	"agent-runner/internal/domain/entity"
	"agent-runner/internal/infrastructure/config"
	"agent-runner/internal/infrastructure/llm/anthropicadapter"
	"agent-runner/internal/infrastructure/llm/openaiadapter"
	"agent-runner/internal/infrastructure/logger"
	"agent-runner/internal/infrastructure/memory/inmem"
	"agent-runner/internal/infrastructure/memory/sqlite"
	"agent-runner/internal/infrastructure/prompts"
	"agent-runner/internal/usecase/orchestrator"
)

type Container struct {
	Logger    output.LoggerPort
	Memory    output.MemoryPort
	Tools     output.ToolRegistry
	Providers output.ProviderRegistry
	Runner    input.RunExecutor
}

// NewContainer wires every component from cfg. name labels the log file.
// The Slack webhook is required; provider credentials are checked on first use.
func NewContainer(ctx context.Context, cfg config.Config, name string) (*Container, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Dir = cfg.Log.Dir
	logCfg.Console = cfg.Log.Console
	if name != "" {
		logCfg.Name = name
	}
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	httpClient := &http.Client{}

	slack, err := tool.NewSlackTool(cfg.Slack.WebhookURL, httpClient, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create slack tool: %w", err)
	}
	tools := service.NewToolRegistry(
		tool.NewHTTPTool(httpClient, log).WithMaxTextSize(cfg.HTTPTool.MaxTextSize),
		slack,
	)

	memory, err := openMemory(ctx, cfg.Memory)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open conversation log: %w", err)
	}

	prompt, err := prompts.NewSystemPromptGenerator("")
	if err != nil {
		closeMemory(memory)
		log.Close()
		return nil, fmt.Errorf("failed to load system prompt: %w", err)
	}

	providers := service.NewProviderRegistry()
	registerProviders(providers, cfg, log)

	runner := orchestrator.New(providers, tools, memory, prompt, log, orchestrator.Config{
		ContextWindow: cfg.Memory.ContextWindow,
	})

	log.Info("Container ready",
		"memory_driver", cfg.Memory.Driver,
		"tools", len(tools.All()),
		"context_window", cfg.Memory.ContextWindow)

	return &Container{
		Logger:    log,
		Memory:    memory,
		Tools:     tools,
		Providers: providers,
		Runner:    runner,
	}, nil
}

func (c *Container) Close() {
	if c.Memory != nil {
		if err := c.Memory.Close(); err != nil {
			c.Logger.Warn("Failed to close conversation log", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

// openMemory returns a nil port when the log is disabled.
func openMemory(ctx context.Context, cfg config.MemoryConfig) (output.MemoryPort, error) {
	switch cfg.Driver {
	case config.MemoryDriverNone:
		return nil, nil
	case config.MemoryDriverMemory:
		return inmem.NewStore(cfg.MaxEntriesPerSession), nil
	default:
		store, err := sqlite.Open(ctx, sqlite.Config{
			DSN:                  cfg.DSN,
			MaxEntriesPerSession: cfg.MaxEntriesPerSession,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}

func closeMemory(m output.MemoryPort) {
	if m != nil {
		_ = m.Close()
	}
}

func registerProviders(registry *service.ProviderRegistryImpl, cfg config.Config, log output.LoggerPort) {
	registry.Register(entity.ProviderOpenAI, func() (output.LLMPort, error) {
		llmCfg := openaiadapter.DefaultConfig(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		llmCfg.BaseURL = cfg.OpenAI.BaseURL
		if cfg.OpenAI.DebugHTTP {
			llmCfg.Logger = log
		}
		adapter, err := openaiadapter.NewOpenAIAdapter(llmCfg)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	})

	registry.Register(entity.ProviderAnthropic, func() (output.LLMPort, error) {
		llmCfg := anthropicadapter.DefaultConfig(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
		llmCfg.BaseURL = cfg.Anthropic.BaseURL
		llmCfg.MaxTokens = cfg.Anthropic.MaxTokens
		llmCfg.Logger = log
		adapter, err := anthropicadapter.NewAnthropicAdapter(llmCfg)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	})
}
