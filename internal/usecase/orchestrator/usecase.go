package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agent-runner/internal/application/port/input"
	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
	"agent-runner/internal/infrastructure/prompts"

	"github.com/google/uuid"
)

const DefaultContextWindow = 5

var _ input.RunExecutor = (*UseCase)(nil)

type Config struct {
	// ContextWindow is how many recent log entries go into the system prompt.
	ContextWindow int
}

func DefaultConfig() Config {
	return Config{ContextWindow: DefaultContextWindow}
}

// UseCase runs one provider turn per call. It holds no per-run state and is
// safe for concurrent use.
type UseCase struct {
	providers output.ProviderRegistry
	tools     output.ToolRegistry
	memory    output.MemoryPort
	prompt    *prompts.SystemPromptGenerator
	logger    output.LoggerPort
	cfg       Config
	newID     func() string
}

// New wires the loop. memory may be nil, in which case runs are neither
// given history nor recorded.
func New(
	providers output.ProviderRegistry,
	tools output.ToolRegistry,
	memory output.MemoryPort,
	prompt *prompts.SystemPromptGenerator,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.ContextWindow < 0 {
		cfg.ContextWindow = 0
	}
	return &UseCase{
		providers: providers,
		tools:     tools,
		memory:    memory,
		prompt:    prompt,
		logger:    logger,
		cfg:       cfg,
		newID:     uuid.NewString,
	}
}

type run struct {
	result *entity.RunResult
	logger output.LoggerPort
}

func (r *run) transition(state entity.RunState, args ...any) {
	r.result.State = state
	r.logger.Debug("Run state changed", append([]any{"state", state}, args...)...)
}

// Run streams one response for cfg.Prompt to onChunk.
//
// On a provider failure or cancellation the fragments already passed to onChunk
// stand, and the partial response is not written to the log. When the response
// was delivered but could not be logged, the result is returned together with
// an error wrapping entity.ErrDegraded.
func (uc *UseCase) Run(ctx context.Context, cfg entity.RunConfig, onChunk output.ChunkHandler) (*entity.RunResult, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	if onChunk == nil {
		return nil, fmt.Errorf("%w: chunk handler is required", entity.ErrValidation)
	}

	runID := uc.newID()
	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uc.newID()
	}

	r := &run{
		result: &entity.RunResult{
			RunID:     runID,
			SessionID: sessionID,
			Provider:  cfg.Provider,
		},
		logger: uc.logger.WithFields(map[string]any{
			"run_id":     runID,
			"session_id": sessionID,
			"provider":   cfg.Provider,
		}),
	}
	r.transition(entity.RunStateInitialized, "max_steps", cfg.MaxSteps)
	start := time.Now()

	llm, err := uc.providers.Resolve(cfg.Provider)
	if err != nil {
		r.transition(entity.RunStateFailed)
		r.logger.Error("Provider unavailable", "error", err)
		return r.result, err
	}

	messages, err := uc.composeMessages(ctx, r, cfg.Prompt)
	if err != nil {
		r.transition(entity.RunStateFailed)
		r.logger.Error("Prompt composition failed", "error", err)
		return r.result, err
	}
	r.transition(entity.RunStatePromptComposed, "messages", len(messages))

	if uc.memory != nil {
		if _, err := uc.memory.Append(ctx, sessionID, cfg.Prompt, entity.RoleUser); err != nil {
			r.transition(entity.RunStateFailed)
			r.logger.Error("Failed to record prompt", "error", err)
			return r.result, fmt.Errorf("%w: record prompt: %w", entity.ErrMemory, err)
		}
	}

	r.transition(entity.RunStateStreaming)
	var response strings.Builder
	streamErr := llm.StreamChat(ctx, messages, func(chunk string) error {
		if chunk == "" {
			return nil
		}
		if err := onChunk(chunk); err != nil {
			return fmt.Errorf("deliver chunk: %w", err)
		}
		response.WriteString(chunk)
		r.result.Fragments++
		return nil
	})
	r.result.Response = response.String()

	if streamErr == nil && ctx.Err() != nil {
		streamErr = ctx.Err()
	}
	if streamErr != nil {
		// The reply is incomplete; leave it out of the log.
		r.transition(entity.RunStateFailed)
		r.logger.Error("Run failed while streaming",
			"error", streamErr,
			"fragments", r.result.Fragments,
			"canceled", errors.Is(streamErr, context.Canceled),
			"duration_ms", time.Since(start).Milliseconds())
		return r.result, streamErr
	}

	if uc.memory != nil {
		if _, err := uc.memory.Append(ctx, sessionID, r.result.Response, entity.RoleAssistant); err != nil {
			r.transition(entity.RunStateDegraded)
			r.logger.Error("Failed to record response", "error", err)
			return r.result, fmt.Errorf("%w: record response: %w", entity.ErrDegraded, err)
		}
	}

	r.transition(entity.RunStateCompleted)
	r.logger.Info("Run completed",
		"fragments", r.result.Fragments,
		"responseLen", len(r.result.Response),
		"duration_ms", time.Since(start).Milliseconds())
	return r.result, nil
}

func (uc *UseCase) composeMessages(ctx context.Context, r *run, prompt string) ([]entity.Message, error) {
	var history []entity.MemoryEntry
	if uc.memory != nil && uc.cfg.ContextWindow > 0 {
		entries, err := uc.memory.Recent(ctx, r.result.SessionID, uc.cfg.ContextWindow)
		if err != nil {
			return nil, fmt.Errorf("%w: load context: %w", entity.ErrMemory, err)
		}
		history = entries
	}

	systemPrompt, err := uc.prompt.Generate(prompts.SystemPromptData{
		Tools:   uc.tools.Descriptors(),
		Context: history,
	})
	if err != nil {
		return nil, err
	}

	return []entity.Message{
		entity.SystemMessage(systemPrompt),
		entity.UserMessage(prompt),
	}, nil
}
