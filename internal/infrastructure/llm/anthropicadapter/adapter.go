package anthropicadapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var _ output.LLMPort = (*AnthropicAdapter)(nil)

const defaultMaxTokens = 4096

// AnthropicAdapter passes the system prompt through the dedicated system
// parameter and sends the remaining turns as the message list.
type AnthropicAdapter struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    output.LoggerPort
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxTokens  int64
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: defaultMaxTokens,
	}
}

func NewAnthropicAdapter(cfg Config) (*AnthropicAdapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: anthropic api key is required", entity.ErrConfiguration)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: anthropic model is required", entity.ErrConfiguration)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Failures surface to the caller immediately.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &AnthropicAdapter{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    cfg.Logger,
	}, nil
}

func (a *AnthropicAdapter) StreamChat(ctx context.Context, messages []entity.Message, onChunk output.ChunkHandler) error {
	system, turns := splitSystem(messages)
	params := a.buildParams(system, turns)

	if a.logger != nil {
		a.logger.Debug("Creating message stream",
			"model", a.model,
			"messagesCount", len(turns),
			"hasSystem", system != "")
	}

	stream := a.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	chunkCount := 0
	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}

		chunkCount++
		if err := onChunk(text.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("%w: message stream failed after %d chunks: %w", entity.ErrProvider, chunkCount, err)
	}

	if a.logger != nil {
		a.logger.Debug("Stream completed", "chunks", chunkCount)
	}
	return nil
}

func (a *AnthropicAdapter) buildParams(system string, turns []entity.Message) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  convertMessages(turns),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

// splitSystem takes the first system message as the system prompt and drops any
// later ones. Other messages keep their relative order.
func splitSystem(messages []entity.Message) (string, []entity.Message) {
	var system string
	found := false
	turns := make([]entity.Message, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == entity.RoleSystem {
			if !found {
				system = msg.Content
				found = true
			}
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns
}

func convertMessages(messages []entity.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == entity.RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(block))
		} else {
			result = append(result, anthropic.NewUserMessage(block))
		}
	}
	return result
}
