package service

import (
	"context"
	"errors"
	"testing"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name        entity.ToolName
	description string
}

func (s stubTool) Describe() entity.ToolDescriptor {
	return entity.ToolDescriptor{Name: s.name, Description: s.description}
}

func (s stubTool) Run(ctx context.Context, params map[string]any) entity.ToolResult {
	return entity.ToolSuccess(s.description)
}

type stubLLM struct{}

func (stubLLM) StreamChat(ctx context.Context, messages []entity.Message, onChunk output.ChunkHandler) error {
	return nil
}

func TestToolRegistry_LastRegistrationWins(t *testing.T) {
	r := NewToolRegistry(
		stubTool{name: "http", description: "first"},
		stubTool{name: "http", description: "second"},
	)

	tool, ok := r.Get("http")
	require.True(t, ok)
	assert.Equal(t, "second", tool.Describe().Description)
	assert.Len(t, r.All(), 1)
}

func TestToolRegistry_DescriptorsSortedByName(t *testing.T) {
	r := NewToolRegistry(
		stubTool{name: "slack", description: "Send messages"},
		stubTool{name: "http", description: "Fetch"},
	)

	descriptors := r.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, entity.ToolName("http"), descriptors[0].Name)
	assert.Equal(t, entity.ToolName("slack"), descriptors[1].Name)

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestProviderRegistry_BuildsOnce(t *testing.T) {
	calls := 0
	r := NewProviderRegistry()
	r.Register(entity.ProviderOpenAI, func() (output.LLMPort, error) {
		calls++
		return stubLLM{}, nil
	})

	first, err := r.Resolve(entity.ProviderOpenAI)
	require.NoError(t, err)
	second, err := r.Resolve(entity.ProviderOpenAI)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestProviderRegistry_Errors(t *testing.T) {
	r := NewProviderRegistry()
	r.Register(entity.ProviderAnthropic, func() (output.LLMPort, error) {
		return nil, errors.New("anthropic api key is required")
	})

	_, err := r.Resolve(entity.ProviderOpenAI)
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	_, err = r.Resolve(entity.ProviderAnthropic)
	assert.EqualError(t, err, "anthropic api key is required")
}
