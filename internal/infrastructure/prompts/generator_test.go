package prompts

import (
	"strings"
	"testing"

	"agent-runner/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultTemplate(t *testing.T) {
	g, err := NewSystemPromptGenerator("")
	require.NoError(t, err)

	result, err := g.Generate(SystemPromptData{
		Tools: []entity.ToolDescriptor{
			{Name: "http", Description: "Make HTTP requests to fetch data from URLs"},
			{Name: "slack", Description: "Send messages to Slack channels"},
		},
		Context: []entity.MemoryEntry{
			{Role: entity.RoleAssistant, Content: "Hi there"},
			{Role: entity.RoleUser, Content: "hello"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, result, "- http: Make HTTP requests to fetch data from URLs\n- slack: Send messages to Slack channels")
	assert.Contains(t, result, "Recent conversation context:\nuser: hello\nassistant: Hi there")
	assert.Contains(t, result, "USE_TOOL: <tool_name>")
	assert.Contains(t, result, "END_TOOL")
	assert.True(t, strings.HasPrefix(result, "You are a helpful AI assistant"))
}

func TestGenerate_EmptyInputs(t *testing.T) {
	g, err := NewSystemPromptGenerator("Tools:\n{{.tools}}\nContext:\n{{.context}}")
	require.NoError(t, err)

	result, err := g.Generate(SystemPromptData{})
	require.NoError(t, err)
	assert.Equal(t, "Tools:\n\nContext:\n", result)
}

func TestNewSystemPromptGenerator_InvalidTemplate(t *testing.T) {
	_, err := NewSystemPromptGenerator("Broken {{.tools")
	assert.Error(t, err)
}

func TestRenderContext_OldestFirst(t *testing.T) {
	out := RenderContext([]entity.MemoryEntry{
		{Role: entity.RoleUser, Content: "third"},
		{Role: entity.RoleAssistant, Content: "second"},
		{Role: entity.RoleUser, Content: "first"},
	})
	assert.Equal(t, "user: first\nassistant: second\nuser: third", out)
}
