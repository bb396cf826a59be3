package prompts

import (
	"fmt"
	"strings"

	"agent-runner/internal/domain/entity"

	"github.com/tmc/langchaingo/prompts"
)

const (
	VarTools   = "tools"
	VarContext = "context"
)

type SystemPromptData struct {
	Tools   []entity.ToolDescriptor
	Context []entity.MemoryEntry
}

// SystemPromptGenerator renders the system message from a Go template that
// references {{.tools}} and {{.context}}.
type SystemPromptGenerator struct {
	template prompts.PromptTemplate
}

func NewSystemPromptGenerator(baseTemplate string) (*SystemPromptGenerator, error) {
	if strings.TrimSpace(baseTemplate) == "" {
		baseTemplate = DefaultSystemPrompt
	}
	g := &SystemPromptGenerator{
		template: prompts.NewPromptTemplate(baseTemplate, []string{VarTools, VarContext}),
	}
	// Fail at construction rather than on the first run.
	if _, err := g.Generate(SystemPromptData{}); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *SystemPromptGenerator) Generate(data SystemPromptData) (string, error) {
	out, err := g.template.Format(map[string]any{
		VarTools:   RenderTools(data.Tools),
		VarContext: RenderContext(data.Context),
	})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return out, nil
}

// RenderTools lists tools as "- name: description", one per line.
func RenderTools(tools []entity.ToolDescriptor) string {
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name, t.Description))
	}
	return strings.Join(lines, "\n")
}

// RenderContext takes entries most recent first and renders them oldest first
// as "role: content" lines.
func RenderContext(entries []entity.MemoryEntry) string {
	lines := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%s: %s", entries[i].Role, entries[i].Content))
	}
	return strings.Join(lines, "\n")
}
