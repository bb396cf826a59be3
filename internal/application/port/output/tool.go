package output

import (
	"context"

	"agent-runner/internal/domain/entity"
)

type ToolPort interface {
	Describe() entity.ToolDescriptor
	// Run never returns a Go error; every failure is reported through ToolResult.
	Run(ctx context.Context, params map[string]any) entity.ToolResult
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Descriptors() []entity.ToolDescriptor
}
