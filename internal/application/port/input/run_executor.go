package input

import (
	"context"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
)

type RunExecutor interface {
	Run(ctx context.Context, cfg entity.RunConfig, onChunk output.ChunkHandler) (*entity.RunResult, error)
}
