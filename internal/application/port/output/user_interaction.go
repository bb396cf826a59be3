package output

import (
	"context"

	"agent-runner/internal/domain/entity"
)

type UserInteractionPort interface {
	ReadPrompt(ctx context.Context) (string, error)
	ShowRunStart(ctx context.Context, cfg entity.RunConfig)
	ShowChunk(ctx context.Context, chunk string) error
	ShowRunResult(ctx context.Context, result *entity.RunResult)
	ShowError(ctx context.Context, err error)
}
