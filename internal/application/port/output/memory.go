package output

import (
	"context"

	"agent-runner/internal/domain/entity"
)

type MemoryPort interface {
	Append(ctx context.Context, sessionID, content string, role entity.MessageRole) (entity.MemoryEntry, error)
	// Recent returns at most limit entries of sessionID, most recent first.
	Recent(ctx context.Context, sessionID string, limit int) ([]entity.MemoryEntry, error)
	Close() error
}
