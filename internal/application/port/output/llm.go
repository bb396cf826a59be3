package output

import (
	"context"

	"agent-runner/internal/domain/entity"
)

// ChunkHandler receives one non-empty fragment. A non-nil return stops the stream.
type ChunkHandler func(chunk string) error

type LLMPort interface {
	// StreamChat forwards messages in order and delivers fragments to onChunk as they
	// arrive. A backend failure is returned after any fragments already delivered.
	StreamChat(ctx context.Context, messages []entity.Message, onChunk ChunkHandler) error
}

// LLMFactory builds a provider from configuration captured at wiring time.
type LLMFactory func() (LLMPort, error)

type ProviderRegistry interface {
	Register(name entity.ProviderName, factory LLMFactory)
	Resolve(name entity.ProviderName) (LLMPort, error)
}
