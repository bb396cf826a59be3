// Package inmem keeps the conversation log in process memory.
package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"
)

var _ output.MemoryPort = (*Store)(nil)

type Store struct {
	mu         sync.RWMutex
	seq        int64
	sessions   map[string][]entity.MemoryEntry
	maxEntries int
	now        func() time.Time
}

// NewStore keeps at most maxEntries per session (zero for unbounded).
func NewStore(maxEntries int) *Store {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Store{
		sessions:   make(map[string][]entity.MemoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *Store) Append(ctx context.Context, sessionID, content string, role entity.MessageRole) (entity.MemoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return entity.MemoryEntry{}, fmt.Errorf("%w: %v", entity.ErrMemory, err)
	}
	if sessionID == "" {
		return entity.MemoryEntry{}, fmt.Errorf("%w: session id is required", entity.ErrMemory)
	}
	if !role.Valid() {
		return entity.MemoryEntry{}, fmt.Errorf("%w: invalid role %q", entity.ErrMemory, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry := entity.MemoryEntry{
		ID:        s.seq,
		SessionID: sessionID,
		Timestamp: s.now().UTC(),
		Content:   content,
		Role:      role,
	}

	entries := append(s.sessions[sessionID], entry)
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		entries = append([]entity.MemoryEntry(nil), entries[len(entries)-s.maxEntries:]...)
	}
	s.sessions[sessionID] = entries
	return entry, nil
}

func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]entity.MemoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMemory, err)
	}
	if limit <= 0 {
		return []entity.MemoryEntry{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.sessions[sessionID]
	n := min(limit, len(entries))
	result := make([]entity.MemoryEntry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		result = append(result, entries[i])
	}
	return result, nil
}

func (s *Store) Close() error {
	return nil
}
