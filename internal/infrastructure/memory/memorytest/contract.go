// Package memorytest holds the behaviour every conversation log store must share.
package memorytest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens an empty store keeping at most maxEntries per session.
type Factory func(t *testing.T, maxEntries int) output.MemoryPort

func RunContract(t *testing.T, newStore Factory) {
	t.Run("SessionIsolationAndOrder", func(t *testing.T) {
		testSessionIsolation(t, newStore(t, 0))
	})
	t.Run("LimitBounds", func(t *testing.T) {
		testLimitBounds(t, newStore(t, 0))
	})
	t.Run("Retention", func(t *testing.T) {
		testRetention(t, newStore(t, 3))
	})
	t.Run("RejectsInvalidInput", func(t *testing.T) {
		testRejectsInvalidInput(t, newStore(t, 0))
	})
	t.Run("ConcurrentAppends", func(t *testing.T) {
		testConcurrentAppends(t, newStore(t, 0))
	})
}

func testSessionIsolation(t *testing.T, store output.MemoryPort) {
	ctx := context.Background()
	const n, m = 4, 3

	for i := 0; i < n; i++ {
		_, err := store.Append(ctx, "A", fmt.Sprintf("a%d", i), entity.RoleUser)
		require.NoError(t, err)
		if i < m {
			_, err = store.Append(ctx, "B", fmt.Sprintf("b%d", i), entity.RoleAssistant)
			require.NoError(t, err)
		}
	}

	for _, limit := range []int{0, 1, 2, n, n + 5} {
		entries, err := store.Recent(ctx, "A", limit)
		require.NoError(t, err)

		want := min(limit, n)
		require.Len(t, entries, want, "limit %d", limit)
		for i, e := range entries {
			assert.Equal(t, "A", e.SessionID)
			assert.Equal(t, fmt.Sprintf("a%d", n-1-i), e.Content)
			assert.Equal(t, entity.RoleUser, e.Role)
			assert.False(t, e.Timestamp.IsZero())
			if i > 0 {
				assert.Greater(t, entries[i-1].ID, e.ID)
			}
		}
	}

	entries, err := store.Recent(ctx, "B", 10)
	require.NoError(t, err)
	require.Len(t, entries, m)
	assert.Equal(t, "b2", entries[0].Content)

	entries, err = store.Recent(ctx, "C", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testLimitBounds(t *testing.T, store output.MemoryPort) {
	ctx := context.Background()
	_, err := store.Append(ctx, "s", "x", entity.RoleUser)
	require.NoError(t, err)

	entries, err := store.Recent(ctx, "s", -1)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testRetention(t *testing.T, store output.MemoryPort) {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, "s", fmt.Sprintf("m%d", i), entity.RoleUser)
		require.NoError(t, err)
	}
	_, err := store.Append(ctx, "other", "keep", entity.RoleUser)
	require.NoError(t, err)

	entries, err := store.Recent(ctx, "s", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "m4", entries[0].Content)
	assert.Equal(t, "m2", entries[2].Content)

	entries, err = store.Recent(ctx, "other", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func testRejectsInvalidInput(t *testing.T, store output.MemoryPort) {
	ctx := context.Background()

	_, err := store.Append(ctx, "", "x", entity.RoleUser)
	assert.ErrorIs(t, err, entity.ErrMemory)

	_, err = store.Append(ctx, "s", "x", entity.MessageRole("tool"))
	assert.ErrorIs(t, err, entity.ErrMemory)
}

func testConcurrentAppends(t *testing.T, store output.MemoryPort) {
	ctx := context.Background()
	const workers, perWorker = 4, 10

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			session := fmt.Sprintf("s%d", w)
			for i := 0; i < perWorker; i++ {
				if _, err := store.Append(ctx, session, fmt.Sprintf("%d", i), entity.RoleUser); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("append failed: %v", err)
	}

	for w := 0; w < workers; w++ {
		entries, err := store.Recent(ctx, fmt.Sprintf("s%d", w), workers*perWorker)
		require.NoError(t, err)
		assert.Len(t, entries, perWorker)
	}
}
