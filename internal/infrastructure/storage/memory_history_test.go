package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

func turn(userID, msg string) entity.ConversationTurn {
	return entity.ConversationTurn{UserID: userID, Message: msg, Timestamp: time.Now()}
}

func TestMemoryHistory_AppendCountsTotal(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(2)

	for i := 1; i <= 5; i++ {
		total, err := repo.Append(ctx, turn("u1", fmt.Sprintf("m%d", i)))
		require.NoError(t, err)
		assert.Equal(t, i, total)
	}

	turns, err := repo.Recent(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "m4", turns[0].Message)
	assert.Equal(t, "m5", turns[1].Message)

	chatCtx, err := repo.Context(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, chatCtx.Total)
}

func TestMemoryHistory_RecentLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(10)
	for _, m := range []string{"a", "b", "c", "d"} {
		_, err := repo.Append(ctx, turn("u1", m))
		require.NoError(t, err)
	}

	turns, err := repo.Recent(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, messages(turns))

	empty, err := repo.Recent(ctx, "nobody", 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryHistory_ContextNotFound(t *testing.T) {
	repo := NewMemoryHistoryRepository(0)
	_, err := repo.Context(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryHistory_ClearResetsFirstTurn(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(5)
	_, _ = repo.Append(ctx, turn("u1", "hola"))
	_, _ = repo.Append(ctx, turn("u2", "hola"))

	require.NoError(t, repo.Clear(ctx, "u1"))
	total, err := repo.Append(ctx, turn("u1", "hola otra vez"))
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	require.NoError(t, repo.ClearAll(ctx))
	_, err = repo.Context(ctx, "u2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMemoryHistory_Prune(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(5).(*memoryHistoryRepository)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	_, _ = repo.Append(ctx, turn("old", "hola"))

	repo.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, _ = repo.Append(ctx, turn("fresh", "hola"))

	removed, err := repo.Prune(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repo.Context(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Context(ctx, "fresh")
	assert.NoError(t, err)

	removed, err = repo.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemoryHistory_ConcurrentUsersLoseNothing(t *testing.T) {
	ctx := context.Background()
	const users, perUser = 20, 30
	repo := NewMemoryHistoryRepository(perUser)

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			for i := 0; i < perUser; i++ {
				_, err := repo.Append(ctx, turn(fmt.Sprintf("user-%d", u), fmt.Sprintf("msg-%d", i)))
				assert.NoError(t, err)
			}
		}(u)
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		chatCtx, err := repo.Context(ctx, fmt.Sprintf("user-%d", u))
		require.NoError(t, err)
		assert.Equal(t, perUser, chatCtx.Total)
		assert.Len(t, chatCtx.Turns, perUser)
	}
}

func messages(turns []entity.ConversationTurn) []string {
	out := make([]string, 0, len(turns))
	for _, t := range turns {
		out = append(out, t.Message)
	}
	return out
}
