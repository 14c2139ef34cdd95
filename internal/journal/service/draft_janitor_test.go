package service

import (
	"context"
	"testing"
	"time"

	"trading-journal/internal/journal/repository"
	"trading-journal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftJanitorSweep(t *testing.T) {
	repo := repository.NewMemoryDraftRepository()
	ctx := context.Background()

	require.NoError(t, repo.SetField(ctx, "stale", "trend", "uptrend"))
	time.Sleep(10 * time.Millisecond)

	t.Run("RetentionKeepsFreshDrafts", func(t *testing.T) {
		janitor := NewDraftJanitor(repo, logger.NewNop(), "@hourly", time.Hour)
		require.NoError(t, janitor.Sweep(ctx))

		sessions, err := repo.Sessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"stale"}, sessions)
	})

	t.Run("ZeroRetentionSweepsEverything", func(t *testing.T) {
		janitor := NewDraftJanitor(repo, logger.NewNop(), "@hourly", 0)
		require.NoError(t, janitor.Sweep(ctx))

		sessions, err := repo.Sessions(ctx)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}
