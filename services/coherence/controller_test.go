package coherence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"naksha/models"
	"naksha/utils"
)

func TestAfterCommitInvalidatesByScope(t *testing.T) {
	ctx := context.Background()
	cache := utils.NewMemoryCacheStore()
	c := NewController(cache, zap.NewNop())

	seed := func() {
		require.NoError(t, cache.Set(ctx, PatternsKey("c1"), "[]", time.Minute))
		require.NoError(t, cache.Set(ctx, SlotsPageKey("asha-rao", "ALL", "2025-01-06", "2025-01-20", 50, 0), "{}", time.Minute))
		require.NoError(t, cache.Set(ctx, SlotsPageKey("asha-rao", "PERSONAL", "2025-01-06", "2025-01-20", 50, 0), "{}", time.Minute))
		require.NoError(t, cache.Set(ctx, PatternsKey("other"), "[]", time.Minute))
	}

	seed()
	c.AfterCommit("c1", "asha-rao", ScopePatterns, models.ChangePatternsUpdated, "")
	_, hit, _ := cache.Get(ctx, PatternsKey("c1"))
	assert.False(t, hit)
	_, hit, _ = cache.Get(ctx, SlotsPageKey("asha-rao", "ALL", "2025-01-06", "2025-01-20", 50, 0))
	assert.True(t, hit, "slot pages survive a patterns-only invalidation")

	seed()
	c.AfterCommit("c1", "asha-rao", ScopeSlots, models.ChangeSlotsUpdated, "")
	_, hit, _ = cache.Get(ctx, SlotsPageKey("asha-rao", "PERSONAL", "2025-01-06", "2025-01-20", 50, 0))
	assert.False(t, hit)
	_, hit, _ = cache.Get(ctx, PatternsKey("c1"))
	assert.True(t, hit)

	seed()
	c.AfterCommit("c1", "asha-rao", ScopeAll, models.ChangePatternsUpdated, "")
	_, hit, _ = cache.Get(ctx, PatternsKey("c1"))
	assert.False(t, hit)
	_, hit, _ = cache.Get(ctx, SlotsPageKey("asha-rao", "ALL", "2025-01-06", "2025-01-20", 50, 0))
	assert.False(t, hit)

	// Other consultants are untouched throughout.
	_, hit, _ = cache.Get(ctx, PatternsKey("other"))
	assert.True(t, hit)
}

func TestAfterCommitEmitsNotificationsInOrder(t *testing.T) {
	cache := utils.NewMemoryCacheStore()
	c := NewController(cache, zap.NewNop())

	c.AfterCommit("c1", "asha-rao", ScopePatterns, models.ChangePatternsUpdated, "PERSONAL")
	c.AfterCommit("c1", "asha-rao", ScopeSlots, models.ChangeSlotsUpdated, "PERSONAL")

	first := <-c.Notifications()
	assert.Equal(t, models.ChangePatternsUpdated, first.Kind)
	assert.Equal(t, "asha-rao", first.ConsultantSlug)
	assert.Equal(t, "PERSONAL", first.SessionType)
	assert.False(t, first.Timestamp.IsZero())

	second := <-c.Notifications()
	assert.Equal(t, models.ChangeSlotsUpdated, second.Kind)
}

func TestAfterCommitDropsOldestWhenChannelFull(t *testing.T) {
	cache := utils.NewMemoryCacheStore()
	c := NewController(cache, zap.NewNop())
	c.notifications = make(chan models.ChangeNotification, 1)

	c.AfterCommit("c1", "asha-rao", ScopePatterns, models.ChangePatternsUpdated, "")
	c.AfterCommit("c1", "asha-rao", ScopeSlots, models.ChangeSlotsUpdated, "")

	got := <-c.Notifications()
	assert.Equal(t, models.ChangeSlotsUpdated, got.Kind, "newest event wins when the buffer is full")
}
