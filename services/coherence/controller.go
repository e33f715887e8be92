// Package coherence sequences database commits, cache invalidation and
// change notifications. It is the only component allowed to mutate the cache
// after a write: services commit their transaction first, then hand the
// invalidation scope here. On a failed transaction the cache is never
// touched, so the worst case is a bounded stale window, never a wrong value
// that outlives its TTL.
package coherence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"naksha/models"
	"naksha/utils"
)

// Scope names the cache keys a committed transaction invalidates.
type Scope string

const (
	ScopePatterns Scope = "patterns"
	ScopeSlots    Scope = "slots"
	ScopeAll      Scope = "all"
)

// Controller applies post-commit invalidation and emits ChangeNotifications
// in commit order per consultant.
type Controller struct {
	Cache  utils.CacheStore
	Logger *zap.Logger

	// InvalidateTimeout bounds each post-commit cache round-trip.
	InvalidateTimeout time.Duration

	notifications chan models.ChangeNotification
}

// NewController builds a Controller with a buffered notification channel.
// Transport of notifications to external listeners is out of scope; when
// nobody drains the channel the oldest events are dropped with a warning.
func NewController(cache utils.CacheStore, logger *zap.Logger) *Controller {
	return &Controller{
		Cache:             cache,
		Logger:            logger,
		InvalidateTimeout: 5 * time.Second,
		notifications:     make(chan models.ChangeNotification, 256),
	}
}

// Notifications exposes the change feed.
func (c *Controller) Notifications() <-chan models.ChangeNotification {
	return c.notifications
}

// AfterCommit invalidates the cache keys named by scope and then emits a
// notification. It deliberately ignores the caller's context: a request
// cancelled between DB commit and cache delete must still invalidate, or the
// stale window becomes unbounded. It runs synchronously with respect to the
// caller so notifications for one consultant observe commit order.
func (c *Controller) AfterCommit(consultantID, slug string, scope Scope, kind, sessionType string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.InvalidateTimeout)
	defer cancel()

	if scope == ScopePatterns || scope == ScopeAll {
		if err := c.Cache.Delete(ctx, PatternsKey(consultantID)); err != nil {
			c.Logger.Warn("pattern cache invalidation failed",
				zap.String("consultantID", consultantID), zap.Error(err))
		}
	}
	if scope == ScopeSlots || scope == ScopeAll {
		if err := c.Cache.DeletePrefix(ctx, SlotsPrefix(slug)); err != nil {
			c.Logger.Warn("slot cache invalidation failed",
				zap.String("slug", slug), zap.Error(err))
		}
	}

	n := models.ChangeNotification{
		ConsultantSlug: slug,
		Kind:           kind,
		SessionType:    sessionType,
		Timestamp:      time.Now(),
	}
	select {
	case c.notifications <- n:
	default:
		// Channel full: drop the oldest so recent changes win.
		select {
		case dropped := <-c.notifications:
			c.Logger.Warn("change notification dropped",
				zap.String("slug", dropped.ConsultantSlug), zap.String("kind", dropped.Kind))
		default:
		}
		select {
		case c.notifications <- n:
		default:
		}
	}
}
