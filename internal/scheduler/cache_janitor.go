package scheduler

import (
	"context"
	"time"

	"github.com/BibleBot/backend/internal/httpcache"
	"github.com/BibleBot/backend/internal/logger"
	redisstore "github.com/BibleBot/backend/internal/store/redis"
)

// CacheJanitor deletes expired cached upstream responses. Entries carry
// their own TTL in Redis, but a deployment switching to shorter expiry
// windows would otherwise keep stale bodies until the old TTLs run out.
type CacheJanitor struct {
	store    *redisstore.Store
	mem      *httpcache.MemStore
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCacheJanitor creates a new cache janitor. Either store may be nil.
func NewCacheJanitor(
	store *redisstore.Store,
	mem *httpcache.MemStore,
	log logger.Logger,
	interval time.Duration,
) *CacheJanitor {
	return &CacheJanitor{
		store:    store,
		mem:      mem,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (cj *CacheJanitor) Start(ctx context.Context) error {
	ticker := time.NewTicker(cj.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cj.Sweep(ctx); err != nil {
					cj.logger.Error("cache sweep failed", logger.Error(err))
				}
			case <-cj.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the janitor.
func (cj *CacheJanitor) Stop() {
	close(cj.stopCh)
}

// Sweep removes expired response entries from whichever stores are wired.
func (cj *CacheJanitor) Sweep(ctx context.Context) error {
	now := time.Now()
	deleted := 0

	if cj.mem != nil {
		deleted += cj.mem.Sweep()
	}

	if cj.store != nil {
		n, err := cj.store.SweepResponses(ctx, now)
		if err != nil {
			return err
		}
		deleted += n
	}

	if deleted > 0 {
		cj.logger.Info("cache sweep completed", logger.Int("deleted", deleted))
	} else {
		cj.logger.Debug("no cached responses to sweep")
	}

	return nil
}
