package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/metadata"
	"github.com/BibleBot/backend/internal/sources/versions"
	redisstore "github.com/BibleBot/backend/internal/store/redis"
)

// MetadataReloader handles periodic rebuilding of the version catalog and
// the merged book-name index.
type MetadataReloader struct {
	loader        *versions.Loader
	mapper        *versions.Mapper
	store         *redisstore.Store
	metadata      *metadata.Service
	logger        logger.Logger
	interval      time.Duration
	dryRun        bool
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewMetadataReloader creates a new metadata reloader.
func NewMetadataReloader(
	versionsFile string,
	store *redisstore.Store,
	meta *metadata.Service,
	log logger.Logger,
	interval time.Duration,
	dryRun bool,
	manualTrigger chan struct{},
) *MetadataReloader {
	return &MetadataReloader{
		loader:        versions.NewLoader(versionsFile),
		mapper:        versions.NewMapper(),
		store:         store,
		metadata:      meta,
		logger:        log,
		interval:      interval,
		dryRun:        dryRun,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs an immediate reload, then reloads on the ticker or on manual
// trigger. The initial reload failing is fatal except in dry-run, where a
// degraded index beats refusing to start.
func (mr *MetadataReloader) Start(ctx context.Context) error {
	if err := mr.Reload(ctx); err != nil {
		if !mr.dryRun {
			return fmt.Errorf("initial metadata reload failed: %w", err)
		}
		mr.logger.Warn("initial metadata reload failed, continuing in dry-run",
			logger.Error(err))
	}

	ticker := time.NewTicker(mr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload metadata",
						logger.Error(err))
				}
			case <-mr.manualTrigger:
				mr.logger.Info("manual metadata reload triggered")
				if err := mr.Reload(ctx); err != nil {
					mr.logger.Error("failed to reload metadata",
						logger.Error(err))
				}
			case <-mr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader.
func (mr *MetadataReloader) Stop() {
	close(mr.stopCh)
}

// Reload loads the versions file, persists the catalog, and rebuilds the
// book-name index snapshot.
func (mr *MetadataReloader) Reload(ctx context.Context) error {
	mr.logger.Info("reloading version catalog")

	f, err := mr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load versions: %w", err)
	}

	catalog, err := mr.mapper.MapVersions(f)
	if err != nil {
		return fmt.Errorf("failed to map versions: %w", err)
	}

	mr.logger.Info("loaded version catalog",
		logger.Int("count", len(catalog)))

	if mr.store != nil {
		if err := mr.store.SaveVersionsMany(ctx, catalog); err != nil {
			mr.logger.Warn("failed to save versions to redis",
				logger.Error(err))
			// The in-memory snapshot is the primary source.
		}
	}

	return mr.metadata.Reload(ctx, catalog)
}
