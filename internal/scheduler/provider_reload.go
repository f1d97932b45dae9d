package scheduler

import (
	"context"
	"fmt"
	"time"

	"tidymark/internal/logger"
	"tidymark/internal/registry"
	"tidymark/internal/sources/providerfile"
	redisstore "tidymark/internal/store/redis"
)

// ProviderReloader handles periodic reloading of the providers.yaml
// seed file into the registry and store.
type ProviderReloader struct {
	loader        *providerfile.Loader
	mapper        *providerfile.Mapper
	store         *redisstore.Store
	registry      *registry.Registry
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewProviderReloader creates a new providers file reloader
func NewProviderReloader(
	providersFile string,
	store *redisstore.Store,
	reg *registry.Registry,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ProviderReloader {
	return &ProviderReloader{
		loader:        providerfile.NewLoader(providersFile),
		mapper:        providerfile.NewMapper(),
		store:         store,
		registry:      reg,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (pr *ProviderReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := pr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload providers",
						logger.Error(err))
				}
			case <-pr.manualTrigger:
				pr.logger.Info("manual reload triggered")
				if err := pr.Reload(ctx); err != nil {
					pr.logger.Error("failed to reload providers",
						logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (pr *ProviderReloader) Stop() {
	close(pr.stopCh)
}

// Reload loads the providers file and merges its entries into the
// registry and store. Seed entries are upserted, never authoritative:
// configs created through the API are left alone.
func (pr *ProviderReloader) Reload(ctx context.Context) error {
	pr.logger.Info("reloading providers file")

	file, err := pr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load providers: %w", err)
	}

	mapped, err := pr.mapper.Map(file)
	if err != nil {
		return fmt.Errorf("failed to map providers: %w", err)
	}

	pr.logger.Info("loaded providers file",
		logger.Int("configs", len(mapped.Configs)),
		logger.Int("groups", len(mapped.Groups)))

	for _, cfg := range mapped.Configs {
		pr.registry.UpsertConfig(cfg)
	}
	for _, group := range mapped.Groups {
		pr.registry.UpsertGroup(group)
	}
	if mapped.ActiveConfigID != "" && pr.registry.ActiveConfigID() == "" {
		pr.registry.SetActiveConfig(mapped.ActiveConfigID)
	}
	if mapped.ActiveGroupID != "" && pr.registry.ActiveGroupID() == "" {
		pr.registry.SetActiveGroup(mapped.ActiveGroupID)
	}

	// Update Redis store (best effort)
	if pr.store != nil {
		if err := pr.store.SaveConfigsMany(ctx, mapped.Configs); err != nil {
			pr.logger.Warn("failed to save configs to redis",
				logger.Error(err))
			// Don't fail - the registry is the primary source
			return nil
		}
		if err := pr.store.SaveGroupsMany(ctx, mapped.Groups); err != nil {
			pr.logger.Warn("failed to save groups to redis",
				logger.Error(err))
			return nil
		}
		pr.logger.Info("providers saved to redis")
	}

	return nil
}
