package scheduler

import (
	"context"

	"tidymark/internal/logger"
	"tidymark/internal/registry"
	redisstore "tidymark/internal/store/redis"
)

// RedisSyncer loads configs and groups from Redis into the registry on
// startup so API-created entries survive restarts.
type RedisSyncer struct {
	store    *redisstore.Store
	registry *registry.Registry
	logger   logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	reg *registry.Registry,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:    store,
		registry: reg,
		logger:   log,
	}
}

// Sync loads configs and groups from Redis and replaces the registry
// snapshot, including the persisted active selections.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing provider configs from redis")

	configs, err := rs.store.GetAllConfigs(ctx)
	if err != nil {
		return err
	}
	groups, err := rs.store.GetAllGroups(ctx)
	if err != nil {
		return err
	}

	if len(configs) == 0 && len(groups) == 0 {
		rs.logger.Info("no provider configs found in redis")
		return nil
	}

	rs.registry.ReplaceAll(configs, groups)

	if id, err := rs.store.GetActiveConfig(ctx); err == nil && id != "" {
		rs.registry.SetActiveConfig(id)
	}
	if id, err := rs.store.GetActiveGroup(ctx); err == nil && id != "" {
		rs.registry.SetActiveGroup(id)
	}

	rs.logger.Info("synced provider configs from redis",
		logger.Int("configs", len(configs)),
		logger.Int("groups", len(groups)))

	return nil
}
