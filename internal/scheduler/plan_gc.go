package scheduler

import (
	"context"
	"time"

	"tidymark/internal/logger"
	redisstore "tidymark/internal/store/redis"
)

// PlanCollector periodically drops stale plan IDs whose payload keys
// have already expired in Redis.
type PlanCollector struct {
	store    *redisstore.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewPlanCollector creates a new plan garbage collector
func NewPlanCollector(
	store *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
) *PlanCollector {
	return &PlanCollector{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection process
func (pc *PlanCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := pc.Collect(ctx); err != nil {
		pc.logger.Warn("initial plan collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(pc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pc.Collect(ctx); err != nil {
					pc.logger.Error("plan collection failed",
						logger.Error(err))
				}
			case <-pc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (pc *PlanCollector) Stop() {
	close(pc.stopCh)
}

// Collect prunes expired plan IDs from the plan index set
func (pc *PlanCollector) Collect(ctx context.Context) error {
	pruned, err := pc.store.PruneExpiredPlans(ctx)
	if err != nil {
		return err
	}

	if pruned > 0 {
		pc.logger.Info("pruned expired plans",
			logger.Int("count", pruned))
	} else {
		pc.logger.Debug("no expired plans to prune")
	}

	return nil
}
