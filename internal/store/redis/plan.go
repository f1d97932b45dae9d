package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tidymark/internal/domain"
)

// SavePlan stores an organization plan in Redis with the default TTL
func (s *Store) SavePlan(ctx context.Context, plan *domain.OrganizationPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	key := PlanKey(plan.ID)

	if err := s.client.Set(ctx, key, data, DefaultPlanTTL).Err(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	if err := s.client.SAdd(ctx, KeyAllPlans, plan.ID).Err(); err != nil {
		return fmt.Errorf("failed to add plan to set: %w", err)
	}

	return nil
}

// GetPlan retrieves an organization plan from Redis by ID
func (s *Store) GetPlan(ctx context.Context, id string) (*domain.OrganizationPlan, error) {
	key := PlanKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("plan not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan domain.OrganizationPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}

	return &plan, nil
}

// GetAllPlans retrieves all stored organization plans
func (s *Store) GetAllPlans(ctx context.Context) ([]*domain.OrganizationPlan, error) {
	ids, err := s.client.SMembers(ctx, KeyAllPlans).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.OrganizationPlan{}, nil
	}

	plans := make([]*domain.OrganizationPlan, 0, len(ids))
	for _, id := range ids {
		plan, err := s.GetPlan(ctx, id)
		if err != nil {
			// Plan keys expire but their set membership lingers; skip
			continue
		}
		plans = append(plans, plan)
	}

	return plans, nil
}

// DeletePlan removes an organization plan from Redis
func (s *Store) DeletePlan(ctx context.Context, id string) error {
	key := PlanKey(id)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}

	if err := s.client.SRem(ctx, KeyAllPlans, id).Err(); err != nil {
		return fmt.Errorf("failed to remove plan from set: %w", err)
	}

	return nil
}

// PruneExpiredPlans removes set members whose plan key has already
// expired, returning the number of stale IDs dropped.
func (s *Store) PruneExpiredPlans(ctx context.Context) (int, error) {
	ids, err := s.client.SMembers(ctx, KeyAllPlans).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get plan IDs: %w", err)
	}

	pruned := 0
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, PlanKey(id)).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to check plan key: %w", err)
		}
		if exists == 0 {
			if err := s.client.SRem(ctx, KeyAllPlans, id).Err(); err != nil {
				return pruned, fmt.Errorf("failed to remove stale plan ID: %w", err)
			}
			pruned++
		}
	}

	return pruned, nil
}
