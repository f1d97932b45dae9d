package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tidymark/internal/domain"
)

// SaveConfig stores an AI config in Redis
func (s *Store) SaveConfig(ctx context.Context, cfg *domain.AiConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	key := ConfigKey(cfg.ID)

	// Configs have no TTL: they live until deleted
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	// Add to set of all configs
	if err := s.client.SAdd(ctx, KeyAllConfigs, cfg.ID).Err(); err != nil {
		return fmt.Errorf("failed to add config to set: %w", err)
	}

	return nil
}

// GetConfig retrieves an AI config from Redis by ID
func (s *Store) GetConfig(ctx context.Context, id string) (*domain.AiConfig, error) {
	key := ConfigKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("config not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	var cfg domain.AiConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetAllConfigs retrieves all AI configs from Redis
func (s *Store) GetAllConfigs(ctx context.Context) ([]*domain.AiConfig, error) {
	ids, err := s.client.SMembers(ctx, KeyAllConfigs).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get config IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.AiConfig{}, nil
	}

	configs := make([]*domain.AiConfig, 0, len(ids))
	for _, id := range ids {
		cfg, err := s.GetConfig(ctx, id)
		if err != nil {
			// Skip configs that couldn't be retrieved
			continue
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

// DeleteConfig removes an AI config from Redis and strips its ID from
// every group that references it.
func (s *Store) DeleteConfig(ctx context.Context, id string) error {
	key := ConfigKey(id)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}

	if err := s.client.SRem(ctx, KeyAllConfigs, id).Err(); err != nil {
		return fmt.Errorf("failed to remove config from set: %w", err)
	}

	// Cascade: drop the member from groups that list it
	groups, err := s.GetAllGroups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if !g.RemoveConfig(id) {
			continue
		}
		if err := s.SaveGroup(ctx, g); err != nil {
			return err
		}
	}

	// Clear the active pointer if it pointed at the deleted config
	active, err := s.GetActiveConfig(ctx)
	if err != nil {
		return err
	}
	if active == id {
		if err := s.client.Del(ctx, KeyActiveConfig).Err(); err != nil {
			return fmt.Errorf("failed to clear active config: %w", err)
		}
	}

	return nil
}

// SaveConfigsMany stores multiple AI configs in Redis (bulk operation)
func (s *Store) SaveConfigsMany(ctx context.Context, configs []*domain.AiConfig) error {
	pipe := s.client.Pipeline()

	for _, cfg := range configs {
		data, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config %s: %w", cfg.ID, err)
		}

		key := ConfigKey(cfg.ID)
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, KeyAllConfigs, cfg.ID)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save configs: %w", err)
	}

	return nil
}

// SetActiveConfig records the active config ID
func (s *Store) SetActiveConfig(ctx context.Context, id string) error {
	if err := s.client.Set(ctx, KeyActiveConfig, id, 0).Err(); err != nil {
		return fmt.Errorf("failed to set active config: %w", err)
	}
	return nil
}

// GetActiveConfig returns the active config ID, or "" when none is set
func (s *Store) GetActiveConfig(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, KeyActiveConfig).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get active config: %w", err)
	}
	return id, nil
}
