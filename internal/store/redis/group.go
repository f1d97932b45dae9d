package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tidymark/internal/domain"
)

// SaveGroup stores a config group in Redis
func (s *Store) SaveGroup(ctx context.Context, group *domain.AiConfigGroup) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("failed to marshal group: %w", err)
	}

	key := GroupKey(group.ID)

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	if err := s.client.SAdd(ctx, KeyAllGroups, group.ID).Err(); err != nil {
		return fmt.Errorf("failed to add group to set: %w", err)
	}

	return nil
}

// GetGroup retrieves a config group from Redis by ID
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.AiConfigGroup, error) {
	key := GroupKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("group not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	var group domain.AiConfigGroup
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group: %w", err)
	}

	return &group, nil
}

// GetAllGroups retrieves all config groups from Redis
func (s *Store) GetAllGroups(ctx context.Context) ([]*domain.AiConfigGroup, error) {
	ids, err := s.client.SMembers(ctx, KeyAllGroups).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get group IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.AiConfigGroup{}, nil
	}

	groups := make([]*domain.AiConfigGroup, 0, len(ids))
	for _, id := range ids {
		group, err := s.GetGroup(ctx, id)
		if err != nil {
			// Skip groups that couldn't be retrieved
			continue
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// DeleteGroup removes a config group from Redis
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	key := GroupKey(id)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	if err := s.client.SRem(ctx, KeyAllGroups, id).Err(); err != nil {
		return fmt.Errorf("failed to remove group from set: %w", err)
	}

	active, err := s.GetActiveGroup(ctx)
	if err != nil {
		return err
	}
	if active == id {
		if err := s.client.Del(ctx, KeyActiveGroup).Err(); err != nil {
			return fmt.Errorf("failed to clear active group: %w", err)
		}
	}

	return nil
}

// SaveGroupsMany stores multiple config groups in Redis (bulk operation)
func (s *Store) SaveGroupsMany(ctx context.Context, groups []*domain.AiConfigGroup) error {
	pipe := s.client.Pipeline()

	for _, group := range groups {
		data, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("failed to marshal group %s: %w", group.ID, err)
		}

		key := GroupKey(group.ID)
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, KeyAllGroups, group.ID)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save groups: %w", err)
	}

	return nil
}

// SetActiveGroup records the active group ID
func (s *Store) SetActiveGroup(ctx context.Context, id string) error {
	if err := s.client.Set(ctx, KeyActiveGroup, id, 0).Err(); err != nil {
		return fmt.Errorf("failed to set active group: %w", err)
	}
	return nil
}

// GetActiveGroup returns the active group ID, or "" when none is set
func (s *Store) GetActiveGroup(ctx context.Context) (string, error) {
	id, err := s.client.Get(ctx, KeyActiveGroup).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get active group: %w", err)
	}
	return id, nil
}
