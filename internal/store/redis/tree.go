package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tidymark/internal/domain"
)

// SaveTree persists the full bookmark tree as a single JSON document.
// The tree is small enough (browser exports top out in the tens of
// thousands of nodes) that one key beats per-node bookkeeping.
func (s *Store) SaveTree(ctx context.Context, roots []*domain.BookmarkNode) error {
	data, err := json.Marshal(roots)
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	if err := s.client.Set(ctx, KeyTree, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save tree: %w", err)
	}

	return nil
}

// LoadTree retrieves the persisted bookmark tree. Returns an empty
// slice when no tree has been imported yet.
func (s *Store) LoadTree(ctx context.Context) ([]*domain.BookmarkNode, error) {
	data, err := s.client.Get(ctx, KeyTree).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*domain.BookmarkNode{}, nil
		}
		return nil, fmt.Errorf("failed to get tree: %w", err)
	}

	var roots []*domain.BookmarkNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree: %w", err)
	}

	return roots, nil
}

// DeleteTree removes the persisted bookmark tree
func (s *Store) DeleteTree(ctx context.Context) error {
	if err := s.client.Del(ctx, KeyTree).Err(); err != nil {
		return fmt.Errorf("failed to delete tree: %w", err)
	}
	return nil
}
