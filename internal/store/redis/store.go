package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultPlanTTL is the default TTL for stored organization plans (7 days)
	DefaultPlanTTL = 7 * 24 * time.Hour
)

// Store handles Redis operations for configs, groups, plans, and the tree
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
