package redis

import "fmt"

const (
	// KeyPrefixConfig is the prefix for AI config keys
	KeyPrefixConfig = "tidymark:config:"
	// KeyPrefixGroup is the prefix for config group keys
	KeyPrefixGroup = "tidymark:group:"
	// KeyPrefixPlan is the prefix for organization plan keys
	KeyPrefixPlan = "tidymark:plan:"
	// KeyAllConfigs is the key for the set of all config IDs
	KeyAllConfigs = "tidymark:configs:all"
	// KeyAllGroups is the key for the set of all group IDs
	KeyAllGroups = "tidymark:groups:all"
	// KeyAllPlans is the key for the set of all plan IDs
	KeyAllPlans = "tidymark:plans:all"
	// KeyTree is the key for the persisted bookmark tree
	KeyTree = "tidymark:tree"
	// KeyActiveConfig is the key holding the active config ID
	KeyActiveConfig = "tidymark:active:config"
	// KeyActiveGroup is the key holding the active group ID
	KeyActiveGroup = "tidymark:active:group"
)

// ConfigKey returns the Redis key for an AI config by ID
func ConfigKey(id string) string {
	return KeyPrefixConfig + id
}

// GroupKey returns the Redis key for a config group by ID
func GroupKey(id string) string {
	return KeyPrefixGroup + id
}

// PlanKey returns the Redis key for an organization plan by ID
func PlanKey(id string) string {
	return KeyPrefixPlan + id
}

// ExtractPlanID extracts the plan ID from a Redis key
func ExtractPlanID(key string) (string, error) {
	if len(key) <= len(KeyPrefixPlan) {
		return "", fmt.Errorf("invalid plan key: %s", key)
	}
	return key[len(KeyPrefixPlan):], nil
}
