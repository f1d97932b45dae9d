package handlers

import (
	"context"
	"net/http"
	"time"

	"tidymark/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Configs    *int   `json:"configs,omitempty"`
	Groups     *int   `json:"groups,omitempty"`
	LastSync   string `json:"last_sync,omitempty"`
	State      string `json:"state,omitempty"`
	LastPlanID string `json:"last_plan_id,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		configs := d.Registry.Count()
		groups := d.Registry.GroupCount()
		lastSync := d.Registry.LastSync()
		lastSyncStr := "never"
		if !lastSync.IsZero() {
			lastSyncStr = lastSync.Format("2006-01-02 15:04:05")
		}

		engineStatus := d.Engine.Status()

		components := map[string]componentStatus{
			"registry": {
				OK:       configs > 0,
				Configs:  &configs,
				Groups:   &groups,
				LastSync: lastSyncStr,
			},
			"redis": checkRedis(d),
			"organizer": {
				OK:         true,
				State:      string(engineStatus.State),
				LastPlanID: engineStatus.LastPlanID,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// No configs means nothing can organize
	if reg, exists := components["registry"]; exists && !reg.OK {
		return "critical"
	}

	// Redis down = degraded (no persistence, registry-only)
	if rd, exists := components["redis"]; exists && !rd.OK {
		return "degraded"
	}

	return "operational"
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Impact: "persistence-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "persistence-disabled",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Impact: "persistence-enabled",
	}
}
