package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"tidymark/internal/domain"
	"tidymark/internal/httpserver/deps"
	"tidymark/internal/logger"
)

type groupRequest struct {
	Name      string   `json:"name"`
	ConfigIDs []string `json:"configIds"`
}

func (req groupRequest) validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.ConfigIDs, validation.Required, validation.Length(1, 32)),
	)
}

// GroupsList returns all config groups
func GroupsList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Registry.Groups())
	}
}

// GroupCreate registers a new config group. Every member must be a
// known config id.
func GroupCreate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, exists := d.Registry.GroupByName(req.Name); exists {
			writeError(w, http.StatusConflict, "group name already in use")
			return
		}
		for _, id := range req.ConfigIDs {
			if _, ok := d.Registry.Config(id); !ok {
				writeError(w, http.StatusBadRequest, "unknown config id: "+id)
				return
			}
		}

		group := &domain.AiConfigGroup{
			ID:        uuid.NewString(),
			Name:      req.Name,
			ConfigIDs: req.ConfigIDs,
			CreatedAt: time.Now(),
		}

		d.Registry.UpsertGroup(group)
		if err := d.Store.SaveGroup(r.Context(), group); err != nil {
			d.Logger.Warn("failed to persist group", logger.Error(err))
		}

		d.Logger.Info("config group created",
			logger.String("group_id", group.ID),
			logger.Int("members", len(group.ConfigIDs)))

		writeJSON(w, http.StatusCreated, group)
	}
}

// GroupGet returns one group by id
func GroupGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, ok := d.Registry.Group(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeJSON(w, http.StatusOK, group)
	}
}

// GroupUpdate replaces a group's name and membership
func GroupUpdate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := d.Registry.Group(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}

		var req groupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if other, exists := d.Registry.GroupByName(req.Name); exists && other.ID != existing.ID {
			writeError(w, http.StatusConflict, "group name already in use")
			return
		}
		for _, id := range req.ConfigIDs {
			if _, ok := d.Registry.Config(id); !ok {
				writeError(w, http.StatusBadRequest, "unknown config id: "+id)
				return
			}
		}

		updated := &domain.AiConfigGroup{
			ID:        existing.ID,
			Name:      req.Name,
			ConfigIDs: req.ConfigIDs,
			CreatedAt: existing.CreatedAt,
		}

		d.Registry.UpsertGroup(updated)
		if err := d.Store.SaveGroup(r.Context(), updated); err != nil {
			d.Logger.Warn("failed to persist group", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

// GroupDelete removes a group
func GroupDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Registry.Group(id); !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}

		d.Registry.DeleteGroup(id)
		if err := d.Store.DeleteGroup(r.Context(), id); err != nil {
			d.Logger.Warn("failed to delete group from redis", logger.Error(err))
		}

		d.Logger.Info("config group deleted", logger.String("group_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// GroupActivate marks a group as the active selection
func GroupActivate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		group, ok := d.Registry.Group(id)
		if !ok {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}

		d.Registry.SetActiveGroup(id)
		if err := d.Store.SetActiveGroup(r.Context(), id); err != nil {
			d.Logger.Warn("failed to persist active group", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, group)
	}
}
