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

type configRequest struct {
	Name      string            `json:"name"`
	Provider  string            `json:"provider"`
	Model     string            `json:"model"`
	BaseURL   string            `json:"baseUrl,omitempty"`
	APIKey    string            `json:"apiKey,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IsDefault bool              `json:"isDefault,omitempty"`
}

func (req configRequest) validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&req.Provider, validation.Required, validation.By(func(v any) error {
			if !domain.Provider(v.(string)).Valid() {
				return validation.NewError("validation_provider", "unknown provider")
			}
			return nil
		})),
		validation.Field(&req.Model, validation.Required, validation.Length(1, 256)),
	)
}

// configView is the API shape for a config: the key never leaves the
// server, only whether one is set.
type configView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Provider  domain.Provider   `json:"provider"`
	BaseURL   string            `json:"baseUrl,omitempty"`
	Model     string            `json:"model"`
	HasAPIKey bool              `json:"hasApiKey"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IsDefault bool              `json:"isDefault,omitempty"`
	Active    bool              `json:"active,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

func viewOf(c *domain.AiConfig, activeID string) configView {
	return configView{
		ID:        c.ID,
		Name:      c.Name,
		Provider:  c.Provider,
		BaseURL:   c.BaseURL,
		Model:     c.ModelID,
		HasAPIKey: c.APIKey != "",
		Metadata:  c.Metadata,
		IsDefault: c.IsDefault,
		Active:    c.ID == activeID,
		CreatedAt: c.CreatedAt,
	}
}

// ConfigsList returns all provider configs
func ConfigsList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeID := d.Registry.ActiveConfigID()
		configs := d.Registry.Configs()
		views := make([]configView, 0, len(configs))
		for _, c := range configs {
			views = append(views, viewOf(c, activeID))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// ConfigCreate registers a new provider config
func ConfigCreate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req configRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if _, exists := d.Registry.ConfigByName(req.Name); exists {
			writeError(w, http.StatusConflict, "config name already in use")
			return
		}

		cfg := &domain.AiConfig{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Provider:  domain.Provider(req.Provider),
			BaseURL:   req.BaseURL,
			APIKey:    req.APIKey,
			ModelID:   req.Model,
			Metadata:  req.Metadata,
			IsDefault: req.IsDefault,
			CreatedAt: time.Now(),
		}

		d.Registry.UpsertConfig(cfg)
		if err := d.Store.SaveConfig(r.Context(), cfg); err != nil {
			d.Logger.Warn("failed to persist config", logger.Error(err))
		}

		d.Logger.Info("provider config created",
			logger.String("config_id", cfg.ID),
			logger.String("provider", string(cfg.Provider)))

		writeJSON(w, http.StatusCreated, viewOf(cfg, d.Registry.ActiveConfigID()))
	}
}

// ConfigGet returns one config by id
func ConfigGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, ok := d.Registry.Config(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "config not found")
			return
		}
		writeJSON(w, http.StatusOK, viewOf(cfg, d.Registry.ActiveConfigID()))
	}
}

// ConfigUpdate replaces a config's editable fields. An empty apiKey in
// the request keeps the stored key.
func ConfigUpdate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := d.Registry.Config(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "config not found")
			return
		}

		var req configRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if other, exists := d.Registry.ConfigByName(req.Name); exists && other.ID != existing.ID {
			writeError(w, http.StatusConflict, "config name already in use")
			return
		}

		updated := &domain.AiConfig{
			ID:        existing.ID,
			Name:      req.Name,
			Provider:  domain.Provider(req.Provider),
			BaseURL:   req.BaseURL,
			APIKey:    req.APIKey,
			ModelID:   req.Model,
			Metadata:  req.Metadata,
			IsDefault: req.IsDefault,
			CreatedAt: existing.CreatedAt,
		}
		if updated.APIKey == "" {
			updated.APIKey = existing.APIKey
		}

		d.Registry.UpsertConfig(updated)
		if err := d.Store.SaveConfig(r.Context(), updated); err != nil {
			d.Logger.Warn("failed to persist config", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, viewOf(updated, d.Registry.ActiveConfigID()))
	}
}

// ConfigDelete removes a config, cascading out of group memberships
func ConfigDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Registry.Config(id); !ok {
			writeError(w, http.StatusNotFound, "config not found")
			return
		}

		d.Registry.DeleteConfig(id)
		if err := d.Store.DeleteConfig(r.Context(), id); err != nil {
			d.Logger.Warn("failed to delete config from redis", logger.Error(err))
		}

		d.Logger.Info("provider config deleted", logger.String("config_id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ConfigActivate marks a config as the active selection
func ConfigActivate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := d.Registry.Config(id)
		if !ok {
			writeError(w, http.StatusNotFound, "config not found")
			return
		}

		d.Registry.SetActiveConfig(id)
		if err := d.Store.SetActiveConfig(r.Context(), id); err != nil {
			d.Logger.Warn("failed to persist active config", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, viewOf(cfg, id))
	}
}
