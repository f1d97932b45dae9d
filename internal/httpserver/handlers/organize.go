package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/logger"
	"tidymark/internal/organizer"
)

type organizeRequest struct {
	Group               string   `json:"group,omitempty"`
	BatchSize           int      `json:"batchSize,omitempty"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty"`
	MaxDepth            int      `json:"maxDepth,omitempty"`
	CreateHierarchy     bool     `json:"createHierarchy,omitempty"`
	GenerateTags        bool     `json:"generateTags,omitempty"`
	DetectDuplicates    bool     `json:"detectDuplicates,omitempty"`
	Temperature         float64  `json:"temperature,omitempty"`
	MaxTokens           int      `json:"maxTokens,omitempty"`
}

func (req organizeRequest) validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.BatchSize, validation.Min(0), validation.Max(100)),
		validation.Field(&req.ConfidenceThreshold, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&req.MaxDepth, validation.Min(0), validation.Max(10)),
		validation.Field(&req.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&req.MaxTokens, validation.Min(0)),
	)
}

type organizeStartResponse struct {
	State string `json:"state"`
}

// OrganizeStart kicks off an asynchronous organization run over the
// persisted tree. Progress is polled through OrganizeStatus.
func OrganizeStart(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req organizeRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		roots, err := d.Store.LoadTree(r.Context())
		if err != nil {
			d.Logger.Error("failed to load tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load tree")
			return
		}
		if len(roots) == 0 {
			writeError(w, http.StatusBadRequest, "no bookmark tree imported")
			return
		}

		if d.Engine.Status().State == organizer.StateRunning {
			writeError(w, http.StatusConflict, "organization already running")
			return
		}

		// Request values win; config supplies defaults. A pointer keeps
		// an explicit threshold of 0 distinguishable from "not set".
		batchSize := req.BatchSize
		if batchSize == 0 {
			batchSize = d.DefaultBatchSize
		}
		confidence := d.DefaultConfidence
		if req.ConfidenceThreshold != nil {
			confidence = *req.ConfidenceThreshold
		}

		opts := organizer.Options{
			Group:               req.Group,
			BatchSize:           batchSize,
			ConfidenceThreshold: confidence,
			MaxDepth:            req.MaxDepth,
			CreateHierarchy:     req.CreateHierarchy,
			GenerateTags:        req.GenerateTags,
			DetectDuplicates:    req.DetectDuplicates,
			Temperature:         req.Temperature,
			MaxTokens:           req.MaxTokens,
		}

		// The run outlives the HTTP request; detach it from the
		// request context and let Cancel drive early termination.
		go func() {
			plan, err := d.Engine.Organize(context.Background(), roots, opts)
			if err != nil {
				switch {
				case errors.Is(err, organizer.ErrCancelled):
					d.Logger.Info("organization run cancelled")
				case errors.Is(err, organizer.ErrAlreadyRunning):
					d.Logger.Warn("organization start raced with another run")
				default:
					d.Logger.Error("organization run failed", logger.Error(err))
				}
				return
			}

			if err := d.Store.SavePlan(context.Background(), plan); err != nil {
				d.Logger.Error("failed to persist plan",
					logger.String("plan_id", plan.ID),
					logger.Error(err))
				return
			}
			d.Logger.Info("organization plan saved",
				logger.String("plan_id", plan.ID),
				logger.Int("suggestions", len(plan.Suggestions)))
		}()

		writeJSON(w, http.StatusAccepted, organizeStartResponse{
			State: string(organizer.StateRunning),
		})
	}
}

// OrganizeStatus returns the engine's state, progress, and run log
func OrganizeStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Engine.Status())
	}
}

// OrganizeCancel requests cancellation of the current run
func OrganizeCancel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := d.Engine.Status()
		if status.State != organizer.StateRunning {
			writeError(w, http.StatusConflict, "no organization run in progress")
			return
		}

		d.Engine.Cancel()
		writeJSON(w, http.StatusAccepted, organizeStartResponse{
			State: string(organizer.StateCancelled),
		})
	}
}
