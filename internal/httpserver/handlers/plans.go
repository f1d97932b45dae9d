package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tidymark/internal/domain"
	"tidymark/internal/httpserver/deps"
	"tidymark/internal/logger"
)

type planSummary struct {
	ID       string              `json:"id"`
	Metadata domain.PlanMetadata `json:"metadata"`
}

// PlansList returns summaries of all stored plans, newest first
func PlansList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := d.Store.GetAllPlans(r.Context())
		if err != nil {
			d.Logger.Error("failed to list plans", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list plans")
			return
		}

		sort.Slice(plans, func(i, j int) bool {
			return plans[i].Metadata.CreatedAt.After(plans[j].Metadata.CreatedAt)
		})

		summaries := make([]planSummary, 0, len(plans))
		for _, p := range plans {
			summaries = append(summaries, planSummary{ID: p.ID, Metadata: p.Metadata})
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

// PlanGet returns a full stored plan by id
func PlanGet(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		plan, err := d.Store.GetPlan(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		writeJSON(w, http.StatusOK, plan)
	}
}

type applyRequest struct {
	HandleDuplicates string `json:"handleDuplicates,omitempty"`
	ApplyTags        bool   `json:"applyTags,omitempty"`
}

func (req applyRequest) validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.HandleDuplicates, validation.In(
			"", string(domain.DuplicatesKeep), string(domain.DuplicatesMerge),
		)),
	)
}

type applyResponse struct {
	PlanID    string `json:"planId"`
	Bookmarks int    `json:"bookmarks"`
	Folders   int    `json:"folders"`
}

// PlanApply applies a stored plan to the persisted tree and saves the
// reorganized result.
func PlanApply(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req applyRequest
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

		plan, err := d.Store.GetPlan(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}

		roots, err := d.Store.LoadTree(r.Context())
		if err != nil {
			d.Logger.Error("failed to load tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load tree")
			return
		}
		if len(roots) == 0 {
			writeError(w, http.StatusConflict, "no bookmark tree to apply the plan to")
			return
		}

		handling := domain.DuplicateHandling(req.HandleDuplicates)
		if handling == "" {
			handling = domain.DuplicatesKeep
		}

		reorganized := domain.ApplyOrganizationPlan(roots, plan, domain.ApplyOptions{
			HandleDuplicates: handling,
			ApplyTags:        req.ApplyTags,
		})

		if err := d.Store.SaveTree(r.Context(), reorganized); err != nil {
			d.Logger.Error("failed to save reorganized tree", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save tree")
			return
		}

		bookmarks, folders := countNodes(reorganized)
		d.Logger.Info("organization plan applied",
			logger.String("plan_id", plan.ID),
			logger.Int("suggestions", len(plan.Suggestions)),
			logger.Int("bookmarks", bookmarks))

		writeJSON(w, http.StatusOK, applyResponse{
			PlanID:    plan.ID,
			Bookmarks: bookmarks,
			Folders:   folders,
		})
	}
}

// PlanDelete removes a stored plan
func PlanDelete(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := d.Store.GetPlan(r.Context(), id); err != nil {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		if err := d.Store.DeletePlan(r.Context(), id); err != nil {
			d.Logger.Error("failed to delete plan", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete plan")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
