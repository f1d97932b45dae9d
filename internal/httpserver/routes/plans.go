package routes

import (
	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/httpserver/handlers"
	"tidymark/internal/httpserver/mw"
)

func init() { Register(registerPlans) }

func registerPlans(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	sub.Get("/plans", handlers.PlansList(d))
	sub.Get("/plans/{id}", handlers.PlanGet(d))
	sub.Post("/plans/{id}/apply", handlers.PlanApply(d))
	sub.Delete("/plans/{id}", handlers.PlanDelete(d))
}
