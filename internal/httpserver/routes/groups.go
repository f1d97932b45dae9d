package routes

import (
	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/httpserver/handlers"
	"tidymark/internal/httpserver/mw"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	sub.Get("/groups", handlers.GroupsList(d))
	sub.Post("/groups", handlers.GroupCreate(d))
	sub.Get("/groups/{id}", handlers.GroupGet(d))
	sub.Put("/groups/{id}", handlers.GroupUpdate(d))
	sub.Delete("/groups/{id}", handlers.GroupDelete(d))
	sub.Post("/groups/{id}/activate", handlers.GroupActivate(d))
}
