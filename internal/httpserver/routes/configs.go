package routes

import (
	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/httpserver/handlers"
	"tidymark/internal/httpserver/mw"
)

func init() { Register(registerConfigs) }

func registerConfigs(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	sub.Get("/configs", handlers.ConfigsList(d))
	sub.Post("/configs", handlers.ConfigCreate(d))
	sub.Get("/configs/{id}", handlers.ConfigGet(d))
	sub.Put("/configs/{id}", handlers.ConfigUpdate(d))
	sub.Delete("/configs/{id}", handlers.ConfigDelete(d))
	sub.Post("/configs/{id}/activate", handlers.ConfigActivate(d))
}
