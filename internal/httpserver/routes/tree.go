package routes

import (
	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/httpserver/handlers"
	"tidymark/internal/httpserver/mw"
)

func init() { Register(registerTree) }

func registerTree(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
	sub.Get("/tree", handlers.Tree(d))
	sub.Delete("/tree", handlers.TreeDelete(d))
	sub.Post("/import", handlers.Import(d))
	sub.Get("/export", handlers.Export(d))
}
