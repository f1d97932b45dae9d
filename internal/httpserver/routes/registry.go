package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
)

// Each route file self-registers from init(), so mounting every endpoint
// is a single RegisterAll call and adding a route never touches server.go.

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registered []entry

// Register queues a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registered = append(registered, entry{reg: reg, mws: mws})
}

// RegisterAll mounts every queued registrar. Called once from server.New.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registered {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
}
