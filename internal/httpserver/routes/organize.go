package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"tidymark/internal/httpserver/deps"
	"tidymark/internal/httpserver/handlers"
	"tidymark/internal/httpserver/mw"
)

func init() { Register(registerOrganize) }

func registerOrganize(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

	// Starting a run fans out LLM traffic; keep trigger-happy clients in check.
	sub.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             3,
		RefillPerIPPerMin: 6,
		MaxEntries:        1024,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})).Post("/organize", handlers.OrganizeStart(d))

	sub.Get("/organize/status", handlers.OrganizeStatus(d))
	sub.Post("/organize/cancel", handlers.OrganizeCancel(d))
}
