package mw

import (
	"net/http"

	"tidymark/internal/logger"
	"tidymark/internal/utils"
)

// AllowOnlyCIDRS gates requests on the client IP against a list of
// addresses and CIDR ranges. An empty list disables the gate entirely.
// trustProxy controls whether proxy headers may supply the client IP.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	matcher := utils.NewIPMatcher(allowed)
	if matcher.IsEmpty() {
		log.Debug("ip filter disabled: no rules configured")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("ip filter active: %d rules, trustProxy=%v", len(allowed), trustProxy)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !matcher.Allow(ip) {
				log.Warnf("ip filter rejected %s for %s %s", ip, r.Method, r.URL.Path)
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
