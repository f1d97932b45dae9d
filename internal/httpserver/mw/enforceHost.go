package mw

import (
	"net"
	"net/http"
	"strings"

	"tidymark/internal/logger"
)

// EnforceHost rejects requests whose Host header matches none of the
// allowed names. Patterns may use a leading wildcard ("*.example.com").
// An empty list disables the check. The Host port is ignored so the same
// list works for direct and proxied listeners.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		log.Debug("host check disabled: no hosts configured")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debugf("host check active: %v", allowedHosts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := stripPort(r.Host)
			for _, pattern := range allowedHosts {
				if hostMatches(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warnf("host check rejected %q for %s %s", r.Host, r.Method, r.URL.Path)
			w.WriteHeader(http.StatusForbidden)
		})
	}
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

func hostMatches(host, pattern string) bool {
	if strings.EqualFold(host, pattern) {
		return true
	}
	// "*.example.com" matches any single-label-or-deeper subdomain but
	// not the apex itself.
	if rest, ok := strings.CutPrefix(pattern, "*."); ok {
		return len(host) > len(rest) && strings.EqualFold(host[len(host)-len(rest)-1:], "."+rest)
	}
	return false
}
