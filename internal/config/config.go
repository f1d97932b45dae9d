package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ProvidersFile  string        // path to the providers.yaml seed file (optional, empty = no seed)
	ReloadInterval time.Duration // interval to reload providers.yaml (default: 24h)
	PlanGCInterval time.Duration // interval to prune expired plans (default: 24h)

	// Organizer defaults (request options may override per run)
	BatchSize           int     // bookmarks per LLM request (default: 10)
	ConfidenceThreshold float64 // suggestions below this are dropped (default: 0)
	HTTPTimeout         time.Duration
	MaxImportSize       int64 // max accepted bookmark HTML upload (bytes)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 5.6.7.8")
	CORSOrigins  []string // allowed CORS origins (empty = same-origin only)
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("TIDYMARK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("TIDYMARK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("TIDYMARK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("TIDYMARK_PRETTY_LOG", true),

		// Providers seed file
		ProvidersFile:  getenv("TIDYMARK_PROVIDERS_FILE", ""),
		ReloadInterval: mustDuration("TIDYMARK_RELOAD_INTERVAL", 24*time.Hour),
		PlanGCInterval: mustDuration("TIDYMARK_PLAN_GC_INTERVAL", 24*time.Hour),

		// Organizer defaults
		BatchSize:           getenvInt("TIDYMARK_BATCH_SIZE", 10),
		ConfidenceThreshold: mustFloat("TIDYMARK_CONFIDENCE_THRESHOLD", 0),
		HTTPTimeout:         mustDuration("TIDYMARK_HTTP_TIMEOUT", 120*time.Second),
		MaxImportSize:       int64(getenvInt("TIDYMARK_MAX_IMPORT_MB", 32)) << 20,

		// Redis settings
		RedisAddr:             requireEnv("TIDYMARK_REDIS_ADDR"),
		RedisUser:             getenv("TIDYMARK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("TIDYMARK_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("TIDYMARK_REDIS_PASSWORD", ""),
		RedisDB:               requireEnvInt("TIDYMARK_REDIS_DB"),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("TIDYMARK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("TIDYMARK_ALLOWED_CIDRS", "")),
		CORSOrigins:  splitAndTrim(getenv("TIDYMARK_CORS_ORIGINS", "")),
		TrustProxy:   mustBool("TIDYMARK_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: TIDYMARK_REDIS_PASSWORD is required when TIDYMARK_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		panic("❌ FATAL: TIDYMARK_CONFIDENCE_THRESHOLD must be between 0 and 1")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
