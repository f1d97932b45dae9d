package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"tidymark/internal/logger"
	"tidymark/internal/organizer"
	"tidymark/internal/registry"
	redisstore "tidymark/internal/store/redis"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access healthz/readyz endpoints
	TrustProxy    bool             // true if running behind a trusted reverse proxy
	ProvidersFile string           // Path to the providers seed file
	RedisClient   *redis.Client    // Redis client connection
	Store         *redisstore.Store
	Registry      *registry.Registry
	Engine        *organizer.Engine
	ReloadTrigger chan struct{} // Channel to trigger manual providers reload
	MaxImportSize int64         // Max accepted size for bookmark HTML uploads

	// Run defaults applied when an organize request omits them.
	DefaultBatchSize  int
	DefaultConfidence float64
}
