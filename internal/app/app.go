package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tidymark/internal/config"
	"tidymark/internal/httpserver"
	"tidymark/internal/httpserver/deps"
	"tidymark/internal/logger"
	"tidymark/internal/organizer"
	"tidymark/internal/provider"
	"tidymark/internal/redis"
	"tidymark/internal/registry"
	"tidymark/internal/scheduler"
	redisstore "tidymark/internal/store/redis"
	"tidymark/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	registry    *registry.Registry
	reloader    *scheduler.ProviderReloader
	planGC      *scheduler.PlanCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Initialize provider registry and Redis store
	reg := registry.New()
	store := redisstore.NewStore(redisClient)

	// Sync configs from Redis to the registry on startup
	syncer := scheduler.NewRedisSyncer(store, reg, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, will load from providers file",
			logger.Error(err))
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	// Initialize providers file reloader (if a seed file is configured)
	var reloader *scheduler.ProviderReloader
	if cfg.ProvidersFile != "" {
		loggerClient.Info("providers file configured, initializing reloader",
			logger.String("file", cfg.ProvidersFile))
		reloader = scheduler.NewProviderReloader(
			cfg.ProvidersFile,
			store,
			reg,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("no providers file configured, configs come from the API only")
	}

	// Initialize plan garbage collector
	planGC := scheduler.NewPlanCollector(store, loggerClient, cfg.PlanGCInterval)

	// Organization engine over a shared retrying transport
	transport := provider.NewTransport(cfg.HTTPTimeout)
	engine := organizer.New(reg, transport, loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		ProvidersFile: cfg.ProvidersFile,
		RedisClient:   redisClient,
		Store:         store,
		Registry:      reg,
		Engine:        engine,
		ReloadTrigger: reloadTrigger,
		MaxImportSize: cfg.MaxImportSize,

		DefaultBatchSize:  cfg.BatchSize,
		DefaultConfidence: cfg.ConfidenceThreshold,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		registry:    reg,
		reloader:    reloader,
		planGC:      planGC,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Tidymark v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Tidymark %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start providers reloader (seeds configs and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start providers reloader: %w", err)
		}
		a.logger.Info("providers reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start plan garbage collector
	if err := a.planGC.Start(ctx); err != nil {
		return fmt.Errorf("failed to start plan collector: %w", err)
	}
	a.logger.Info("plan collector started",
		logger.Duration("interval", a.cfg.PlanGCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.planGC.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Tidymark stopped cleanly")
	return nil
}
