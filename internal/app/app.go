package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/BibleBot/backend/internal/books"
	"github.com/BibleBot/backend/internal/config"
	"github.com/BibleBot/backend/internal/httpcache"
	"github.com/BibleBot/backend/internal/httpserver"
	"github.com/BibleBot/backend/internal/httpserver/deps"
	"github.com/BibleBot/backend/internal/index"
	"github.com/BibleBot/backend/internal/logger"
	"github.com/BibleBot/backend/internal/metadata"
	"github.com/BibleBot/backend/internal/providers"
	"github.com/BibleBot/backend/internal/redis"
	"github.com/BibleBot/backend/internal/resolver"
	"github.com/BibleBot/backend/internal/scheduler"
	redisstore "github.com/BibleBot/backend/internal/store/redis"
	"github.com/BibleBot/backend/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.MetadataReloader
	janitor     *scheduler.CacheJanitor
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// A broken embedded book table means a broken build; nothing can run.
	tables, err := books.Load()
	if err != nil {
		loggerClient.Fatal("failed to load book tables", logger.Error(err))
	}

	var (
		redisClient *goredis.Client
		store       *redisstore.Store
	)
	if cfg.DryRun {
		loggerClient.Info("dry-run mode, skipping redis")
	} else {
		redisClient, err = redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
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
			loggerClient.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		store = redisstore.NewStore(redisClient)
	}

	// Response cache backend: Redis when available, memory otherwise.
	var (
		cacheStore httpcache.Store
		memStore   *httpcache.MemStore
	)
	if store != nil {
		cacheStore = store
	} else {
		memStore = httpcache.NewMemStore()
		cacheStore = memStore
	}

	httpClient := httpcache.New(cacheStore, loggerClient, httpcache.Options{
		Expiry:     cfg.CacheExpiry,
		StaleAfter: cfg.CacheStaleAfter,
	})

	sources := []providers.Provider{
		providers.NewBibleGateway(cfg.BibleGatewayURL, httpClient, loggerClient),
	}
	if cfg.APIBibleKey != "" {
		sources = append(sources, providers.NewAPIBible(cfg.APIBibleURL, cfg.APIBibleKey, httpClient, loggerClient))
	} else {
		loggerClient.Warn("no API.Bible key configured, 'ab' source disabled")
	}
	registry := providers.NewRegistry(sources...)

	nameIndex := index.NewNameIndex()
	meta := metadata.New(tables, registry, store, nameIndex, loggerClient, cfg.DryRun)
	res := resolver.New(tables, registry, nameIndex, cfg.DefaultVersion, loggerClient)

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewMetadataReloader(
		cfg.VersionsFile,
		store,
		meta,
		loggerClient,
		cfg.ReloadInterval,
		cfg.DryRun,
		reloadTrigger,
	)

	janitor := scheduler.NewCacheJanitor(store, memStore, loggerClient, cfg.SweepInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		RedisClient:    redisClient,
		NameIndex:      nameIndex,
		Resolver:       res,
		Registry:       registry,
		Metadata:       meta,
		DefaultVersion: cfg.DefaultVersion,
		DryRun:         cfg.DryRun,
		ReloadTrigger:  reloadTrigger,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reloader:    reloader,
		janitor:     janitor,
	}
}

func (a *App) Run() error {
	a.logger.Info("starting backend",
		logger.String("version", version.Version),
		logger.String("commit", version.Commit),
		logger.String("built", version.BuildDate),
		logger.String("go", version.GoVersion),
		logger.String("addr", a.cfg.ListenPort))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads the version catalog and builds the first index snapshot.
	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metadata reloader: %w", err)
	}
	a.logger.Info("metadata reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	if err := a.janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start cache janitor: %w", err)
	}
	a.logger.Info("cache janitor started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.janitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", logger.Error(err))
		} else {
			a.logger.Info("redis closed cleanly")
		}
	}

	a.logger.Info("backend stopped cleanly")
	return nil
}
