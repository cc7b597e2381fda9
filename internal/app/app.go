package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidsum/core/internal/config"
	"github.com/vidsum/core/internal/middleware"
	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/modules/gateway"
	"github.com/vidsum/core/internal/modules/prompts"
	"github.com/vidsum/core/internal/modules/settings"
	"github.com/vidsum/core/internal/modules/summarize"
	"github.com/vidsum/core/internal/modules/upstream"
	"github.com/vidsum/core/internal/modules/video"
	"github.com/vidsum/core/internal/pkg/kv"
	pkgredis "github.com/vidsum/core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	hub    *gateway.Hub
	logger *zap.Logger
	cancel context.CancelFunc
	start  time.Time
}

// New initializes the application: config → storage partitions →
// gateway → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	applyRuntimeSettings(cfg)

	// Sync partition: small, durable, survives restart. Holds settings
	// and prompt templates.
	syncStore, err := kv.OpenFile(filepath.Join(cfg.DataDir(), "sync.json"))
	if err != nil {
		return nil, fmt.Errorf("sync store: %w", err)
	}

	// Cache partition: larger, local-only. Redis when configured,
	// otherwise process memory.
	var (
		cacheStore kv.Store
		rc         *pkgredis.Client
	)
	if url := cfg.RedisURLValue(); url != "" {
		rc, err = pkgredis.Connect(url)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		cacheStore = kv.NewRedis(rc)
	} else {
		cacheStore = kv.NewMemory()
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	hub := gateway.NewHub(rc, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	settingsSvc := settings.NewService(syncStore)
	promptsSvc := prompts.NewService(syncStore)

	factory := upstream.NewFactory()
	// A settings change may carry a new key or model; the cached client
	// must not outlive it.
	settingsSvc.OnChange(func(models.Settings) { factory.Reset() })

	summarizeSvc := summarize.NewService(
		settingsSvc,
		promptsSvc,
		summarize.NewCache(cacheStore, logger),
		summarize.NewRegistry(),
		factory,
		video.NewMetadataClient(logger),
		gateway.NewStreamRelay(hub, logger),
		logger,
	)

	app := &App{
		cfg:    cfg,
		router: router,
		hub:    hub,
		logger: logger,
		cancel: cancel,
		start:  time.Now(),
	}
	app.registerRoutes(settingsSvc, promptsSvc, summarizeSvc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }
