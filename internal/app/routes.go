package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidsum/core/internal/modules/prompts"
	"github.com/vidsum/core/internal/modules/render"
	"github.com/vidsum/core/internal/modules/settings"
	"github.com/vidsum/core/internal/modules/summarize"
	"github.com/vidsum/core/internal/pkg/response"
)

func (a *App) registerRoutes(
	settingsSvc *settings.Service,
	promptsSvc *prompts.Service,
	summarizeSvc *summarize.Service,
) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "vidsum-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/vidsum/core",
	}

	// Popup stream subscription
	r.Any("/socket.io/*any", gin.WrapH(a.hub.Handler()))

	api := r.Group("/api/v1")

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(a.start).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	settings.NewHandler(settingsSvc, summarizeSvc.TestAPIKey).RegisterRoutes(api)
	prompts.NewHandler(promptsSvc).RegisterRoutes(api)
	summarize.NewHandler(summarizeSvc).RegisterRoutes(api)
	render.NewHandler(summarizeSvc).RegisterRoutes(api)
}
