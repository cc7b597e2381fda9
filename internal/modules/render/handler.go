package render

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/modules/summarize"
	"github.com/vidsum/core/internal/pkg/response"
)

type Handler struct {
	svc *summarize.Service
}

func NewHandler(svc *summarize.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/render")
	g.GET("/:platform/:videoId", h.renderCached)
	g.POST("", h.preview)
}

// GET /render/:platform/:videoId
func (h *Handler) renderCached(c *gin.Context) {
	cached, err := h.svc.Cached(c.Request.Context(), c.Param("videoId"), models.Platform(c.Param("platform")))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cached == nil {
		response.NotFound(c)
		return
	}

	title := cached.VideoTitle
	if strings.TrimSpace(title) == "" {
		title = cached.VideoID
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderPage(title, cached.VideoURL, RenderMarkdown(cached.Summary)))
}

type previewDTO struct {
	MD    string `json:"md" binding:"required"`
	Title string `json:"title"`
}

// POST /render
func (h *Handler) preview(c *gin.Context) {
	var dto previewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, renderPage(dto.Title, "", RenderMarkdown(dto.MD)))
}
