package summarize

import (
	"github.com/gin-gonic/gin"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summarize", h.summarize)
	rg.POST("/summarize/transcript", h.summarizeTranscript)
	rg.GET("/video-info", h.videoInfo)

	g := rg.Group("/cache")
	g.GET("", h.allCached)
	g.DELETE("", h.clearAllCached)
	g.GET("/:platform/:videoId", h.cachedSummary)
	g.DELETE("/:platform/:videoId", h.clearCachedSummary)

	rg.GET("/progress/:platform/:videoId", h.checkInProgress)
}

// POST /summarize
func (h *Handler) summarize(c *gin.Context) {
	var req models.SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.VideoInfo.VideoID == "" {
		response.BadRequest(c, "videoInfo.videoId is required")
		return
	}
	if req.PromptID == "" {
		req.PromptID = h.svc.PromptIDForVideo(c.Request.Context(), req.VideoInfo)
	}
	response.OK(c, h.svc.Summarize(c.Request.Context(), req))
}

// POST /summarize/transcript
func (h *Handler) summarizeTranscript(c *gin.Context) {
	var dto struct {
		Transcript string `json:"transcript" binding:"required"`
		PromptID   string `json:"promptId"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if dto.PromptID == "" {
		dto.PromptID = models.DefaultPromptID
	}
	response.OK(c, h.svc.SummarizeTranscript(c.Request.Context(), dto.Transcript, dto.PromptID))
}

// GET /video-info?url=...
func (h *Handler) videoInfo(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		response.BadRequest(c, "url query parameter is required")
		return
	}
	info := h.svc.VideoInfo(c.Request.Context(), rawURL)
	if info == nil {
		response.OK(c, nil)
		return
	}
	response.OK(c, info)
}

// GET /cache/:platform/:videoId
func (h *Handler) cachedSummary(c *gin.Context) {
	cached, err := h.svc.Cached(c.Request.Context(), c.Param("videoId"), models.Platform(c.Param("platform")))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if cached == nil {
		response.OK(c, nil)
		return
	}
	response.OK(c, cached)
}

// DELETE /cache/:platform/:videoId
func (h *Handler) clearCachedSummary(c *gin.Context) {
	if err := h.svc.ClearCached(c.Request.Context(), c.Param("videoId"), models.Platform(c.Param("platform"))); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /cache
func (h *Handler) allCached(c *gin.Context) {
	summaries, err := h.svc.AllCached(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, summaries)
}

// DELETE /cache
func (h *Handler) clearAllCached(c *gin.Context) {
	if err := h.svc.ClearAllCached(c.Request.Context()); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// GET /progress/:platform/:videoId
func (h *Handler) checkInProgress(c *gin.Context) {
	status := h.svc.InProgress(c.Param("videoId"), models.Platform(c.Param("platform")))
	response.OK(c, status)
}
