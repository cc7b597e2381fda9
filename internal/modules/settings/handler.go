package settings

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/vidsum/core/internal/pkg/response"
)

// KeyTester probes an API key with a minimal generation call.
type KeyTester func(ctx context.Context, apiKey string) bool

type Handler struct {
	svc     *Service
	testKey KeyTester
}

func NewHandler(svc *Service, testKey KeyTester) *Handler {
	return &Handler{svc: svc, testKey: testKey}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/settings")
	g.GET("", h.getSettings)
	g.PATCH("", h.patchSettings)
	g.POST("/reset", h.resetSettings)
	g.POST("/test-key", h.testAPIKey)
}

// GET /settings
func (h *Handler) getSettings(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, settings)
}

// PATCH /settings
func (h *Handler) patchSettings(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.Patch(c.Request.Context(), partial)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}

// POST /settings/reset
func (h *Handler) resetSettings(c *gin.Context) {
	settings, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, settings)
}

// POST /settings/test-key
func (h *Handler) testAPIKey(c *gin.Context) {
	var dto struct {
		APIKey string `json:"apiKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	valid := h.testKey(c.Request.Context(), dto.APIKey)
	response.OK(c, gin.H{"valid": valid})
}
