package prompts

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/vidsum/core/internal/models"
	"github.com/vidsum/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/prompts")
	g.GET("", h.listPrompts)
	g.GET("/:id", h.getPrompt)
	g.POST("", h.addPrompt)
	g.PATCH("/:id", h.updatePrompt)
	g.DELETE("/:id", h.deletePrompt)
}

// GET /prompts
func (h *Handler) listPrompts(c *gin.Context) {
	list, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, list)
}

// GET /prompts/:id
func (h *Handler) getPrompt(c *gin.Context) {
	tpl, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "prompt not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, tpl)
}

type addPromptDTO struct {
	ID               string   `json:"id"`
	Name             string   `json:"name" binding:"required"`
	Prompt           string   `json:"prompt" binding:"required"`
	MappedCategories []string `json:"mappedCategories"`
}

// POST /prompts
func (h *Handler) addPrompt(c *gin.Context) {
	var dto addPromptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tpl, err := h.svc.Add(c.Request.Context(), models.PromptTemplate{
		ID:               dto.ID,
		Name:             dto.Name,
		Prompt:           dto.Prompt,
		MappedCategories: dto.MappedCategories,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			response.Conflict(c, err.Error())
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, tpl)
}

type updatePromptDTO struct {
	Name             *string  `json:"name"`
	Prompt           *string  `json:"prompt"`
	MappedCategories []string `json:"mappedCategories"`
}

// PATCH /prompts/:id
func (h *Handler) updatePrompt(c *gin.Context) {
	var dto updatePromptDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tpl, err := h.svc.Update(c.Request.Context(), c.Param("id"), dto.Name, dto.Prompt, dto.MappedCategories)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFoundMsg(c, "prompt not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, tpl)
}

// DELETE /prompts/:id
func (h *Handler) deletePrompt(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		response.NoContent(c)
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "prompt not found")
	case errors.Is(err, ErrBuiltInDelete):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
