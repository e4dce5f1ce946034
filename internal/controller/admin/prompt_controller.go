package admin

import (
	"errors"
	"net/http"

	"github.com/dtvinh/mathtutor/internal/dto"
	"github.com/dtvinh/mathtutor/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PromptController struct {
	promptService service.PromptConfigService
}

func NewPromptController(promptService service.PromptConfigService) *PromptController {
	return &PromptController{promptService: promptService}
}

// ListPrompts godoc
// @Summary (Admin) List all active prompt configurations
// @Tags Admin - Prompts
// @Produce json
// @Success 200 {array} model.PromptConfig
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/prompts [get]
func (c *PromptController) ListPrompts(ctx *gin.Context) {
	configs, err := c.promptService.List()
	if err != nil {
		log.Error().Err(err).Msg("Admin ListPrompts: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve prompt configurations"})
		return
	}
	ctx.JSON(http.StatusOK, configs)
}

// GetPrompt godoc
// @Summary (Admin) Get one prompt configuration
// @Tags Admin - Prompts
// @Produce json
// @Param key path string true "Prompt key"
// @Success 200 {object} model.PromptConfig
// @Failure 404 {object} dto.ErrorResponse "Prompt configuration not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/prompts/{key} [get]
func (c *PromptController) GetPrompt(ctx *gin.Context) {
	cfg, err := c.promptService.Get(ctx.Param("key"))
	if err != nil {
		if errors.Is(err, service.ErrPromptNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Prompt configuration not found"})
			return
		}
		log.Error().Err(err).Str("promptKey", ctx.Param("key")).Msg("Admin GetPrompt: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve prompt configuration"})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// UpdatePrompt godoc
// @Summary (Admin) Update a prompt configuration
// @Description Applies a partial update to the template, model, temperature or token limit, then invalidates the prompt cache.
// @Tags Admin - Prompts
// @Accept json
// @Produce json
// @Param key path string true "Prompt key"
// @Param request body dto.UpdatePromptRequest true "Fields to update"
// @Success 200 {object} model.PromptConfig
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 404 {object} dto.ErrorResponse "Prompt configuration not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/prompts/{key} [put]
func (c *PromptController) UpdatePrompt(ctx *gin.Context) {
	var req dto.UpdatePromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin UpdatePrompt: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body: " + err.Error()})
		return
	}

	key := ctx.Param("key")
	cfg, err := c.promptService.Update(key, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromptNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Prompt configuration not found"})
		case errors.Is(err, service.ErrInvalidInput):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		default:
			log.Error().Err(err).Str("promptKey", key).Msg("Admin UpdatePrompt: Service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update prompt configuration"})
		}
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}

// ResetPrompt godoc
// @Summary (Admin) Reset a prompt configuration to its default
// @Tags Admin - Prompts
// @Produce json
// @Param key path string true "Prompt key"
// @Success 200 {object} model.PromptConfig
// @Failure 404 {object} dto.ErrorResponse "No default exists for this prompt key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/prompts/{key}/reset [post]
func (c *PromptController) ResetPrompt(ctx *gin.Context) {
	key := ctx.Param("key")
	cfg, err := c.promptService.ResetToDefault(key)
	if err != nil {
		if errors.Is(err, service.ErrPromptNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No default exists for this prompt key"})
			return
		}
		log.Error().Err(err).Str("promptKey", key).Msg("Admin ResetPrompt: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to reset prompt configuration"})
		return
	}
	ctx.JSON(http.StatusOK, cfg)
}
