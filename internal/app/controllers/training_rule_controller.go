package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

// TrainingRuleController manages the AI assistant training rules
type TrainingRuleController struct {
	ruleService services.TrainingRuleService
	logger      zerolog.Logger
}

// NewTrainingRuleController creates a new TrainingRuleController
func NewTrainingRuleController(ruleService services.TrainingRuleService, logger zerolog.Logger) *TrainingRuleController {
	return &TrainingRuleController{
		ruleService: ruleService,
		logger:      logger,
	}
}

// List handles listing rules
// @Summary List training rules
// @Description Lists the school's rules together with site-wide rules
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Param category query string false "general, curriculum, safety, tone or faq"
// @Param enabled query bool false "Enabled state"
// @Param search query string false "Matches trigger phrase or response"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.TrainingRuleListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /training-rules [get]
func (c *TrainingRuleController) List(ctx *gin.Context) {
	filter := models.TrainingRuleFilter{
		Category: models.TrainingCategory(ctx.Query("category")),
		Search:   ctx.Query("search"),
		Page:     helpers.ParsePaginationParams(ctx),
	}
	if raw := ctx.Query("enabled"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enabled").
				WithField("enabled").
				WithDetails("enabled must be true or false")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.Enabled = &enabled
	}

	resp, err := c.ruleService.List(ctx.Request.Context(), middleware.GetSchoolScope(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Get handles getting a rule by ID
// @Summary Get training rule
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=models.TrainingRule}
// @Failure 404 {object} dto.ErrorResponse "Rule not found"
// @Router /training-rules/{id} [get]
func (c *TrainingRuleController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	rule, err := c.ruleService.Get(ctx.Request.Context(), middleware.GetSchoolScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rule))
}

// Create handles rule creation
// @Summary Create training rule
// @Description Creates a rule for the selected school. Admins without a school create a site-wide rule.
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = site-wide)"
// @Param request body dto.TrainingRuleRequest true "Rule"
// @Success 201 {object} dto.APIResponse{data=models.TrainingRule}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 403 {object} dto.ErrorResponse "Site-wide rules are reserved to admins"
// @Router /training-rules [post]
func (c *TrainingRuleController) Create(ctx *gin.Context) {
	var req dto.TrainingRuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rule, err := c.ruleService.Create(ctx.Request.Context(), middleware.CurrentUser(ctx), middleware.GetSchoolScope(ctx), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("category", req.Category).Msg("Training rule creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(rule))
}

// Update handles rule updates
// @Summary Update training rule
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param request body dto.TrainingRuleRequest true "Rule"
// @Success 200 {object} dto.APIResponse{data=models.TrainingRule}
// @Failure 404 {object} dto.ErrorResponse "Rule not found"
// @Router /training-rules/{id} [put]
func (c *TrainingRuleController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.TrainingRuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rule, err := c.ruleService.Update(ctx.Request.Context(), middleware.CurrentUser(ctx), middleware.GetSchoolScope(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rule))
}

// Toggle switches a rule on or off
// @Summary Toggle training rule
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Param request body dto.ToggleTrainingRuleRequest true "Enabled state"
// @Success 200 {object} dto.APIResponse{data=models.TrainingRule}
// @Failure 404 {object} dto.ErrorResponse "Rule not found"
// @Router /training-rules/{id}/enabled [patch]
func (c *TrainingRuleController) Toggle(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ToggleTrainingRuleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rule, err := c.ruleService.Toggle(ctx.Request.Context(), middleware.CurrentUser(ctx), middleware.GetSchoolScope(ctx), id, *req.Enabled)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rule))
}

// Delete handles rule deletion
// @Summary Delete training rule
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param id path int true "Rule ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Rule not found"
// @Router /training-rules/{id} [delete]
func (c *TrainingRuleController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.ruleService.Delete(ctx.Request.Context(), middleware.CurrentUser(ctx), middleware.GetSchoolScope(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Training rule deleted successfully"}))
}

// Preview renders a response without saving it
// @Summary Preview a response
// @Description Renders the Markdown response to sanitized HTML and plain text
// @Tags training
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PreviewRequest true "Response text"
// @Success 200 {object} dto.APIResponse{data=dto.PreviewResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /training-rules/preview [post]
func (c *TrainingRuleController) Preview(ctx *gin.Context) {
	var req dto.PreviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.ruleService.Preview(ctx.Request.Context(), req.Response)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Export returns the enabled rules as the assistant bundle
// @Summary Export training rules
// @Tags training
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = site-wide only)"
// @Success 200 {object} dto.APIResponse{data=dto.TrainingExport}
// @Router /training-rules/export [get]
func (c *TrainingRuleController) Export(ctx *gin.Context) {
	resp, err := c.ruleService.Export(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
