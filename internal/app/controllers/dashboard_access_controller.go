package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
)

// DashboardAccessController toggles which audiences may open their dashboards
type DashboardAccessController struct {
	accessService services.DashboardAccessService
}

// NewDashboardAccessController creates a new DashboardAccessController
func NewDashboardAccessController(accessService services.DashboardAccessService) *DashboardAccessController {
	return &DashboardAccessController{accessService: accessService}
}

// Get lists the toggles of the school
// @Summary Dashboard access settings
// @Description Lists the student, teacher, parent and manager dashboard toggles. Audiences never configured are enabled.
// @Tags dashboard-access
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (required for admins)"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardAccessResponse}
// @Failure 400 {object} dto.ErrorResponse "No school selected"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /dashboard-access [get]
func (c *DashboardAccessController) Get(ctx *gin.Context) {
	resp, err := c.accessService.Get(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Set switches one audience
// @Summary Toggle one audience
// @Tags dashboard-access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (required for admins)"
// @Param audience path string true "student, teacher, parent or manager"
// @Param request body dto.SetDashboardAccessRequest true "Toggle"
// @Success 200 {object} dto.APIResponse{data=models.DashboardAccess}
// @Failure 400 {object} dto.ErrorResponse "Unknown audience"
// @Router /dashboard-access/{audience} [put]
func (c *DashboardAccessController) Set(ctx *gin.Context) {
	var req dto.SetDashboardAccessRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.accessService.Set(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), ctx.Param("audience"), *req.Enabled)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// SetMany switches several audiences at once
// @Summary Toggle several audiences
// @Tags dashboard-access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (required for admins)"
// @Param request body dto.SetManyDashboardAccessRequest true "Toggles keyed by audience"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardAccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown audience"
// @Router /dashboard-access [put]
func (c *DashboardAccessController) SetMany(ctx *gin.Context) {
	var req dto.SetManyDashboardAccessRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.accessService.SetMany(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), req.Settings)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Check answers whether one audience may open its dashboard
// @Summary Check dashboard access
// @Tags dashboard-access
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (required for admins)"
// @Param audience query string true "student, teacher, parent or manager"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardAccessCheckResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown audience"
// @Router /dashboard-access/check [get]
func (c *DashboardAccessController) Check(ctx *gin.Context) {
	resp, err := c.accessService.Check(ctx.Request.Context(), middleware.GetSchoolScope(ctx), ctx.Query("audience"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
