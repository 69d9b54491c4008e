package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
)

// CompanyController lists the schools visible to the caller
type CompanyController struct {
	companyService services.CompanyService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// List handles listing schools
// @Summary List schools
// @Description Admins see every school, managers only their own
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CompanyListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /schools [get]
func (c *CompanyController) List(ctx *gin.Context) {
	resp, err := c.companyService.List(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Get handles getting a school by ID
// @Summary Get school
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=models.CompanySummary}
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /schools/{id} [get]
func (c *CompanyController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	company, err := c.companyService.Get(ctx.Request.Context(), middleware.GetSchoolScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}
