package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

// LicenseController handles IOMAD license operations
type LicenseController struct {
	licenseService services.LicenseService
	logger         zerolog.Logger
}

// NewLicenseController creates a new LicenseController
func NewLicenseController(licenseService services.LicenseService, logger zerolog.Logger) *LicenseController {
	return &LicenseController{
		licenseService: licenseService,
		logger:         logger,
	}
}

// List handles listing licenses
// @Summary List licenses
// @Description Lists the licenses of the caller's school, optionally filtered by name
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Param name query string false "Name contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.LicenseListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /licenses [get]
func (c *LicenseController) List(ctx *gin.Context) {
	page := helpers.ParsePaginationParams(ctx)
	resp, err := c.licenseService.List(ctx.Request.Context(), middleware.GetSchoolScope(ctx), ctx.Query("name"), page)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Get handles getting a license by ID
// @Summary Get license by ID
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid license ID"
// @Failure 404 {object} dto.ErrorResponse "License not found"
// @Router /licenses/{id} [get]
func (c *LicenseController) Get(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.licenseService.Get(ctx.Request.Context(), middleware.GetSchoolScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Create handles license creation
// @Summary Create a license
// @Description Creates a license with its course list. Site admins choose the school through companyId.
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLicenseRequest true "License data"
// @Success 201 {object} dto.APIResponse{data=dto.LicenseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 409 {object} dto.ErrorResponse "License name already used"
// @Router /licenses [post]
func (c *LicenseController) Create(ctx *gin.Context) {
	var req dto.CreateLicenseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.licenseService.Create(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("name", req.Name).Msg("License creation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Update handles license updates
// @Summary Update a license
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Param request body dto.UpdateLicenseRequest true "License data"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error or allocation below used seats"
// @Failure 404 {object} dto.ErrorResponse "License not found"
// @Failure 409 {object} dto.ErrorResponse "License name already used"
// @Router /licenses/{id} [put]
func (c *LicenseController) Update(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateLicenseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.licenseService.Update(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Delete handles license deletion
// @Summary Delete a license
// @Description Deletes a license that no user holds
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "License not found"
// @Failure 409 {object} dto.ErrorResponse "License is in use"
// @Router /licenses/{id} [delete]
func (c *LicenseController) Delete(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.licenseService.Delete(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "License deleted successfully"}))
}

// ListUsers lists the holders of a license
// @Summary License holders
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseUsersResponse}
// @Failure 404 {object} dto.ErrorResponse "License not found"
// @Router /licenses/{id}/users [get]
func (c *LicenseController) ListUsers(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.licenseService.ListUsers(ctx.Request.Context(), middleware.GetSchoolScope(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Allocate gives license seats to users
// @Summary Allocate a license
// @Description Allocates seats to users of the school. Users already holding the license are skipped.
// @Tags licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Param request body dto.AllocateLicenseRequest true "Users"
// @Success 200 {object} dto.APIResponse{data=dto.LicenseUsersResponse}
// @Failure 400 {object} dto.ErrorResponse "User outside the school"
// @Failure 404 {object} dto.ErrorResponse "License not found"
// @Failure 409 {object} dto.ErrorResponse "Not enough seats or license expired"
// @Router /licenses/{id}/users [post]
func (c *LicenseController) Allocate(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AllocateLicenseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.licenseService.Allocate(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id, req.UserIDs)
	if err != nil {
		c.logger.Warn().Err(err).Int64("licenseID", id).Int("users", len(req.UserIDs)).Msg("License allocation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Revoke takes a license seat back from a user
// @Summary Revoke a license
// @Tags licenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "License ID"
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "License or holder not found"
// @Failure 409 {object} dto.ErrorResponse "Seat is in use"
// @Router /licenses/{id}/users/{userId} [delete]
func (c *LicenseController) Revoke(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	userID, ok := middleware.ParseIDParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.licenseService.Revoke(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "License revoked successfully"}))
}
