package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

// EnrollmentController handles course enrolments
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
	logger            zerolog.Logger
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService, logger zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

// List handles listing enrolments
// @Summary List enrolments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Param courseId query int false "Course ID"
// @Param userId query int false "User ID"
// @Param status query string false "active or suspended"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /enrollments [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	courseID, ok := middleware.QueryInt64(ctx, "courseId")
	if !ok {
		return
	}
	userID, ok := middleware.QueryInt64(ctx, "userId")
	if !ok {
		return
	}

	filter := models.EnrollmentFilter{
		CourseID: courseID,
		UserID:   userID,
		Page:     helpers.ParsePaginationParams(ctx),
	}
	if raw := ctx.Query("status"); raw != "" {
		status, valid := models.ParseEnrollmentStatus(raw)
		if !valid {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status").
				WithField("status").
				WithDetails("status must be active or suspended")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		filter.Status = &status
	}

	resp, err := c.enrollmentService.List(ctx.Request.Context(), middleware.GetSchoolScope(ctx), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Enroll handles a manual enrolment
// @Summary Enrol a user
// @Description Enrols a school user into a school course through the manual enrolment method
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrolment"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error or user/course outside the school"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.Enroll(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", req.UserID).Int64("courseID", req.CourseID).Msg("Enrolment failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// BulkEnroll enrols several users into one course
// @Summary Bulk enrol
// @Description Enrols every listed user; failures are reported per user
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkEnrollRequest true "Bulk enrolment"
// @Success 200 {object} dto.APIResponse{data=dto.BulkEnrollResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Router /enrollments/bulk [post]
func (c *EnrollmentController) BulkEnroll(ctx *gin.Context) {
	var req dto.BulkEnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.BulkEnroll(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UpdateStatus suspends or reactivates an enrolment
// @Summary Update enrolment status
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrolment ID"
// @Param request body dto.UpdateEnrollmentStatusRequest true "Status"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrolment not found"
// @Router /enrollments/{id}/status [patch]
func (c *EnrollmentController) UpdateStatus(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateEnrollmentStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.enrollmentService.UpdateStatus(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Unenroll removes an enrolment
// @Summary Unenrol
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrolment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Enrolment not found"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	id, ok := middleware.ParseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.enrollmentService.Unenroll(ctx.Request.Context(), middleware.GetSchoolScope(ctx), middleware.GetUserID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "User unenrolled successfully"}))
}
