package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/services"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
)

// AnalyticsController serves the school dashboards
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

func (c *AnalyticsController) respond(ctx *gin.Context, data interface{}, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// intQuery reads an optional integer query parameter; malformed values count as absent
func intQuery(ctx *gin.Context, name string) int {
	v, err := strconv.Atoi(ctx.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// Overview returns the headline figures of a school
// @Summary School overview
// @Description Total students, teachers and courses, active users, average grade and completion rate. Sections that fail are reported as 0 and listed in degraded.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=models.SchoolOverview}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - another school"
// @Router /analytics/overview [get]
func (c *AnalyticsController) Overview(ctx *gin.Context) {
	overview, err := c.analyticsService.Overview(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, overview, err)
}

// GradeLevels returns students grouped by grade level
// @Summary Grade level breakdown
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=dto.GradeLevelsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/grade-levels [get]
func (c *AnalyticsController) GradeLevels(ctx *gin.Context) {
	resp, err := c.analyticsService.GradeLevels(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, resp, err)
}

// GradeDistribution returns the letter grade histogram
// @Summary Grade distribution
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=dto.GradeDistributionResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/grade-distribution [get]
func (c *AnalyticsController) GradeDistribution(ctx *gin.Context) {
	resp, err := c.analyticsService.GradeDistribution(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, resp, err)
}

// AcademicTrends returns the monthly trend chart
// @Summary Academic trends
// @Description Monthly average grade, graded items, completions and logins, oldest month first
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Param months query int false "Number of months (1-24)"
// @Success 200 {object} dto.APIResponse{data=dto.AcademicTrendsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/academic-trends [get]
func (c *AnalyticsController) AcademicTrends(ctx *gin.Context) {
	resp, err := c.analyticsService.AcademicTrends(ctx.Request.Context(), middleware.GetSchoolScope(ctx), intQuery(ctx, "months"))
	c.respond(ctx, resp, err)
}

// TeacherEffectiveness ranks teachers
// @Summary Teacher effectiveness
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherEffectivenessResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/teacher-effectiveness [get]
func (c *AnalyticsController) TeacherEffectiveness(ctx *gin.Context) {
	resp, err := c.analyticsService.TeacherEffectiveness(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, resp, err)
}

// EarlyWarnings lists students at risk
// @Summary Early warnings
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=dto.EarlyWarningsResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/early-warnings [get]
func (c *AnalyticsController) EarlyWarnings(ctx *gin.Context) {
	resp, err := c.analyticsService.EarlyWarnings(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, resp, err)
}

// CourseEngagement lists per-course engagement
// @Summary Course engagement
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseEngagementResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/course-engagement [get]
func (c *AnalyticsController) CourseEngagement(ctx *gin.Context) {
	resp, err := c.analyticsService.CourseEngagement(ctx.Request.Context(), middleware.GetSchoolScope(ctx))
	c.respond(ctx, resp, err)
}

// RecentActivity returns the latest log entries
// @Summary Recent activity
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param companyId query int false "School id (admins only, 0 = every school)"
// @Param limit query int false "Number of entries (1-100, default 20)"
// @Success 200 {object} dto.APIResponse{data=dto.RecentActivityResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /analytics/recent-activity [get]
func (c *AnalyticsController) RecentActivity(ctx *gin.Context) {
	resp, err := c.analyticsService.RecentActivity(ctx.Request.Context(), middleware.GetSchoolScope(ctx), intQuery(ctx, "limit"))
	c.respond(ctx, resp, err)
}
