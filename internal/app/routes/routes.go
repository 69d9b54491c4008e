package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zakiByline/remui-kids-sub019/internal/app/controllers"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	companyController *controllers.CompanyController,
	analyticsController *controllers.AnalyticsController,
	licenseController *controllers.LicenseController,
	enrollmentController *controllers.EnrollmentController,
	accessController *controllers.DashboardAccessController,
	ruleController *controllers.TrainingRuleController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	authenticated.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleManager))

	authenticated.GET("/auth/me", authController.Me)

	// Everything below works on the school resolved from companyId
	scoped := authenticated.Group("")
	scoped.Use(authMiddleware.SchoolScope())
	{
		scoped.GET("/ws", wsHandler.HandleConnection)

		schools := scoped.Group("/schools")
		{
			schools.GET("", companyController.List)
			schools.GET("/:id", companyController.Get)
		}

		analytics := scoped.Group("/analytics")
		{
			analytics.GET("/overview", analyticsController.Overview)
			analytics.GET("/grade-levels", analyticsController.GradeLevels)
			analytics.GET("/grade-distribution", analyticsController.GradeDistribution)
			analytics.GET("/academic-trends", analyticsController.AcademicTrends)
			analytics.GET("/teacher-effectiveness", analyticsController.TeacherEffectiveness)
			analytics.GET("/early-warnings", analyticsController.EarlyWarnings)
			analytics.GET("/course-engagement", analyticsController.CourseEngagement)
			analytics.GET("/recent-activity", analyticsController.RecentActivity)
		}

		licenses := scoped.Group("/licenses")
		{
			licenses.GET("", licenseController.List)
			licenses.POST("", licenseController.Create)
			licenses.GET("/:id", licenseController.Get)
			licenses.PUT("/:id", licenseController.Update)
			licenses.DELETE("/:id", licenseController.Delete)
			licenses.GET("/:id/users", licenseController.ListUsers)
			licenses.POST("/:id/users", licenseController.Allocate)
			licenses.DELETE("/:id/users/:userId", licenseController.Revoke)
		}

		enrollments := scoped.Group("/enrollments")
		{
			enrollments.GET("", enrollmentController.List)
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.POST("/bulk", enrollmentController.BulkEnroll)
			enrollments.PATCH("/:id/status", enrollmentController.UpdateStatus)
			enrollments.DELETE("/:id", enrollmentController.Unenroll)
		}

		access := scoped.Group("/dashboard-access")
		{
			access.GET("", accessController.Get)
			access.PUT("", accessController.SetMany)
			access.GET("/check", accessController.Check)
			access.PUT("/:audience", accessController.Set)
		}

		rules := scoped.Group("/training-rules")
		{
			rules.GET("", ruleController.List)
			rules.POST("", ruleController.Create)
			rules.GET("/export", ruleController.Export)
			rules.POST("/preview", ruleController.Preview)
			rules.GET("/:id", ruleController.Get)
			rules.PUT("/:id", ruleController.Update)
			rules.PATCH("/:id/enabled", ruleController.Toggle)
			rules.DELETE("/:id", ruleController.Delete)
		}
	}
}
