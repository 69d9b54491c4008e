package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*models.SessionUser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionUser), args.Error(1)
}

type mockAnalyticsService struct{ mock.Mock }

func (m *mockAnalyticsService) Overview(ctx context.Context, companyID int64) (*models.SchoolOverview, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SchoolOverview), args.Error(1)
}

func (m *mockAnalyticsService) GradeLevels(ctx context.Context, companyID int64) (*dto.GradeLevelsResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GradeLevelsResponse), args.Error(1)
}

func (m *mockAnalyticsService) GradeDistribution(ctx context.Context, companyID int64) (*dto.GradeDistributionResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GradeDistributionResponse), args.Error(1)
}

func (m *mockAnalyticsService) AcademicTrends(ctx context.Context, companyID int64, months int) (*dto.AcademicTrendsResponse, error) {
	args := m.Called(ctx, companyID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AcademicTrendsResponse), args.Error(1)
}

func (m *mockAnalyticsService) TeacherEffectiveness(ctx context.Context, companyID int64) (*dto.TeacherEffectivenessResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TeacherEffectivenessResponse), args.Error(1)
}

func (m *mockAnalyticsService) EarlyWarnings(ctx context.Context, companyID int64) (*dto.EarlyWarningsResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EarlyWarningsResponse), args.Error(1)
}

func (m *mockAnalyticsService) CourseEngagement(ctx context.Context, companyID int64) (*dto.CourseEngagementResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CourseEngagementResponse), args.Error(1)
}

func (m *mockAnalyticsService) RecentActivity(ctx context.Context, companyID int64, limit int) (*dto.RecentActivityResponse, error) {
	args := m.Called(ctx, companyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecentActivityResponse), args.Error(1)
}

type mockLicenseService struct{ mock.Mock }

func (m *mockLicenseService) List(ctx context.Context, scope int64, name string, page helpers.Page) (*dto.LicenseListResponse, error) {
	args := m.Called(ctx, scope, name, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseListResponse), args.Error(1)
}

func (m *mockLicenseService) Get(ctx context.Context, scope, id int64) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseResponse), args.Error(1)
}

func (m *mockLicenseService) Create(ctx context.Context, scope, actorID int64, req *dto.CreateLicenseRequest) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, scope, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseResponse), args.Error(1)
}

func (m *mockLicenseService) Update(ctx context.Context, scope, actorID, id int64, req *dto.UpdateLicenseRequest) (*dto.LicenseResponse, error) {
	args := m.Called(ctx, scope, actorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseResponse), args.Error(1)
}

func (m *mockLicenseService) Delete(ctx context.Context, scope, actorID, id int64) error {
	return m.Called(ctx, scope, actorID, id).Error(0)
}

func (m *mockLicenseService) ListUsers(ctx context.Context, scope, id int64) (*dto.LicenseUsersResponse, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseUsersResponse), args.Error(1)
}

func (m *mockLicenseService) Allocate(ctx context.Context, scope, actorID, id int64, userIDs []int64) (*dto.LicenseUsersResponse, error) {
	args := m.Called(ctx, scope, actorID, id, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LicenseUsersResponse), args.Error(1)
}

func (m *mockLicenseService) Revoke(ctx context.Context, scope, actorID, id, userID int64) error {
	return m.Called(ctx, scope, actorID, id, userID).Error(0)
}

type mockEnrollmentService struct{ mock.Mock }

func (m *mockEnrollmentService) List(ctx context.Context, scope int64, filter models.EnrollmentFilter) (*dto.EnrollmentListResponse, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EnrollmentListResponse), args.Error(1)
}

func (m *mockEnrollmentService) Enroll(ctx context.Context, scope, actorID int64, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	args := m.Called(ctx, scope, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EnrollmentResponse), args.Error(1)
}

func (m *mockEnrollmentService) BulkEnroll(ctx context.Context, scope, actorID int64, req *dto.BulkEnrollRequest) (*dto.BulkEnrollResponse, error) {
	args := m.Called(ctx, scope, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BulkEnrollResponse), args.Error(1)
}

func (m *mockEnrollmentService) UpdateStatus(ctx context.Context, scope, actorID, id int64, status string) (*dto.EnrollmentResponse, error) {
	args := m.Called(ctx, scope, actorID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EnrollmentResponse), args.Error(1)
}

func (m *mockEnrollmentService) Unenroll(ctx context.Context, scope, actorID, id int64) error {
	return m.Called(ctx, scope, actorID, id).Error(0)
}

type mockDashboardAccessService struct{ mock.Mock }

func (m *mockDashboardAccessService) Get(ctx context.Context, companyID int64) (*dto.DashboardAccessResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardAccessResponse), args.Error(1)
}

func (m *mockDashboardAccessService) Set(ctx context.Context, companyID, actorID int64, audience string, enabled bool) (*models.DashboardAccess, error) {
	args := m.Called(ctx, companyID, actorID, audience, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardAccess), args.Error(1)
}

func (m *mockDashboardAccessService) SetMany(ctx context.Context, companyID, actorID int64, settings map[string]bool) (*dto.DashboardAccessResponse, error) {
	args := m.Called(ctx, companyID, actorID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardAccessResponse), args.Error(1)
}

func (m *mockDashboardAccessService) Check(ctx context.Context, companyID int64, audience string) (*dto.DashboardAccessCheckResponse, error) {
	args := m.Called(ctx, companyID, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DashboardAccessCheckResponse), args.Error(1)
}

type mockTrainingRuleService struct{ mock.Mock }

func (m *mockTrainingRuleService) List(ctx context.Context, scope int64, filter models.TrainingRuleFilter) (*dto.TrainingRuleListResponse, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrainingRuleListResponse), args.Error(1)
}

func (m *mockTrainingRuleService) Get(ctx context.Context, scope, id int64) (*models.TrainingRule, error) {
	args := m.Called(ctx, scope, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingRule), args.Error(1)
}

func (m *mockTrainingRuleService) Create(ctx context.Context, caller *models.SessionUser, scope int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error) {
	args := m.Called(ctx, caller, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingRule), args.Error(1)
}

func (m *mockTrainingRuleService) Update(ctx context.Context, caller *models.SessionUser, scope, id int64, req *dto.TrainingRuleRequest) (*models.TrainingRule, error) {
	args := m.Called(ctx, caller, scope, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingRule), args.Error(1)
}

func (m *mockTrainingRuleService) Toggle(ctx context.Context, caller *models.SessionUser, scope, id int64, enabled bool) (*models.TrainingRule, error) {
	args := m.Called(ctx, caller, scope, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrainingRule), args.Error(1)
}

func (m *mockTrainingRuleService) Delete(ctx context.Context, caller *models.SessionUser, scope, id int64) error {
	return m.Called(ctx, caller, scope, id).Error(0)
}

func (m *mockTrainingRuleService) Preview(ctx context.Context, response string) (*dto.PreviewResponse, error) {
	args := m.Called(ctx, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PreviewResponse), args.Error(1)
}

func (m *mockTrainingRuleService) Export(ctx context.Context, scope int64) (*dto.TrainingExport, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrainingExport), args.Error(1)
}
