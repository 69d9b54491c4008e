package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
)

type mockCompanyRepo struct{ mock.Mock }

func (m *mockCompanyRepo) List(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Company), args.Error(1)
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Company)
	return c, args.Error(1)
}

func (m *mockCompanyRepo) GetSummary(ctx context.Context, id int64) (*models.CompanySummary, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.CompanySummary)
	return c, args.Error(1)
}

func (m *mockCompanyRepo) UserInCompany(ctx context.Context, companyID, userID int64) (bool, error) {
	args := m.Called(ctx, companyID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCompanyRepo) CourseInCompany(ctx context.Context, companyID, courseID int64) (bool, error) {
	args := m.Called(ctx, companyID, courseID)
	return args.Bool(0), args.Error(1)
}

func TestResolveCompanyScope(t *testing.T) {
	s := NewAuthorizationService(&mockCompanyRepo{})
	admin := &models.SessionUser{ID: 2, RoleType: models.RoleAdmin}
	manager := &models.SessionUser{ID: 9, RoleType: models.RoleManager, CompanyID: 4}

	tests := []struct {
		name      string
		caller    *models.SessionUser
		requested int64
		want      int64
		wantErr   error
	}{
		{name: "admin all schools", caller: admin, requested: 0, want: 0},
		{name: "admin picks school", caller: admin, requested: 7, want: 7},
		{name: "manager defaults to own school", caller: manager, requested: 0, want: 4},
		{name: "manager own school", caller: manager, requested: 4, want: 4},
		{name: "manager other school", caller: manager, requested: 5, wantErr: apperrors.ErrPermissionDenied},
		{name: "manager without school", caller: &models.SessionUser{RoleType: models.RoleManager}, wantErr: apperrors.ErrPermissionDenied},
		{name: "negative id", caller: admin, requested: -1, wantErr: apperrors.ErrValidationFailed},
		{name: "anonymous", caller: nil, wantErr: apperrors.ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ResolveCompanyScope(tt.caller, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireCompany(t *testing.T) {
	repo := &mockCompanyRepo{}
	s := NewAuthorizationService(repo)
	ctx := context.Background()

	assert.ErrorIs(t, s.RequireCompany(ctx, 0), apperrors.ErrValidationFailed)

	repo.On("GetByID", ctx, int64(3)).Return(&models.Company{ID: 3}, nil).Once()
	assert.NoError(t, s.RequireCompany(ctx, 3))

	repo.On("GetByID", ctx, int64(8)).Return(nil, apperrors.ErrCompanyNotFound).Once()
	assert.ErrorIs(t, s.RequireCompany(ctx, 8), apperrors.ErrCompanyNotFound)

	repo.AssertExpectations(t)
}

func TestValidateMembership(t *testing.T) {
	repo := &mockCompanyRepo{}
	s := NewAuthorizationService(repo)
	ctx := context.Background()

	repo.On("UserInCompany", ctx, int64(3), int64(10)).Return(true, nil)
	repo.On("UserInCompany", ctx, int64(3), int64(11)).Return(false, nil)
	repo.On("CourseInCompany", ctx, int64(3), int64(20)).Return(false, nil)
	repo.On("CourseInCompany", ctx, int64(3), int64(21)).Return(false, errors.New("db down"))

	assert.NoError(t, s.ValidateUserInCompany(ctx, 3, 10))
	assert.ErrorIs(t, s.ValidateUserInCompany(ctx, 3, 11), apperrors.ErrUserNotInCompany)
	assert.ErrorIs(t, s.ValidateCourseInCompany(ctx, 3, 20), apperrors.ErrCourseNotInCompany)
	assert.EqualError(t, s.ValidateCourseInCompany(ctx, 3, 21), "db down")
}

func TestCanModifyTrainingRule(t *testing.T) {
	admin := &models.SessionUser{RoleType: models.RoleAdmin}
	manager := &models.SessionUser{RoleType: models.RoleManager, CompanyID: 4}

	assert.True(t, CanModifyTrainingRule(admin, &models.TrainingRule{CompanyID: 0}))
	assert.True(t, CanModifyTrainingRule(manager, &models.TrainingRule{CompanyID: 4}))
	assert.False(t, CanModifyTrainingRule(manager, &models.TrainingRule{CompanyID: 0}))
	assert.False(t, CanModifyTrainingRule(manager, &models.TrainingRule{CompanyID: 5}))
	assert.False(t, CanModifyTrainingRule(nil, &models.TrainingRule{}))
}

func TestCanAccessCompanyResource(t *testing.T) {
	assert.True(t, CanAccessCompanyResource(0, 9))
	assert.True(t, CanAccessCompanyResource(9, 9))
	assert.False(t, CanAccessCompanyResource(8, 9))
}
