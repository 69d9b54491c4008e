package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

type licenseFixture struct {
	svc       *licenseServiceImpl
	licenses  *mockLicenseRepo
	companies *mockCompanyRepo
	tx        *fakeTx
	events    *recordingPublisher
}

func newLicenseFixture() *licenseFixture {
	f := &licenseFixture{
		licenses:  &mockLicenseRepo{},
		companies: &mockCompanyRepo{},
		tx:        &fakeTx{},
		events:    &recordingPublisher{},
	}
	f.svc = NewLicenseService(
		f.licenses,
		appauth.NewAuthorizationService(f.companies),
		f.tx,
		f.events,
		zerolog.Nop(),
	).(*licenseServiceImpl)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func TestLicenseService_Create(t *testing.T) {
	f := newLicenseFixture()
	ctx := context.Background()

	f.companies.On("GetByID", mock.Anything, int64(3)).Return(&models.Company{ID: 3}, nil)
	f.companies.On("CourseInCompany", mock.Anything, int64(3), int64(11)).Return(true, nil)
	f.licenses.On("NameExists", mock.Anything, int64(3), "Maths", int64(0)).Return(false, nil)
	f.licenses.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(l *models.License) bool {
		return l.CompanyID == 3 && l.Name == "Maths" && l.Allocation == 10
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*models.License).ID = 42
	}).Return(nil)

	resp, err := f.svc.Create(ctx, 3, 7, &dto.CreateLicenseRequest{
		Name:       "  Maths ",
		Allocation: 10,
		CourseIDs:  []int64{11},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 10, resp.Available)
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, []string{websocket.EventLicenseCreated}, f.events.types())
}

func TestLicenseService_CreateAdminPicksSchool(t *testing.T) {
	f := newLicenseFixture()

	_, err := f.svc.Create(context.Background(), 0, 1, &dto.CreateLicenseRequest{Name: "Maths"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	f.companies.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.ErrCompanyNotFound)
	_, err = f.svc.Create(context.Background(), 0, 1, &dto.CreateLicenseRequest{CompanyID: 9, Name: "Maths"})
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
}

func TestLicenseService_CreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateLicenseRequest
		wantErr error
	}{
		{name: "blank name", req: dto.CreateLicenseRequest{Name: "  "}, wantErr: apperrors.ErrValidationFailed},
		{name: "expiry before start", req: dto.CreateLicenseRequest{Name: "x", StartDate: 200, ExpiryDate: 100}, wantErr: apperrors.ErrValidationFailed},
		{name: "negative allocation", req: dto.CreateLicenseRequest{Name: "x", Allocation: -1}, wantErr: apperrors.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLicenseFixture()
			f.companies.On("GetByID", mock.Anything, int64(3)).Return(&models.Company{ID: 3}, nil)

			_, err := f.svc.Create(context.Background(), 3, 7, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.licenses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLicenseService_CreateRejectsForeignCourseAndDuplicateName(t *testing.T) {
	f := newLicenseFixture()
	f.companies.On("GetByID", mock.Anything, int64(3)).Return(&models.Company{ID: 3}, nil)
	f.companies.On("CourseInCompany", mock.Anything, int64(3), int64(99)).Return(false, nil)

	_, err := f.svc.Create(context.Background(), 3, 7, &dto.CreateLicenseRequest{Name: "x", CourseIDs: []int64{99}})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotInCompany)

	f.licenses.On("NameExists", mock.Anything, int64(3), "Maths", int64(0)).Return(true, nil)
	_, err = f.svc.Create(context.Background(), 3, 7, &dto.CreateLicenseRequest{Name: "Maths"})
	assert.ErrorIs(t, err, apperrors.ErrLicenseNameTaken)
	assert.Empty(t, f.events.types())
}

func TestLicenseService_GetHidesOtherSchools(t *testing.T) {
	f := newLicenseFixture()
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(&models.License{ID: 5, CompanyID: 4}, nil)

	_, err := f.svc.Get(context.Background(), 3, 5)
	assert.ErrorIs(t, err, apperrors.ErrLicenseNotFound)

	resp, err := f.svc.Get(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.CompanyID)
}

func TestLicenseService_List(t *testing.T) {
	f := newLicenseFixture()
	page := helpers.NewPage(2, 10)
	f.licenses.On("List", mock.Anything, models.LicenseFilter{CompanyID: 3, Name: "ma", Page: page}).
		Return([]models.License{{ID: 1, Allocation: 5, Used: 2}}, int64(11), nil)

	resp, err := f.svc.List(context.Background(), 3, "ma", page)
	require.NoError(t, err)
	require.Len(t, resp.Licenses, 1)
	assert.Equal(t, 3, resp.Licenses[0].Available)
	assert.Equal(t, int64(11), resp.Pagination.TotalItems)
}

func TestLicenseService_UpdateBelowUsed(t *testing.T) {
	f := newLicenseFixture()
	current := &models.License{ID: 5, CompanyID: 3, Name: "Maths", Allocation: 10, Used: 6}
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(current, nil)
	f.licenses.On("NameExists", mock.Anything, int64(3), "Maths", int64(5)).Return(false, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).
		Return(&models.License{ID: 5, CompanyID: 3, Name: "Maths", Allocation: 10, Used: 6}, nil)

	_, err := f.svc.Update(context.Background(), 3, 7, 5, &dto.UpdateLicenseRequest{Name: "Maths", Allocation: 4})
	assert.ErrorIs(t, err, apperrors.ErrLicenseAllocationBelow)
	f.licenses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestLicenseService_Update(t *testing.T) {
	f := newLicenseFixture()
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(&models.License{ID: 5, CompanyID: 3}, nil)
	f.licenses.On("NameExists", mock.Anything, int64(3), "Science", int64(5)).Return(false, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).
		Return(&models.License{ID: 5, CompanyID: 3, Name: "Maths", Allocation: 10, Used: 2}, nil)
	f.licenses.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.Update(context.Background(), 3, 7, 5, &dto.UpdateLicenseRequest{Name: "Science", Allocation: 20})
	require.NoError(t, err)
	assert.Equal(t, "Science", resp.Name)
	assert.Equal(t, 18, resp.Available)
	assert.Equal(t, []int64{}, resp.CourseIDs)
	assert.Equal(t, []string{websocket.EventLicenseUpdated}, f.events.types())
}

func TestLicenseService_DeleteInUse(t *testing.T) {
	f := newLicenseFixture()
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(&models.License{ID: 5, CompanyID: 3}, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).
		Return(&models.License{ID: 5, CompanyID: 3, Used: 1}, nil).Once()

	err := f.svc.Delete(context.Background(), 3, 7, 5)
	assert.ErrorIs(t, err, apperrors.ErrLicenseInUse)

	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).
		Return(&models.License{ID: 5, CompanyID: 3}, nil).Once()
	f.licenses.On("Delete", mock.Anything, mock.Anything, int64(5)).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), 3, 7, 5))
	assert.Equal(t, []string{websocket.EventLicenseDeleted}, f.events.types())
}

func TestLicenseService_Allocate(t *testing.T) {
	f := newLicenseFixture()
	license := &models.License{ID: 5, CompanyID: 3, Allocation: 3, Used: 1}
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(license, nil)
	f.companies.On("UserInCompany", mock.Anything, int64(3), mock.Anything).Return(true, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).Return(license, nil)
	f.licenses.On("AddUser", mock.Anything, mock.Anything, int64(5), int64(21), fixedNow.Unix()).Return(true, nil)
	f.licenses.On("AddUser", mock.Anything, mock.Anything, int64(5), int64(22), fixedNow.Unix()).Return(false, nil)
	f.licenses.On("SyncUsed", mock.Anything, mock.Anything, int64(5)).Return(2, nil)
	f.licenses.On("ListUsers", mock.Anything, int64(5)).Return([]models.LicenseUser{{UserID: 21}, {UserID: 22}}, nil)

	resp, err := f.svc.Allocate(context.Background(), 3, 7, 5, []int64{21, 22})
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, []string{websocket.EventLicenseAllocated}, f.events.types())
}

func TestLicenseService_AllocateExhausted(t *testing.T) {
	f := newLicenseFixture()
	license := &models.License{ID: 5, CompanyID: 3, Allocation: 1, Used: 1}
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(license, nil)
	f.companies.On("UserInCompany", mock.Anything, int64(3), int64(21)).Return(true, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).Return(license, nil)
	f.licenses.On("AddUser", mock.Anything, mock.Anything, int64(5), int64(21), mock.Anything).Return(true, nil)
	f.licenses.On("SyncUsed", mock.Anything, mock.Anything, int64(5)).Return(2, nil)

	_, err := f.svc.Allocate(context.Background(), 3, 7, 5, []int64{21})
	assert.ErrorIs(t, err, apperrors.ErrLicenseExhausted)
	assert.Empty(t, f.events.types())
}

func TestLicenseService_AllocateGuards(t *testing.T) {
	f := newLicenseFixture()
	f.licenses.On("GetByID", mock.Anything, int64(5)).
		Return(&models.License{ID: 5, CompanyID: 3, Allocation: 5}, nil)
	f.licenses.On("GetByID", mock.Anything, int64(6)).
		Return(&models.License{ID: 6, CompanyID: 3, Allocation: 5, ExpiryDate: fixedNow.Add(-time.Hour).Unix()}, nil)
	f.companies.On("UserInCompany", mock.Anything, int64(3), int64(99)).Return(false, nil)

	_, err := f.svc.Allocate(context.Background(), 3, 7, 5, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Allocate(context.Background(), 3, 7, 6, []int64{21})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = f.svc.Allocate(context.Background(), 3, 7, 5, []int64{99})
	assert.ErrorIs(t, err, apperrors.ErrUserNotInCompany)
	assert.Zero(t, f.tx.calls)
}

func TestLicenseService_Revoke(t *testing.T) {
	f := newLicenseFixture()
	license := &models.License{ID: 5, CompanyID: 3, Allocation: 5, Used: 2}
	f.licenses.On("GetByID", mock.Anything, int64(5)).Return(license, nil)
	f.licenses.On("GetForUpdate", mock.Anything, mock.Anything, int64(5)).Return(license, nil)
	f.licenses.On("GetUser", mock.Anything, mock.Anything, int64(5), int64(21)).
		Return(&models.LicenseUser{UserID: 21, IsUsing: true}, nil)
	f.licenses.On("GetUser", mock.Anything, mock.Anything, int64(5), int64(22)).
		Return(&models.LicenseUser{UserID: 22}, nil)
	f.licenses.On("GetUser", mock.Anything, mock.Anything, int64(5), int64(23)).
		Return(nil, apperrors.ErrLicenseUserNotFound)
	f.licenses.On("RemoveUser", mock.Anything, mock.Anything, int64(5), int64(22)).Return(nil)
	f.licenses.On("SyncUsed", mock.Anything, mock.Anything, int64(5)).Return(1, nil)

	err := f.svc.Revoke(context.Background(), 3, 7, 5, 21)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = f.svc.Revoke(context.Background(), 3, 7, 5, 23)
	assert.ErrorIs(t, err, apperrors.ErrLicenseUserNotFound)

	require.NoError(t, f.svc.Revoke(context.Background(), 3, 7, 5, 22))
	assert.Equal(t, []string{websocket.EventLicenseRevoked}, f.events.types())
	f.licenses.AssertNumberOfCalls(t, "RemoveUser", 1)
}
