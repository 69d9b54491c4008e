package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/middleware"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
}

var manager = &models.SessionUser{ID: 7, Username: "head", RoleType: models.RoleManager, CompanyID: 3}

// newTestRouter stands in for JWTAuth and SchoolScope
func newTestRouter(user *models.SessionUser, scope int64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUserID, user.ID)
			c.Set(middleware.ContextUsername, user.Username)
			c.Set(middleware.ContextRoleType, user.RoleType)
			c.Set(middleware.ContextCompanyID, user.CompanyID)
		}
		c.Set(middleware.ContextSchoolID, scope)
		c.Next()
	})
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorDetail {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestAuthController_Login(t *testing.T) {
	svc := new(mockAuthService)
	ctrl := NewAuthController(svc, zerolog.Nop())
	r := newTestRouter(nil, 0)
	r.POST("/auth/login", ctrl.Login)

	svc.On("Login", mock.Anything, &dto.LoginRequest{Username: "head", Password: "pw"}).
		Return(&dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 60}, User: manager}, nil).Once()
	svc.On("Login", mock.Anything, &dto.LoginRequest{Username: "head", Password: "bad"}).
		Return(nil, apperrors.ErrInvalidCredentials).Once()

	w := perform(r, http.MethodPost, "/auth/login", `{"username":"head","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AuthResponse
	decodeData(t, w, &resp)
	assert.Equal(t, "tok", resp.Token.AccessToken)
	assert.Equal(t, int64(3), resp.User.CompanyID)

	w = perform(r, http.MethodPost, "/auth/login", `{"username":"head","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, decodeError(t, w).Code)

	w = perform(r, http.MethodPost, "/auth/login", `{"username":"head"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)

	svc.AssertExpectations(t)
}

func TestAuthController_Me(t *testing.T) {
	svc := new(mockAuthService)
	ctrl := NewAuthController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.GET("/auth/me", ctrl.Me)

	svc.On("Me", mock.Anything, int64(7)).Return(manager, nil)

	w := perform(r, http.MethodGet, "/auth/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	var user models.SessionUser
	decodeData(t, w, &user)
	assert.Equal(t, "head", user.Username)
}

func TestAnalyticsController_PassesScopeAndQuery(t *testing.T) {
	svc := new(mockAnalyticsService)
	ctrl := NewAnalyticsController(svc)
	r := newTestRouter(manager, 3)
	r.GET("/overview", ctrl.Overview)
	r.GET("/trends", ctrl.AcademicTrends)
	r.GET("/activity", ctrl.RecentActivity)

	svc.On("Overview", mock.Anything, int64(3)).Return(&models.SchoolOverview{CompanyID: 3, TotalStudents: 120}, nil)
	svc.On("AcademicTrends", mock.Anything, int64(3), 12).Return(&dto.AcademicTrendsResponse{}, nil)
	svc.On("RecentActivity", mock.Anything, int64(3), 0).Return(&dto.RecentActivityResponse{}, nil)

	w := perform(r, http.MethodGet, "/overview", "")
	require.Equal(t, http.StatusOK, w.Code)
	var overview models.SchoolOverview
	decodeData(t, w, &overview)
	assert.Equal(t, int64(120), overview.TotalStudents)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/trends?months=12", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/activity?limit=lots", "").Code)
	svc.AssertExpectations(t)
}

func TestAnalyticsController_Error(t *testing.T) {
	svc := new(mockAnalyticsService)
	ctrl := NewAnalyticsController(svc)
	r := newTestRouter(manager, 3)
	r.GET("/warnings", ctrl.EarlyWarnings)

	svc.On("EarlyWarnings", mock.Anything, int64(3)).Return(nil, apperrors.ErrCompanyNotFound)

	w := perform(r, http.MethodGet, "/warnings", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLicenseController_List(t *testing.T) {
	svc := new(mockLicenseService)
	ctrl := NewLicenseController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.GET("/licenses", ctrl.List)

	svc.On("List", mock.Anything, int64(3), "maths", helpers.Page{Number: 2, Size: 10}).
		Return(&dto.LicenseListResponse{Licenses: []dto.LicenseResponse{}}, nil)

	w := perform(r, http.MethodGet, "/licenses?name=maths&page=2&size=10", "")
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestLicenseController_Create(t *testing.T) {
	svc := new(mockLicenseService)
	ctrl := NewLicenseController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.POST("/licenses", ctrl.Create)

	created := dto.NewLicenseResponse(&models.License{ID: 11, CompanyID: 3, Name: "Maths", Allocation: 30})
	svc.On("Create", mock.Anything, int64(3), int64(7), mock.MatchedBy(func(req *dto.CreateLicenseRequest) bool {
		return req.Name == "Maths" && req.Allocation == 30 && len(req.CourseIDs) == 2
	})).Return(&created, nil)

	w := perform(r, http.MethodPost, "/licenses", `{"name":"Maths","allocation":30,"courseIds":[4,5]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.LicenseResponse
	decodeData(t, w, &resp)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, 30, resp.Available)

	w = perform(r, http.MethodPost, "/licenses", `{"allocation":30}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decodeError(t, w).Field)
}

func TestLicenseController_Errors(t *testing.T) {
	svc := new(mockLicenseService)
	ctrl := NewLicenseController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.GET("/licenses/:id", ctrl.Get)
	r.DELETE("/licenses/:id", ctrl.Delete)
	r.POST("/licenses/:id/users", ctrl.Allocate)

	svc.On("Delete", mock.Anything, int64(3), int64(7), int64(11)).Return(apperrors.ErrLicenseInUse)
	svc.On("Allocate", mock.Anything, int64(3), int64(7), int64(11), []int64{4, 5}).Return(nil, apperrors.ErrLicenseExhausted)

	w := perform(r, http.MethodGet, "/licenses/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decodeError(t, w).Field)

	w = perform(r, http.MethodDelete, "/licenses/11", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeConflict, decodeError(t, w).Code)

	w = perform(r, http.MethodPost, "/licenses/11/users", `{"userIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPost, "/licenses/11/users", `{"userIds":[4,5]}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestLicenseController_Revoke(t *testing.T) {
	svc := new(mockLicenseService)
	ctrl := NewLicenseController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.DELETE("/licenses/:id/users/:userId", ctrl.Revoke)

	svc.On("Revoke", mock.Anything, int64(3), int64(7), int64(11), int64(42)).Return(nil)

	w := perform(r, http.MethodDelete, "/licenses/11/users/42", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(r, http.MethodDelete, "/licenses/11/users/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "Revoke", 1)
}

func TestEnrollmentController_List(t *testing.T) {
	svc := new(mockEnrollmentService)
	ctrl := NewEnrollmentController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.GET("/enrollments", ctrl.List)

	suspended := models.EnrollmentSuspended
	svc.On("List", mock.Anything, int64(3), models.EnrollmentFilter{
		CourseID: 12,
		Status:   &suspended,
		Page:     helpers.NewPage(0, 0),
	}).Return(&dto.EnrollmentListResponse{Enrollments: []dto.EnrollmentResponse{}}, nil)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/enrollments?courseId=12&status=suspended", "").Code)

	w := perform(r, http.MethodGet, "/enrollments?status=gone", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decodeError(t, w).Field)

	w = perform(r, http.MethodGet, "/enrollments?userId=-4", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNumberOfCalls(t, "List", 1)
}

func TestEnrollmentController_Enroll(t *testing.T) {
	svc := new(mockEnrollmentService)
	ctrl := NewEnrollmentController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.POST("/enrollments", ctrl.Enroll)
	r.PATCH("/enrollments/:id/status", ctrl.UpdateStatus)

	svc.On("Enroll", mock.Anything, int64(3), int64(7), &dto.EnrollRequest{UserID: 57, CourseID: 12}).
		Return(nil, apperrors.ErrAlreadyEnrolled)

	w := perform(r, http.MethodPost, "/enrollments", `{"userId":57,"courseId":12}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, decodeError(t, w).Code)

	w = perform(r, http.MethodPost, "/enrollments", `{"userId":57,"courseId":12,"role":"principal"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPatch, "/enrollments/9/status", `{"status":"paused"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardAccessController(t *testing.T) {
	svc := new(mockDashboardAccessService)
	ctrl := NewDashboardAccessController(svc)
	r := newTestRouter(manager, 3)
	r.PUT("/dashboard-access/:audience", ctrl.Set)
	r.PUT("/dashboard-access", ctrl.SetMany)
	r.GET("/dashboard-access/check", ctrl.Check)

	svc.On("Set", mock.Anything, int64(3), int64(7), "parent", false).
		Return(&models.DashboardAccess{Audience: models.AudienceParent, Enabled: false}, nil)
	svc.On("SetMany", mock.Anything, int64(3), int64(7), map[string]bool{"student": true, "pilot": false}).
		Return(nil, apperrors.NewValidationError(`unknown audience "pilot"`))
	svc.On("Check", mock.Anything, int64(3), "teacher").
		Return(&dto.DashboardAccessCheckResponse{CompanyID: 3, Audience: models.AudienceTeacher, Enabled: true}, nil)

	w := perform(r, http.MethodPut, "/dashboard-access/parent", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	var access models.DashboardAccess
	decodeData(t, w, &access)
	assert.False(t, access.Enabled)

	w = perform(r, http.MethodPut, "/dashboard-access/parent", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(r, http.MethodPut, "/dashboard-access", `{"settings":{"student":true,"pilot":false}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "pilot")

	w = perform(r, http.MethodGet, "/dashboard-access/check?audience=teacher", "")
	require.Equal(t, http.StatusOK, w.Code)
	var check dto.DashboardAccessCheckResponse
	decodeData(t, w, &check)
	assert.True(t, check.Enabled)

	svc.AssertNumberOfCalls(t, "Set", 1)
}

func TestTrainingRuleController_List(t *testing.T) {
	svc := new(mockTrainingRuleService)
	ctrl := NewTrainingRuleController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.GET("/training-rules", ctrl.List)

	enabled := true
	svc.On("List", mock.Anything, int64(3), models.TrainingRuleFilter{
		Category: models.CategoryFAQ,
		Enabled:  &enabled,
		Search:   "homework",
		Page:     helpers.NewPage(0, 0),
	}).Return(&dto.TrainingRuleListResponse{Rules: []models.TrainingRule{}}, nil)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/training-rules?category=faq&enabled=true&search=homework", "").Code)

	w := perform(r, http.MethodGet, "/training-rules?enabled=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "enabled", decodeError(t, w).Field)
	svc.AssertNumberOfCalls(t, "List", 1)
}

func TestTrainingRuleController_Mutations(t *testing.T) {
	svc := new(mockTrainingRuleService)
	ctrl := NewTrainingRuleController(svc, zerolog.Nop())
	r := newTestRouter(manager, 3)
	r.POST("/training-rules", ctrl.Create)
	r.PATCH("/training-rules/:id/enabled", ctrl.Toggle)
	r.DELETE("/training-rules/:id", ctrl.Delete)
	r.POST("/training-rules/preview", ctrl.Preview)

	caller := &models.SessionUser{ID: 7, Username: "head", RoleType: models.RoleManager, CompanyID: 3}
	svc.On("Create", mock.Anything, caller, int64(3), mock.AnythingOfType("*dto.TrainingRuleRequest")).
		Return(&models.TrainingRule{ID: 5, CompanyID: 3, Category: models.CategoryFAQ}, nil)
	svc.On("Toggle", mock.Anything, caller, int64(3), int64(5), false).
		Return(&models.TrainingRule{ID: 5, Enabled: false}, nil)
	svc.On("Delete", mock.Anything, caller, int64(3), int64(6)).Return(apperrors.ErrTrainingRuleNotFound)
	svc.On("Preview", mock.Anything, "**Friday**").Return(&dto.PreviewResponse{HTML: "<p><strong>Friday</strong></p>", PlainText: "Friday"}, nil)

	w := perform(r, http.MethodPost, "/training-rules", `{"category":"faq","triggerPhrase":"homework due","response":"Friday"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var rule models.TrainingRule
	decodeData(t, w, &rule)
	assert.Equal(t, int64(5), rule.ID)

	w = perform(r, http.MethodPost, "/training-rules", `{"category":"gossip","triggerPhrase":"homework due","response":"Friday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodPatch, "/training-rules/5/enabled", `{"enabled":false}`).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodDelete, "/training-rules/6", "").Code)

	w = perform(r, http.MethodPost, "/training-rules/preview", `{"response":"**Friday**"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var preview dto.PreviewResponse
	decodeData(t, w, &preview)
	assert.Equal(t, "Friday", preview.PlainText)

	svc.AssertExpectations(t)
}
