package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/analytics"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// fakeTx runs the callback without a database; repository mocks ignore the querier
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*websocket.Event
}

func (p *recordingPublisher) Publish(event *websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingFailures struct {
	mu       sync.Mutex
	sections []string
}

func (r *recordingFailures) QueryFailed(section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections = append(r.sections, section)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.MoodleUser, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.MoodleUser)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.MoodleUser, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.MoodleUser)
	return u, args.Error(1)
}

func (m *mockUserRepo) IsSiteAdmin(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) GetManagerMembership(ctx context.Context, userID int64) (*models.CompanyMembership, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*models.CompanyMembership)
	return c, args.Error(1)
}

type mockCompanyRepo struct{ mock.Mock }

func (m *mockCompanyRepo) List(ctx context.Context) ([]models.Company, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]models.Company)
	return c, args.Error(1)
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

type mockAnalyticsRepo struct{ mock.Mock }

func (m *mockAnalyticsRepo) CountStudents(ctx context.Context, companyID int64) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) CountTeachers(ctx context.Context, companyID int64) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) CountCourses(ctx context.Context, companyID int64) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) CountActiveUsers(ctx context.Context, companyID, since int64) (int64, error) {
	args := m.Called(ctx, companyID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnalyticsRepo) AverageGrade(ctx context.Context, companyID int64) (float64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockAnalyticsRepo) CompletionTotals(ctx context.Context, companyID int64) (models.CompletionTotals, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(models.CompletionTotals), args.Error(1)
}

func (m *mockAnalyticsRepo) StudentRecords(ctx context.Context, companyID int64, field string) ([]analytics.StudentRecord, error) {
	args := m.Called(ctx, companyID, field)
	r, _ := args.Get(0).([]analytics.StudentRecord)
	return r, args.Error(1)
}

func (m *mockAnalyticsRepo) MonthlyGrades(ctx context.Context, companyID, since int64, tz string) ([]analytics.MonthlyPoint, error) {
	args := m.Called(ctx, companyID, since, tz)
	p, _ := args.Get(0).([]analytics.MonthlyPoint)
	return p, args.Error(1)
}

func (m *mockAnalyticsRepo) MonthlyCompletions(ctx context.Context, companyID, since int64, tz string) ([]analytics.MonthlyPoint, error) {
	args := m.Called(ctx, companyID, since, tz)
	p, _ := args.Get(0).([]analytics.MonthlyPoint)
	return p, args.Error(1)
}

func (m *mockAnalyticsRepo) MonthlyLogins(ctx context.Context, companyID, since int64, tz string) ([]analytics.MonthlyPoint, error) {
	args := m.Called(ctx, companyID, since, tz)
	p, _ := args.Get(0).([]analytics.MonthlyPoint)
	return p, args.Error(1)
}

func (m *mockAnalyticsRepo) TeacherMetrics(ctx context.Context, companyID, since int64) ([]analytics.TeacherMetrics, error) {
	args := m.Called(ctx, companyID, since)
	t, _ := args.Get(0).([]analytics.TeacherMetrics)
	return t, args.Error(1)
}

func (m *mockAnalyticsRepo) CourseEngagement(ctx context.Context, companyID, since int64) ([]models.CourseEngagement, error) {
	args := m.Called(ctx, companyID, since)
	c, _ := args.Get(0).([]models.CourseEngagement)
	return c, args.Error(1)
}

func (m *mockAnalyticsRepo) RecentActivity(ctx context.Context, companyID int64, limit int) ([]models.ActivityEntry, error) {
	args := m.Called(ctx, companyID, limit)
	e, _ := args.Get(0).([]models.ActivityEntry)
	return e, args.Error(1)
}

type mockLicenseRepo struct{ mock.Mock }

func (m *mockLicenseRepo) List(ctx context.Context, filter models.LicenseFilter) ([]models.License, int64, error) {
	args := m.Called(ctx, filter)
	l, _ := args.Get(0).([]models.License)
	return l, args.Get(1).(int64), args.Error(2)
}

func (m *mockLicenseRepo) GetByID(ctx context.Context, id int64) (*models.License, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*models.License)
	return l, args.Error(1)
}

func (m *mockLicenseRepo) GetForUpdate(ctx context.Context, q repositories.Querier, id int64) (*models.License, error) {
	args := m.Called(ctx, q, id)
	l, _ := args.Get(0).(*models.License)
	return l, args.Error(1)
}

func (m *mockLicenseRepo) NameExists(ctx context.Context, companyID int64, name string, excludeID int64) (bool, error) {
	args := m.Called(ctx, companyID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLicenseRepo) Create(ctx context.Context, q repositories.Querier, l *models.License) error {
	args := m.Called(ctx, q, l)
	return args.Error(0)
}

func (m *mockLicenseRepo) Update(ctx context.Context, q repositories.Querier, l *models.License) error {
	args := m.Called(ctx, q, l)
	return args.Error(0)
}

func (m *mockLicenseRepo) Delete(ctx context.Context, q repositories.Querier, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *mockLicenseRepo) ListUsers(ctx context.Context, licenseID int64) ([]models.LicenseUser, error) {
	args := m.Called(ctx, licenseID)
	u, _ := args.Get(0).([]models.LicenseUser)
	return u, args.Error(1)
}

func (m *mockLicenseRepo) GetUser(ctx context.Context, q repositories.Querier, licenseID, userID int64) (*models.LicenseUser, error) {
	args := m.Called(ctx, q, licenseID, userID)
	u, _ := args.Get(0).(*models.LicenseUser)
	return u, args.Error(1)
}

func (m *mockLicenseRepo) AddUser(ctx context.Context, q repositories.Querier, licenseID, userID, issueDate int64) (bool, error) {
	args := m.Called(ctx, q, licenseID, userID, issueDate)
	return args.Bool(0), args.Error(1)
}

func (m *mockLicenseRepo) RemoveUser(ctx context.Context, q repositories.Querier, licenseID, userID int64) error {
	args := m.Called(ctx, q, licenseID, userID)
	return args.Error(0)
}

func (m *mockLicenseRepo) SyncUsed(ctx context.Context, q repositories.Querier, licenseID int64) (int, error) {
	args := m.Called(ctx, q, licenseID)
	return args.Int(0), args.Error(1)
}

type mockEnrollmentRepo struct{ mock.Mock }

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int64, error) {
	args := m.Called(ctx, filter)
	e, _ := args.Get(0).([]models.Enrollment)
	return e, args.Get(1).(int64), args.Error(2)
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Enrollment)
	return e, args.Error(1)
}

func (m *mockEnrollmentRepo) RoleID(ctx context.Context, q repositories.Querier, shortname string) (int64, error) {
	args := m.Called(ctx, q, shortname)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentRepo) CourseContextID(ctx context.Context, q repositories.Querier, courseID int64) (int64, error) {
	args := m.Called(ctx, q, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentRepo) ManualInstance(ctx context.Context, q repositories.Querier, courseID int64) (int64, error) {
	args := m.Called(ctx, q, courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentRepo) CreateManualInstance(ctx context.Context, q repositories.Querier, courseID, roleID, now int64) (int64, error) {
	args := m.Called(ctx, q, courseID, roleID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentRepo) InsertUserEnrolment(ctx context.Context, q repositories.Querier, enrolID int64, e models.NewEnrollment, now int64) (int64, error) {
	args := m.Called(ctx, q, enrolID, e, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEnrollmentRepo) AssignRole(ctx context.Context, q repositories.Querier, roleID, contextID, userID, modifierID, now int64) error {
	args := m.Called(ctx, q, roleID, contextID, userID, modifierID, now)
	return args.Error(0)
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus, modifierID, now int64) error {
	args := m.Called(ctx, id, status, modifierID, now)
	return args.Error(0)
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, q repositories.Querier, e *models.Enrollment) error {
	args := m.Called(ctx, q, e)
	return args.Error(0)
}

type mockSettingRepo struct{ mock.Mock }

func (m *mockSettingRepo) List(ctx context.Context, companyID int64, prefix string) ([]models.SchoolSetting, error) {
	args := m.Called(ctx, companyID, prefix)
	s, _ := args.Get(0).([]models.SchoolSetting)
	return s, args.Error(1)
}

func (m *mockSettingRepo) Get(ctx context.Context, companyID int64, name string) (*models.SchoolSetting, error) {
	args := m.Called(ctx, companyID, name)
	s, _ := args.Get(0).(*models.SchoolSetting)
	return s, args.Error(1)
}

func (m *mockSettingRepo) Upsert(ctx context.Context, q repositories.Querier, setting *models.SchoolSetting) error {
	args := m.Called(ctx, q, setting)
	return args.Error(0)
}

type mockTrainingRepo struct{ mock.Mock }

func (m *mockTrainingRepo) List(ctx context.Context, filter models.TrainingRuleFilter) ([]models.TrainingRule, int64, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).([]models.TrainingRule)
	return r, args.Get(1).(int64), args.Error(2)
}

func (m *mockTrainingRepo) ListEnabled(ctx context.Context, companyID int64) ([]models.TrainingRule, error) {
	args := m.Called(ctx, companyID)
	r, _ := args.Get(0).([]models.TrainingRule)
	return r, args.Error(1)
}

func (m *mockTrainingRepo) GetByID(ctx context.Context, id int64) (*models.TrainingRule, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.TrainingRule)
	return r, args.Error(1)
}

func (m *mockTrainingRepo) Create(ctx context.Context, rule *models.TrainingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *mockTrainingRepo) Update(ctx context.Context, rule *models.TrainingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *mockTrainingRepo) SetEnabled(ctx context.Context, id int64, enabled bool, now int64) error {
	args := m.Called(ctx, id, enabled, now)
	return args.Error(0)
}

func (m *mockTrainingRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
