package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/config"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/analytics"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
	MaxTrendMonths       = 24
)

// AnalyticsSettings are the thresholds the dashboards are computed with
type AnalyticsSettings struct {
	GradeLevelField   string
	PassingGrade      float64
	MinCompletionRate float64
	InactivityDays    int
	TrendMonths       int
	Location          *time.Location
}

// NewAnalyticsSettings reads the analytics section of the configuration
func NewAnalyticsSettings(cfg *config.Config) AnalyticsSettings {
	return AnalyticsSettings{
		GradeLevelField:   cfg.Analytics.GradeLevelField,
		PassingGrade:      cfg.Analytics.PassingGrade,
		MinCompletionRate: cfg.Analytics.MinCompletionRate,
		InactivityDays:    cfg.Analytics.InactivityDays,
		TrendMonths:       cfg.Analytics.TrendMonths,
		Location:          cfg.Location(),
	}
}

// QueryFailureRecorder counts analytics sections that could not be computed
type QueryFailureRecorder interface {
	QueryFailed(section string)
}

// AnalyticsService defines the school dashboard operations. companyID 0 covers every school.
type AnalyticsService interface {
	Overview(ctx context.Context, companyID int64) (*models.SchoolOverview, error)
	GradeLevels(ctx context.Context, companyID int64) (*dto.GradeLevelsResponse, error)
	GradeDistribution(ctx context.Context, companyID int64) (*dto.GradeDistributionResponse, error)
	AcademicTrends(ctx context.Context, companyID int64, months int) (*dto.AcademicTrendsResponse, error)
	TeacherEffectiveness(ctx context.Context, companyID int64) (*dto.TeacherEffectivenessResponse, error)
	EarlyWarnings(ctx context.Context, companyID int64) (*dto.EarlyWarningsResponse, error)
	CourseEngagement(ctx context.Context, companyID int64) (*dto.CourseEngagementResponse, error)
	RecentActivity(ctx context.Context, companyID int64, limit int) (*dto.RecentActivityResponse, error)
}

type noopFailures struct{}

func (noopFailures) QueryFailed(string) {}

type analyticsServiceImpl struct {
	repo     repositories.IAnalyticsRepository
	settings AnalyticsSettings
	failures QueryFailureRecorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	repo repositories.IAnalyticsRepository,
	settings AnalyticsSettings,
	failures QueryFailureRecorder,
	logger zerolog.Logger,
) AnalyticsService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if failures == nil {
		failures = noopFailures{}
	}
	return &analyticsServiceImpl{
		repo:     repo,
		settings: settings,
		failures: failures,
		logger:   logger,
		now:      time.Now,
	}
}

// degrade logs a failed section and records it; the caller continues with an empty value
func (s *analyticsServiceImpl) degrade(section string, companyID int64, err error) {
	s.logger.Error().Err(err).Str("section", section).Int64("companyID", companyID).Msg("Analytics query failed")
	s.failures.QueryFailed(section)
}

func (s *analyticsServiceImpl) activeSince() int64 {
	return s.now().Add(-time.Duration(s.settings.InactivityDays) * 24 * time.Hour).Unix()
}

// Overview runs the headline queries concurrently. A failing query leaves its
// figure at zero and is reported in Degraded.
func (s *analyticsServiceImpl) Overview(ctx context.Context, companyID int64) (*models.SchoolOverview, error) {
	overview := &models.SchoolOverview{CompanyID: companyID}
	since := s.activeSince()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	run := func(section string, fn func(ctx context.Context) error) {
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				s.degrade(section, companyID, err)
				mu.Lock()
				overview.Degraded = append(overview.Degraded, section)
				mu.Unlock()
			}
			return nil
		})
	}

	run("students", func(ctx context.Context) error {
		n, err := s.repo.CountStudents(ctx, companyID)
		overview.TotalStudents = n
		return err
	})
	run("teachers", func(ctx context.Context) error {
		n, err := s.repo.CountTeachers(ctx, companyID)
		overview.TotalTeachers = n
		return err
	})
	run("courses", func(ctx context.Context) error {
		n, err := s.repo.CountCourses(ctx, companyID)
		overview.TotalCourses = n
		return err
	})
	run("active_users", func(ctx context.Context) error {
		n, err := s.repo.CountActiveUsers(ctx, companyID, since)
		overview.ActiveUsers = n
		return err
	})
	run("average_grade", func(ctx context.Context) error {
		avg, err := s.repo.AverageGrade(ctx, companyID)
		overview.AverageGrade = analytics.Round(avg, 1)
		return err
	})
	run("completion_rate", func(ctx context.Context) error {
		totals, err := s.repo.CompletionTotals(ctx, companyID)
		overview.CompletionRate = analytics.Percent(float64(totals.Completed), float64(totals.Enrolled))
		return err
	})

	_ = g.Wait()
	sort.Strings(overview.Degraded)

	// a failed query may still have written a partial value
	for _, section := range overview.Degraded {
		switch section {
		case "students":
			overview.TotalStudents = 0
		case "teachers":
			overview.TotalTeachers = 0
		case "courses":
			overview.TotalCourses = 0
		case "active_users":
			overview.ActiveUsers = 0
		case "average_grade":
			overview.AverageGrade = 0
		case "completion_rate":
			overview.CompletionRate = 0
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *analyticsServiceImpl) students(ctx context.Context, section string, companyID int64) []analytics.StudentRecord {
	records, err := s.repo.StudentRecords(ctx, companyID, s.settings.GradeLevelField)
	if err != nil {
		s.degrade(section, companyID, err)
		return nil
	}
	return records
}

// GradeLevels groups the school's students by their grade level profile field
func (s *analyticsServiceImpl) GradeLevels(ctx context.Context, companyID int64) (*dto.GradeLevelsResponse, error) {
	records := s.students(ctx, "grade_levels", companyID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &dto.GradeLevelsResponse{
		CompanyID:    companyID,
		PassingGrade: s.settings.PassingGrade,
		Levels:       analytics.GroupByGradeLevel(records, s.settings.PassingGrade, s.activeSince()),
	}, nil
}

// GradeDistribution buckets per-student averages into letter grades
func (s *analyticsServiceImpl) GradeDistribution(ctx context.Context, companyID int64) (*dto.GradeDistributionResponse, error) {
	records := s.students(ctx, "grade_distribution", companyID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	averages := analytics.StudentAverages(records)
	return &dto.GradeDistributionResponse{
		CompanyID:      companyID,
		GradedStudents: len(averages),
		Buckets:        analytics.Distribution(averages),
	}, nil
}

// AcademicTrends builds the monthly chart. months outside 1..24 falls back to the configured window.
func (s *analyticsServiceImpl) AcademicTrends(ctx context.Context, companyID int64, months int) (*dto.AcademicTrendsResponse, error) {
	if months < 1 || months > MaxTrendMonths {
		months = s.settings.TrendMonths
	}

	now := s.now().In(s.settings.Location)
	since := analytics.TrendStart(now, months).Unix()
	tz := s.settings.Location.String()

	var grades, completions, logins []analytics.MonthlyPoint
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		points, err := s.repo.MonthlyGrades(gctx, companyID, since, tz)
		if err != nil {
			s.degrade("trends_grades", companyID, err)
			return nil
		}
		grades = points
		return nil
	})
	g.Go(func() error {
		points, err := s.repo.MonthlyCompletions(gctx, companyID, since, tz)
		if err != nil {
			s.degrade("trends_completions", companyID, err)
			return nil
		}
		completions = points
		return nil
	})
	g.Go(func() error {
		points, err := s.repo.MonthlyLogins(gctx, companyID, since, tz)
		if err != nil {
			s.degrade("trends_logins", companyID, err)
			return nil
		}
		logins = points
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &dto.AcademicTrendsResponse{
		CompanyID: companyID,
		Months:    months,
		Trend:     analytics.BuildTrend(now, months, grades, completions, logins),
	}, nil
}

// TeacherEffectiveness scores every teacher of the school's courses
func (s *analyticsServiceImpl) TeacherEffectiveness(ctx context.Context, companyID int64) (*dto.TeacherEffectivenessResponse, error) {
	metrics, err := s.repo.TeacherMetrics(ctx, companyID, s.activeSince())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.degrade("teacher_effectiveness", companyID, err)
		metrics = nil
	}
	return &dto.TeacherEffectivenessResponse{
		CompanyID: companyID,
		Teachers:  analytics.ScoreTeachers(metrics, analytics.DefaultWeights),
	}, nil
}

// EarlyWarnings flags students at risk
func (s *analyticsServiceImpl) EarlyWarnings(ctx context.Context, companyID int64) (*dto.EarlyWarningsResponse, error) {
	records := s.students(ctx, "early_warnings", companyID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	warnings := analytics.EvaluateWarnings(records, analytics.WarningRules{
		PassingGrade:      s.settings.PassingGrade,
		MinCompletionRate: s.settings.MinCompletionRate,
		InactivityDays:    s.settings.InactivityDays,
	}, s.now())
	counts := analytics.CountBySeverity(warnings)

	return &dto.EarlyWarningsResponse{
		CompanyID: companyID,
		Total:     len(warnings),
		High:      counts[analytics.SeverityHigh],
		Medium:    counts[analytics.SeverityMedium],
		Students:  warnings,
	}, nil
}

// CourseEngagement lists enrolment, activity and completion per course
func (s *analyticsServiceImpl) CourseEngagement(ctx context.Context, companyID int64) (*dto.CourseEngagementResponse, error) {
	courses, err := s.repo.CourseEngagement(ctx, companyID, s.activeSince())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.degrade("course_engagement", companyID, err)
		courses = []models.CourseEngagement{}
	}
	return &dto.CourseEngagementResponse{CompanyID: companyID, Courses: courses}, nil
}

// RecentActivity returns the latest log entries. limit is clamped to 1..100, 0 means the default.
func (s *analyticsServiceImpl) RecentActivity(ctx context.Context, companyID int64, limit int) (*dto.RecentActivityResponse, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	entries, err := s.repo.RecentActivity(ctx, companyID, limit)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.degrade("recent_activity", companyID, err)
		entries = []models.ActivityEntry{}
	}
	return &dto.RecentActivityResponse{CompanyID: companyID, Entries: entries}, nil
}
