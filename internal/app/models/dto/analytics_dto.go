package dto

import (
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/analytics"
)

// GradeLevelsResponse is the grade level breakdown of a school
type GradeLevelsResponse struct {
	CompanyID    int64                         `json:"companyId"`
	PassingGrade float64                       `json:"passingGrade"`
	Levels       []analytics.GradeLevelSummary `json:"levels"`
}

// GradeDistributionResponse is the letter-grade histogram of a school
type GradeDistributionResponse struct {
	CompanyID      int64                   `json:"companyId"`
	GradedStudents int                     `json:"gradedStudents"`
	Buckets        []analytics.GradeBucket `json:"buckets"`
}

// AcademicTrendsResponse is the monthly trend chart of a school
type AcademicTrendsResponse struct {
	CompanyID int64                   `json:"companyId"`
	Months    int                     `json:"months"`
	Trend     []analytics.TrendBucket `json:"trend"`
}

// TeacherEffectivenessResponse ranks a school's teachers
type TeacherEffectivenessResponse struct {
	CompanyID int64                    `json:"companyId"`
	Teachers  []analytics.TeacherScore `json:"teachers"`
}

// EarlyWarningsResponse lists flagged students
type EarlyWarningsResponse struct {
	CompanyID int64               `json:"companyId"`
	Total     int                 `json:"total"`
	High      int                 `json:"high"`
	Medium    int                 `json:"medium"`
	Students  []analytics.Warning `json:"students"`
}

// CourseEngagementResponse lists course engagement rows
type CourseEngagementResponse struct {
	CompanyID int64                     `json:"companyId"`
	Courses   []models.CourseEngagement `json:"courses"`
}

// RecentActivityResponse is the latest log feed of a school
type RecentActivityResponse struct {
	CompanyID int64                  `json:"companyId"`
	Entries   []models.ActivityEntry `json:"entries"`
}
