package models

// SchoolOverview holds the headline numbers of a school's dashboard
type SchoolOverview struct {
	CompanyID      int64   `json:"companyId"`
	TotalStudents  int64   `json:"totalStudents"`
	TotalTeachers  int64   `json:"totalTeachers"`
	TotalCourses   int64   `json:"totalCourses"`
	ActiveUsers    int64   `json:"activeUsers"`
	AverageGrade   float64 `json:"averageGrade"`
	CompletionRate float64 `json:"completionRate"`
	// Degraded names the figures that could not be computed and read as zero
	Degraded []string `json:"degraded,omitempty"`
}

// CourseEngagement is one course row of the engagement table
type CourseEngagement struct {
	CourseID       int64   `json:"courseId"`
	FullName       string  `json:"fullName"`
	ShortName      string  `json:"shortName"`
	Enrolled       int64   `json:"enrolled"`
	Active         int64   `json:"active"`
	Completed      int64   `json:"completed"`
	AverageGrade   float64 `json:"averageGrade"`
	EngagementRate float64 `json:"engagementRate"`
	CompletionRate float64 `json:"completionRate"`
}

// ActivityEntry is one logstore_standard_log event of the recent activity feed
type ActivityEntry struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"userId"`
	UserName    string `json:"userName"`
	CourseID    int64  `json:"courseId"`
	CourseName  string `json:"courseName"`
	EventName   string `json:"eventName"`
	Component   string `json:"component"`
	Action      string `json:"action"`
	Target      string `json:"target"`
	TimeCreated int64  `json:"timeCreated"`
}

// CompletionTotals counts course completions against enrolments
type CompletionTotals struct {
	Enrolled  int64
	Completed int64
}
