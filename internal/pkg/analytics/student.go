package analytics

import "strings"

// StudentRecord is one student's aggregated performance inside a school.
type StudentRecord struct {
	UserID     int64  `json:"userId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	GradeLevel string `json:"gradeLevel"`
	// AverageGrade is the mean course-total percentage; nil when nothing is graded yet.
	AverageGrade     *float64 `json:"averageGrade"`
	LastAccess       int64    `json:"lastAccess"`
	EnrolledCourses  int      `json:"enrolledCourses"`
	CompletedCourses int      `json:"completedCourses"`
}

// FullName joins first and last name the way Moodle's fullname() does by default.
func (s StudentRecord) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// CompletionRate is the share of enrolled courses the student has completed.
func (s StudentRecord) CompletionRate() float64 {
	return Percent(float64(s.CompletedCourses), float64(s.EnrolledCourses))
}

// StudentAverages collects the graded students' averages.
func StudentAverages(students []StudentRecord) []float64 {
	out := make([]float64, 0, len(students))
	for _, s := range students {
		if s.AverageGrade != nil {
			out = append(out, *s.AverageGrade)
		}
	}
	return out
}
