package models

import "github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"

// EnrollmentStatus mirrors Moodle's ENROL_USER_ACTIVE / ENROL_USER_SUSPENDED
type EnrollmentStatus int

const (
	EnrollmentActive    EnrollmentStatus = 0
	EnrollmentSuspended EnrollmentStatus = 1
)

// String returns the API name of the status
func (s EnrollmentStatus) String() string {
	if s == EnrollmentSuspended {
		return "suspended"
	}
	return "active"
}

// ParseEnrollmentStatus converts an API name to a status
func ParseEnrollmentStatus(v string) (EnrollmentStatus, bool) {
	switch v {
	case "active":
		return EnrollmentActive, true
	case "suspended":
		return EnrollmentSuspended, true
	}
	return 0, false
}

// Enrollment is a user_enrolments row joined with its course and user
type Enrollment struct {
	ID          int64            `json:"id"`
	EnrolID     int64            `json:"enrolId"`
	UserID      int64            `json:"userId"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	CourseID    int64            `json:"courseId"`
	CourseName  string           `json:"courseName"`
	Role        string           `json:"role"`
	Status      EnrollmentStatus `json:"-"`
	TimeStart   int64            `json:"timeStart"`
	TimeEnd     int64            `json:"timeEnd"`
	TimeCreated int64            `json:"timeCreated"`
}

// NewEnrollment is the input of a manual enrolment
type NewEnrollment struct {
	UserID    int64
	CourseID  int64
	Role      string
	TimeStart int64
	TimeEnd   int64
	// ActorID is recorded as the enrolment's modifierid
	ActorID int64
}

// EnrollmentFilter narrows an enrolment listing
type EnrollmentFilter struct {
	CompanyID int64
	CourseID  int64
	UserID    int64
	Status    *EnrollmentStatus
	Page      helpers.Page
}
