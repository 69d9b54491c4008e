package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// EnrollRequest represents a manual enrolment
type EnrollRequest struct {
	UserID    int64  `json:"userId" binding:"required,gt=0" example:"57"`
	CourseID  int64  `json:"courseId" binding:"required,gt=0" example:"12"`
	Role      string `json:"role" binding:"omitempty,oneof=student teacher editingteacher" example:"student"`
	TimeStart int64  `json:"timeStart" binding:"gte=0"`
	TimeEnd   int64  `json:"timeEnd" binding:"gte=0"`
}

// BulkEnrollRequest enrols several users into one course
type BulkEnrollRequest struct {
	CourseID  int64   `json:"courseId" binding:"required,gt=0"`
	UserIDs   []int64 `json:"userIds" binding:"required,min=1,max=500,dive,gt=0"`
	Role      string  `json:"role" binding:"omitempty,oneof=student teacher editingteacher"`
	TimeStart int64   `json:"timeStart" binding:"gte=0"`
	TimeEnd   int64   `json:"timeEnd" binding:"gte=0"`
}

// UpdateEnrollmentStatusRequest switches an enrolment between active and suspended
type UpdateEnrollmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended" example:"suspended"`
}

// EnrollmentResponse is an enrolment with its status name
type EnrollmentResponse struct {
	models.Enrollment
	Status string `json:"status" example:"active"`
}

// NewEnrollmentResponse converts an enrolment model
func NewEnrollmentResponse(e models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{Enrollment: e, Status: e.Status.String()}
}

// EnrollmentListResponse represents a page of enrolments
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// BulkEnrollResult is the outcome for one user of a bulk enrolment
type BulkEnrollResult struct {
	UserID       int64  `json:"userId"`
	Success      bool   `json:"success"`
	EnrollmentID int64  `json:"enrollmentId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// BulkEnrollResponse summarises a bulk enrolment
type BulkEnrollResponse struct {
	CourseID int64              `json:"courseId"`
	Enrolled int                `json:"enrolled"`
	Failed   int                `json:"failed"`
	Results  []BulkEnrollResult `json:"results"`
}
