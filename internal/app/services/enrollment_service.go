package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// EnrollmentService defines manual enrolment management for a school's courses
type EnrollmentService interface {
	List(ctx context.Context, scope int64, filter models.EnrollmentFilter) (*dto.EnrollmentListResponse, error)
	Enroll(ctx context.Context, scope, actorID int64, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error)
	BulkEnroll(ctx context.Context, scope, actorID int64, req *dto.BulkEnrollRequest) (*dto.BulkEnrollResponse, error)
	UpdateStatus(ctx context.Context, scope, actorID, id int64, status string) (*dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, scope, actorID, id int64) error
}

type enrollmentServiceImpl struct {
	enrollmentRepo repositories.IEnrollmentRepository
	authzService   *appauth.AuthorizationService
	tx             TxRunner
	events         EventPublisher
	logger         zerolog.Logger
	now            func() time.Time
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo repositories.IEnrollmentRepository,
	authzService *appauth.AuthorizationService,
	tx TxRunner,
	events EventPublisher,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		enrollmentRepo: enrollmentRepo,
		authzService:   authzService,
		tx:             tx,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

func normaliseRole(role string) (string, error) {
	switch role {
	case "":
		return models.CourseRoleStudent, nil
	case models.CourseRoleStudent, models.CourseRoleTeacher, models.CourseRoleEditingTeacher:
		return role, nil
	}
	return "", apperrors.NewValidationError("role must be one of student, teacher, editingteacher")
}

func validateWindow(start, end int64) error {
	if start < 0 || end < 0 {
		return apperrors.NewValidationError("timeStart and timeEnd must not be negative")
	}
	if start > 0 && end > 0 && end <= start {
		return apperrors.NewValidationError("timeEnd must be after timeStart")
	}
	return nil
}

// List returns a page of enrolments
func (s *enrollmentServiceImpl) List(ctx context.Context, scope int64, filter models.EnrollmentFilter) (*dto.EnrollmentListResponse, error) {
	filter.CompanyID = scope
	enrolments, total, err := s.enrollmentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing enrolments: %w", err)
	}

	out := make([]dto.EnrollmentResponse, 0, len(enrolments))
	for _, e := range enrolments {
		out = append(out, dto.NewEnrollmentResponse(e))
	}
	return &dto.EnrollmentListResponse{
		Enrollments: out,
		Pagination:  dto.NewPaginationInfo(filter.Page, total),
	}, nil
}

// enrol writes the enrolment rows for a user already checked against the school
func (s *enrollmentServiceImpl) enrol(ctx context.Context, e models.NewEnrollment) (int64, error) {
	now := s.now().Unix()
	var id int64

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		roleID, err := s.enrollmentRepo.RoleID(ctx, tx, e.Role)
		if err != nil {
			return err
		}

		enrolID, err := s.enrollmentRepo.ManualInstance(ctx, tx, e.CourseID)
		if err != nil {
			return err
		}
		if enrolID == 0 {
			defaultRole := roleID
			if e.Role != models.CourseRoleStudent {
				if defaultRole, err = s.enrollmentRepo.RoleID(ctx, tx, models.CourseRoleStudent); err != nil {
					return err
				}
			}
			if enrolID, err = s.enrollmentRepo.CreateManualInstance(ctx, tx, e.CourseID, defaultRole, now); err != nil {
				return err
			}
			s.logger.Info().Int64("courseID", e.CourseID).Int64("enrolID", enrolID).Msg("Created manual enrolment instance")
		}

		if id, err = s.enrollmentRepo.InsertUserEnrolment(ctx, tx, enrolID, e, now); err != nil {
			return err
		}

		contextID, err := s.enrollmentRepo.CourseContextID(ctx, tx, e.CourseID)
		if err != nil {
			return err
		}
		return s.enrollmentRepo.AssignRole(ctx, tx, roleID, contextID, e.UserID, e.ActorID, now)
	})
	return id, err
}

// Enroll adds one user to one of the school's courses
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, scope, actorID int64, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	if err := s.authzService.RequireCompany(ctx, scope); err != nil {
		return nil, err
	}
	role, err := normaliseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(req.TimeStart, req.TimeEnd); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCourseInCompany(ctx, scope, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateUserInCompany(ctx, scope, req.UserID); err != nil {
		return nil, err
	}

	id, err := s.enrol(ctx, models.NewEnrollment{
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		Role:      role,
		TimeStart: req.TimeStart,
		TimeEnd:   req.TimeEnd,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}

	e, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", id).Int64("userID", req.UserID).Int64("courseID", req.CourseID).Int64("actorID", actorID).Msg("User enrolled")
	resp := dto.NewEnrollmentResponse(*e)
	publish(s.events, websocket.EventEnrollmentCreated, scope, actorID, resp)
	return &resp, nil
}

// BulkEnroll enrols every user it can and reports the outcome per user
func (s *enrollmentServiceImpl) BulkEnroll(ctx context.Context, scope, actorID int64, req *dto.BulkEnrollRequest) (*dto.BulkEnrollResponse, error) {
	if err := s.authzService.RequireCompany(ctx, scope); err != nil {
		return nil, err
	}
	role, err := normaliseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(req.TimeStart, req.TimeEnd); err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateCourseInCompany(ctx, scope, req.CourseID); err != nil {
		return nil, err
	}

	resp := &dto.BulkEnrollResponse{CourseID: req.CourseID, Results: make([]dto.BulkEnrollResult, 0, len(req.UserIDs))}
	seen := make(map[int64]bool, len(req.UserIDs))

	for _, userID := range req.UserIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		result := dto.BulkEnrollResult{UserID: userID}
		err := s.authzService.ValidateUserInCompany(ctx, scope, userID)
		if err == nil {
			result.EnrollmentID, err = s.enrol(ctx, models.NewEnrollment{
				UserID:    userID,
				CourseID:  req.CourseID,
				Role:      role,
				TimeStart: req.TimeStart,
				TimeEnd:   req.TimeEnd,
				ActorID:   actorID,
			})
		}

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			result.Error = err.Error()
			resp.Failed++
		} else {
			result.Success = true
			resp.Enrolled++
		}
		resp.Results = append(resp.Results, result)
	}

	s.logger.Info().
		Int64("courseID", req.CourseID).
		Int("enrolled", resp.Enrolled).
		Int("failed", resp.Failed).
		Int64("actorID", actorID).
		Msg("Bulk enrolment finished")
	if resp.Enrolled > 0 {
		publish(s.events, websocket.EventEnrollmentCreated, scope, actorID, resp)
	}
	return resp, nil
}

// loadScoped hides enrolments in other schools' courses behind not found
func (s *enrollmentServiceImpl) loadScoped(ctx context.Context, scope, id int64) (*models.Enrollment, error) {
	e, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope != 0 {
		if err := s.authzService.ValidateCourseInCompany(ctx, scope, e.CourseID); err != nil {
			if errors.Is(err, apperrors.ErrCourseNotInCompany) {
				return nil, apperrors.ErrEnrollmentNotFound
			}
			return nil, err
		}
	}
	return e, nil
}

// UpdateStatus suspends or reactivates an enrolment
func (s *enrollmentServiceImpl) UpdateStatus(ctx context.Context, scope, actorID, id int64, status string) (*dto.EnrollmentResponse, error) {
	parsed, ok := models.ParseEnrollmentStatus(status)
	if !ok {
		return nil, apperrors.NewValidationError("status must be active or suspended")
	}
	if _, err := s.loadScoped(ctx, scope, id); err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, id, parsed, actorID, s.now().Unix()); err != nil {
		return nil, err
	}

	e, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("enrollmentID", id).Str("status", parsed.String()).Int64("actorID", actorID).Msg("Enrolment status changed")
	resp := dto.NewEnrollmentResponse(*e)
	publish(s.events, websocket.EventEnrollmentUpdated, scope, actorID, resp)
	return &resp, nil
}

// Unenroll removes the enrolment and the manual role it granted
func (s *enrollmentServiceImpl) Unenroll(ctx context.Context, scope, actorID, id int64) error {
	e, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.enrollmentRepo.Delete(ctx, tx, e)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("enrollmentID", id).Int64("userID", e.UserID).Int64("courseID", e.CourseID).Int64("actorID", actorID).Msg("User unenrolled")
	publish(s.events, websocket.EventEnrollmentDeleted, scope, actorID, map[string]int64{
		"id":       id,
		"userId":   e.UserID,
		"courseId": e.CourseID,
	})
	return nil
}
