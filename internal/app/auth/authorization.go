package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

// AuthorizationService answers which school a caller may act on
type AuthorizationService struct {
	companyRepo repositories.ICompanyRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(companyRepo repositories.ICompanyRepository) *AuthorizationService {
	return &AuthorizationService{companyRepo: companyRepo}
}

// ResolveCompanyScope returns the company the caller's request is scoped to.
// Managers are pinned to their own school; asking for another one is denied.
// Admins get the requested company, where 0 means every school.
func (s *AuthorizationService) ResolveCompanyScope(caller *models.SessionUser, requested int64) (int64, error) {
	if caller == nil {
		return 0, apperrors.ErrPermissionDenied
	}
	if requested < 0 {
		return 0, apperrors.NewValidationError("companyId must not be negative")
	}

	switch caller.RoleType {
	case models.RoleAdmin:
		return requested, nil
	case models.RoleManager:
		if caller.CompanyID <= 0 {
			return 0, apperrors.ErrPermissionDenied
		}
		if requested != 0 && requested != caller.CompanyID {
			logger.Warn().
				Int64("userID", caller.ID).
				Int64("companyID", caller.CompanyID).
				Int64("requestedCompanyID", requested).
				Msg("Manager requested another school")
			return 0, apperrors.NewForbiddenError("managers can only access their own school")
		}
		return caller.CompanyID, nil
	}
	return 0, apperrors.ErrPermissionDenied
}

// RequireCompany ensures a concrete, existing school was selected. Used by
// mutations, which never apply to "all schools".
func (s *AuthorizationService) RequireCompany(ctx context.Context, companyID int64) error {
	if companyID <= 0 {
		return apperrors.NewValidationError("companyId is required for this operation")
	}
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			return err
		}
		return fmt.Errorf("failed to load school: %w", err)
	}
	return nil
}

// ValidateUserInCompany returns ErrUserNotInCompany unless the user is a member of the school
func (s *AuthorizationService) ValidateUserInCompany(ctx context.Context, companyID, userID int64) error {
	ok, err := s.companyRepo.UserInCompany(ctx, companyID, userID)
	if err != nil {
		logger.Error().Err(err).Int64("companyID", companyID).Int64("userID", userID).Msg("Error checking school membership")
		return err
	}
	if !ok {
		return apperrors.ErrUserNotInCompany
	}
	return nil
}

// ValidateCourseInCompany returns ErrCourseNotInCompany unless the course belongs to the school
func (s *AuthorizationService) ValidateCourseInCompany(ctx context.Context, companyID, courseID int64) error {
	ok, err := s.companyRepo.CourseInCompany(ctx, companyID, courseID)
	if err != nil {
		logger.Error().Err(err).Int64("companyID", companyID).Int64("courseID", courseID).Msg("Error checking school course")
		return err
	}
	if !ok {
		return apperrors.ErrCourseNotInCompany
	}
	return nil
}

// CanAccessCompanyResource reports whether a record owned by ownerCompanyID is
// visible within scope. Scope 0 sees everything.
func CanAccessCompanyResource(scope, ownerCompanyID int64) bool {
	return scope == 0 || scope == ownerCompanyID
}

// CanModifyTrainingRule reports whether the caller may edit the rule. Site-wide
// rules (company 0) are reserved to admins.
func CanModifyTrainingRule(caller *models.SessionUser, rule *models.TrainingRule) bool {
	if caller == nil || rule == nil {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return rule.CompanyID != 0 && rule.CompanyID == caller.CompanyID
}
