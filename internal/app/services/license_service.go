package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/helpers"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

// LicenseService defines license management. scope is the caller's resolved
// company, 0 for an admin looking at every school.
type LicenseService interface {
	List(ctx context.Context, scope int64, name string, page helpers.Page) (*dto.LicenseListResponse, error)
	Get(ctx context.Context, scope, id int64) (*dto.LicenseResponse, error)
	Create(ctx context.Context, scope, actorID int64, req *dto.CreateLicenseRequest) (*dto.LicenseResponse, error)
	Update(ctx context.Context, scope, actorID, id int64, req *dto.UpdateLicenseRequest) (*dto.LicenseResponse, error)
	Delete(ctx context.Context, scope, actorID, id int64) error
	ListUsers(ctx context.Context, scope, id int64) (*dto.LicenseUsersResponse, error)
	Allocate(ctx context.Context, scope, actorID, id int64, userIDs []int64) (*dto.LicenseUsersResponse, error)
	Revoke(ctx context.Context, scope, actorID, id, userID int64) error
}

type licenseServiceImpl struct {
	licenseRepo  repositories.ILicenseRepository
	authzService *appauth.AuthorizationService
	tx           TxRunner
	events       EventPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewLicenseService creates a new LicenseService
func NewLicenseService(
	licenseRepo repositories.ILicenseRepository,
	authzService *appauth.AuthorizationService,
	tx TxRunner,
	events EventPublisher,
	logger zerolog.Logger,
) LicenseService {
	return &licenseServiceImpl{
		licenseRepo:  licenseRepo,
		authzService: authzService,
		tx:           tx,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// validateLicense checks the field invariants shared by create and update
func validateLicense(l *models.License) error {
	if strings.TrimSpace(l.Name) == "" {
		return apperrors.NewValidationError("license name is required")
	}
	if l.Allocation < 0 {
		return apperrors.NewValidationError("allocation must not be negative")
	}
	if l.ValidLength < 0 {
		return apperrors.NewValidationError("validLength must not be negative")
	}
	if l.StartDate > 0 && l.ExpiryDate > 0 && l.ExpiryDate <= l.StartDate {
		return apperrors.NewValidationError("expiryDate must be after startDate")
	}
	if l.Allocation < l.Used {
		return apperrors.ErrLicenseAllocationBelow
	}
	return nil
}

// loadScoped hides licenses of other schools behind not found
func (s *licenseServiceImpl) loadScoped(ctx context.Context, scope, id int64) (*models.License, error) {
	l, err := s.licenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appauth.CanAccessCompanyResource(scope, l.CompanyID) {
		return nil, apperrors.ErrLicenseNotFound
	}
	return l, nil
}

func (s *licenseServiceImpl) validateCourses(ctx context.Context, companyID int64, courseIDs []int64) error {
	for _, courseID := range courseIDs {
		if err := s.authzService.ValidateCourseInCompany(ctx, companyID, courseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *licenseServiceImpl) ensureNameFree(ctx context.Context, companyID int64, name string, excludeID int64) error {
	taken, err := s.licenseRepo.NameExists(ctx, companyID, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrLicenseNameTaken
	}
	return nil
}

// List returns a page of licenses
func (s *licenseServiceImpl) List(ctx context.Context, scope int64, name string, page helpers.Page) (*dto.LicenseListResponse, error) {
	licenses, total, err := s.licenseRepo.List(ctx, models.LicenseFilter{CompanyID: scope, Name: name, Page: page})
	if err != nil {
		return nil, fmt.Errorf("error listing licenses: %w", err)
	}

	out := make([]dto.LicenseResponse, 0, len(licenses))
	for i := range licenses {
		out = append(out, dto.NewLicenseResponse(&licenses[i]))
	}
	return &dto.LicenseListResponse{
		Licenses:   out,
		Pagination: dto.NewPaginationInfo(page, total),
	}, nil
}

// Get returns one license
func (s *licenseServiceImpl) Get(ctx context.Context, scope, id int64) (*dto.LicenseResponse, error) {
	l, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLicenseResponse(l)
	return &resp, nil
}

// Create adds a license to a school. Admins working across schools pick the school in the request.
func (s *licenseServiceImpl) Create(ctx context.Context, scope, actorID int64, req *dto.CreateLicenseRequest) (*dto.LicenseResponse, error) {
	companyID := scope
	if companyID == 0 {
		companyID = req.CompanyID
	}
	if err := s.authzService.RequireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	l := &models.License{
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Allocation:  req.Allocation,
		ValidLength: req.ValidLength,
		StartDate:   req.StartDate,
		ExpiryDate:  req.ExpiryDate,
		Type:        req.Type,
		CourseIDs:   req.CourseIDs,
	}
	if err := validateLicense(l); err != nil {
		return nil, err
	}
	if err := s.validateCourses(ctx, companyID, l.CourseIDs); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, companyID, l.Name, 0); err != nil {
		return nil, err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.licenseRepo.Create(ctx, tx, l)
	})
	if err != nil {
		return nil, err
	}
	if l.CourseIDs == nil {
		l.CourseIDs = []int64{}
	}

	s.logger.Info().Int64("licenseID", l.ID).Int64("companyID", companyID).Int64("actorID", actorID).Msg("License created")
	resp := dto.NewLicenseResponse(l)
	publish(s.events, websocket.EventLicenseCreated, companyID, actorID, resp)
	return &resp, nil
}

// Update rewrites a license; allocation can never drop below the seats in use
func (s *licenseServiceImpl) Update(ctx context.Context, scope, actorID, id int64, req *dto.UpdateLicenseRequest) (*dto.LicenseResponse, error) {
	current, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateCourses(ctx, current.CompanyID, req.CourseIDs); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, current.CompanyID, req.Name, id); err != nil {
		return nil, err
	}

	var updated *models.License
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		l, err := s.licenseRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		l.Name = strings.TrimSpace(req.Name)
		l.Allocation = req.Allocation
		l.ValidLength = req.ValidLength
		l.StartDate = req.StartDate
		l.ExpiryDate = req.ExpiryDate
		l.Type = req.Type
		l.CourseIDs = req.CourseIDs
		if err := validateLicense(l); err != nil {
			return err
		}
		if err := s.licenseRepo.Update(ctx, tx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated.CourseIDs == nil {
		updated.CourseIDs = []int64{}
	}

	s.logger.Info().Int64("licenseID", id).Int64("actorID", actorID).Msg("License updated")
	resp := dto.NewLicenseResponse(updated)
	publish(s.events, websocket.EventLicenseUpdated, updated.CompanyID, actorID, resp)
	return &resp, nil
}

// Delete removes a license nobody holds
func (s *licenseServiceImpl) Delete(ctx context.Context, scope, actorID, id int64) error {
	current, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		l, err := s.licenseRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if l.Used > 0 {
			return apperrors.ErrLicenseInUse
		}
		return s.licenseRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("licenseID", id).Int64("actorID", actorID).Msg("License deleted")
	publish(s.events, websocket.EventLicenseDeleted, current.CompanyID, actorID, map[string]int64{"id": id})
	return nil
}

// ListUsers returns the license with its holders
func (s *licenseServiceImpl) ListUsers(ctx context.Context, scope, id int64) (*dto.LicenseUsersResponse, error) {
	l, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	users, err := s.licenseRepo.ListUsers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error listing license users: %w", err)
	}
	return &dto.LicenseUsersResponse{License: dto.NewLicenseResponse(l), Users: users}, nil
}

// Allocate gives each user a seat. Users already holding the license are skipped;
// the whole batch is refused when it would exceed the allocation.
func (s *licenseServiceImpl) Allocate(ctx context.Context, scope, actorID, id int64, userIDs []int64) (*dto.LicenseUsersResponse, error) {
	l, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one user is required")
	}

	now := s.now()
	if l.ExpiryDate > 0 && l.ExpiryDate < now.Unix() {
		return nil, apperrors.NewConflictError("license has expired")
	}
	for _, userID := range userIDs {
		if err := s.authzService.ValidateUserInCompany(ctx, l.CompanyID, userID); err != nil {
			return nil, err
		}
	}

	var added int
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.licenseRepo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, userID := range userIDs {
			ok, err := s.licenseRepo.AddUser(ctx, tx, id, userID, now.Unix())
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		used, err := s.licenseRepo.SyncUsed(ctx, tx, id)
		if err != nil {
			return err
		}
		if used > locked.Allocation {
			return &apperrors.CustomError{
				Err:     apperrors.ErrLicenseExhausted,
				Message: fmt.Sprintf("license has %d free seats, %d requested", locked.Available(), added),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("licenseID", id).Int("added", added).Int64("actorID", actorID).Msg("License seats allocated")
	resp, err := s.ListUsers(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	publish(s.events, websocket.EventLicenseAllocated, l.CompanyID, actorID, map[string]interface{}{
		"id":      id,
		"userIds": userIDs,
		"used":    resp.License.Used,
	})
	return resp, nil
}

// Revoke frees a user's seat unless the user has started using it
func (s *licenseServiceImpl) Revoke(ctx context.Context, scope, actorID, id, userID int64) error {
	l, err := s.loadScoped(ctx, scope, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := s.licenseRepo.GetForUpdate(ctx, tx, id); err != nil {
			return err
		}
		holder, err := s.licenseRepo.GetUser(ctx, tx, id, userID)
		if err != nil {
			return err
		}
		if holder.IsUsing {
			return apperrors.NewConflictError("the user has started using this license and it cannot be revoked")
		}
		if err := s.licenseRepo.RemoveUser(ctx, tx, id, userID); err != nil {
			return err
		}
		_, err = s.licenseRepo.SyncUsed(ctx, tx, id)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrLicenseUserNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			s.logger.Error().Err(err).Int64("licenseID", id).Int64("userID", userID).Msg("Error revoking license")
		}
		return err
	}

	s.logger.Info().Int64("licenseID", id).Int64("userID", userID).Int64("actorID", actorID).Msg("License seat revoked")
	publish(s.events, websocket.EventLicenseRevoked, l.CompanyID, actorID, map[string]int64{"id": id, "userId": userID})
	return nil
}
