package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

type errorMapping struct {
	status int
	code   dto.ErrorCode
}

// resolveError maps an application error onto an HTTP status and error code
func resolveError(err error) (errorMapping, bool) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrLicenseAllocationBelow):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed}, true
	case apperrors.Is(err, apperrors.ErrUserNotInCompany, apperrors.ErrCourseNotInCompany):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeResourceInvalid}, true
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials}, true
	case errors.Is(err, apperrors.ErrTokenExpired):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeExpiredToken}, true
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidToken}, true
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeAccountSuspended}, true
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden}, true
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrUserNotFound,
		apperrors.ErrCompanyNotFound,
		apperrors.ErrLicenseNotFound,
		apperrors.ErrLicenseUserNotFound,
		apperrors.ErrEnrollmentNotFound,
		apperrors.ErrTrainingRuleNotFound,
		apperrors.ErrRoleNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound}, true
	case apperrors.Is(err, apperrors.ErrResourceAlreadyExists, apperrors.ErrLicenseNameTaken, apperrors.ErrAlreadyEnrolled):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists}, true
	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrLicenseInUse, apperrors.ErrLicenseExhausted):
		return errorMapping{http.StatusConflict, dto.ErrorCodeConflict}, true
	case apperrors.Is(err, context.DeadlineExceeded, context.Canceled):
		return errorMapping{http.StatusServiceUnavailable, dto.ErrorCodeDatabaseError}, true
	}
	return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer}, false
}

// HandleAPIError handles common API errors and returns appropriate responses.
// Known errors carry their own client-facing message; anything else is logged
// and reported as an internal error.
func HandleAPIError(c *gin.Context, err error) {
	mapping, known := resolveError(err)

	message := err.Error()
	if !known {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Unhandled API error")
		message = "Internal server error"
	} else if mapping.status == http.StatusServiceUnavailable {
		message = "Request timed out"
	}

	errorDetail := dto.NewErrorDetail(mapping.code, message)
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Details != nil {
		errorDetail = errorDetail.WithDetails(custom.Details)
	}

	c.JSON(mapping.status, dto.NewErrorResponse(errorDetail))
}
