package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/auth"
)

// Context keys set by the auth middleware
const (
	ContextUserID    = "userID"
	ContextUsername  = "username"
	ContextRoleType  = "roleType"
	ContextCompanyID = "companyID"
	ContextSchoolID  = "schoolID"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService   *auth.JWTService
	authzService *appauth.AuthorizationService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, authzService *appauth.AuthorizationService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtService,
		authzService: authzService,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// tokenFromRequest reads the bearer header, falling back to the token query
// parameter that websocket clients and Swagger UI use
func tokenFromRequest(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if queryToken := c.Query("token"); queryToken != "" {
			authHeader = queryToken
		} else if queryToken := c.Query("authorization"); queryToken != "" {
			authHeader = queryToken
		}
	}
	if authHeader == "" {
		return "", nil
	}

	authHeader = strings.Trim(authHeader, "\"'")
	// raw JWT without the Bearer prefix
	if strings.Count(authHeader, ".") == 2 && !strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader, nil
	}
	return auth.ExtractBearerToken(authHeader)
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
			return
		}
		if tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Authentication failed", "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRoleType, models.RoleType(claims.RoleType))
		c.Set(ContextCompanyID, claims.CompanyID)

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the required roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleType)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}

		roleType, _ := role.(models.RoleType)
		for _, allowed := range roles {
			if roleType == allowed {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// SchoolScope resolves the school the request works on from the companyId
// query parameter and stores it under schoolID. Managers are pinned to their own school.
func (m *AuthMiddleware) SchoolScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CurrentUser(c)
		if caller == nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User information not found")
			return
		}

		var requested int64
		if raw := c.Query("companyId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid companyId").
					WithField("companyId").
					WithDetails("companyId must be a valid number")
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
				return
			}
			requested = id
		}

		scope, err := m.authzService.ResolveCompanyScope(caller, requested)
		if err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSchoolID, scope)
		c.Next()
	}
}

// CurrentUser rebuilds the caller from the values JWTAuth stored; nil when unauthenticated
func CurrentUser(c *gin.Context) *models.SessionUser {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := userID.(int64)
	if !ok {
		return nil
	}
	return &models.SessionUser{
		ID:        id,
		Username:  c.GetString(ContextUsername),
		RoleType:  roleFromContext(c),
		CompanyID: c.GetInt64(ContextCompanyID),
	}
}

func roleFromContext(c *gin.Context) models.RoleType {
	v, _ := c.Get(ContextRoleType)
	role, _ := v.(models.RoleType)
	return role
}

// GetUserID returns the authenticated user's id
func GetUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

// GetSchoolScope returns the school resolved by SchoolScope, 0 meaning every school
func GetSchoolScope(c *gin.Context) int64 {
	return c.GetInt64(ContextSchoolID)
}
