package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/auth"
)

// TokenIssuer signs access tokens for resolved dashboard users
type TokenIssuer interface {
	GenerateToken(user *models.SessionUser) (string, int, error)
}

// AuthService defines the login surface
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*models.SessionUser, error)
}

type authServiceImpl struct {
	userRepo repositories.IUserRepository
	tokens   TokenIssuer
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, tokens TokenIssuer, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Login verifies Moodle credentials and issues a token for admins and school managers
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if accountDisabled(user) {
		s.logger.Info().Int64("userID", user.ID).Msg("Login attempt on disabled account")
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		if !auth.IsBcryptHash(user.Password) {
			s.logger.Warn().Int64("userID", user.ID).Msg("Account password uses an unsupported hash scheme")
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	session, err := s.resolveSession(ctx, user)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := s.tokens.GenerateToken(session)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().
		Int64("userID", session.ID).
		Str("roleType", string(session.RoleType)).
		Int64("companyID", session.CompanyID).
		Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: session,
	}, nil
}

// Me reloads the caller so revoked roles or suspensions take effect immediately
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*models.SessionUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accountDisabled(user) {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.resolveSession(ctx, user)
}

// accountDisabled covers suspension and the nologin auth plugin
func accountDisabled(user *models.MoodleUser) bool {
	return user.Suspended || user.Auth == "nologin"
}

// resolveSession grants ADMIN to site admins and MANAGER to company managers
func (s *authServiceImpl) resolveSession(ctx context.Context, user *models.MoodleUser) (*models.SessionUser, error) {
	session := &models.SessionUser{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}

	isAdmin, err := s.userRepo.IsSiteAdmin(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if isAdmin {
		session.RoleType = models.RoleAdmin
		return session, nil
	}

	membership, err := s.userRepo.GetManagerMembership(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotInCompany) {
			return nil, apperrors.NewForbiddenError("only site administrators and school managers can use the dashboard")
		}
		return nil, err
	}

	session.RoleType = models.RoleManager
	session.CompanyID = membership.CompanyID
	session.CompanyName = membership.CompanyName
	return session, nil
}
