package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/auth"
)

type stubIssuer struct {
	issued *models.SessionUser
}

func (s *stubIssuer) GenerateToken(user *models.SessionUser) (string, int, error) {
	s.issued = user
	return "signed-token", 3600, nil
}

func newMoodleUser(t *testing.T, password string) *models.MoodleUser {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.MoodleUser{ID: 7, Username: "jdoe", Password: hash, Auth: "manual", FirstName: "Jane", LastName: "Doe"}
}

func TestAuthService_LoginAdmin(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepo{}
	issuer := &stubIssuer{}
	svc := NewAuthService(repo, issuer, zerolog.Nop())

	repo.On("GetByUsername", ctx, "jdoe").Return(newMoodleUser(t, "Secret123!"), nil)
	repo.On("IsSiteAdmin", ctx, int64(7)).Return(true, nil)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "Secret123!"})
	require.NoError(t, err)

	assert.Equal(t, "signed-token", resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, int64(3600), resp.Token.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.User.RoleType)
	assert.Equal(t, int64(0), resp.User.CompanyID)
	assert.Same(t, resp.User, issuer.issued)
	repo.AssertNotCalled(t, "GetManagerMembership", mock.Anything, mock.Anything)
}

func TestAuthService_LoginManager(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, &stubIssuer{}, zerolog.Nop())

	repo.On("GetByUsername", ctx, "jdoe").Return(newMoodleUser(t, "Secret123!"), nil)
	repo.On("IsSiteAdmin", ctx, int64(7)).Return(false, nil)
	repo.On("GetManagerMembership", ctx, int64(7)).Return(&models.CompanyMembership{CompanyID: 4, CompanyName: "Riverside", ManagerType: 1}, nil)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "Secret123!"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.User.RoleType)
	assert.Equal(t, int64(4), resp.User.CompanyID)
	assert.Equal(t, "Riverside", resp.User.CompanyName)
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", ctx, "ghost").Return(nil, apperrors.ErrUserNotFound)
		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{Username: "ghost", Password: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", ctx, "jdoe").Return(newMoodleUser(t, "Secret123!"), nil)
		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unsupported hash", func(t *testing.T) {
		repo := &mockUserRepo{}
		u := newMoodleUser(t, "Secret123!")
		u.Password = "$6$rounds=5000$salt$hash"
		repo.On("GetByUsername", ctx, "jdoe").Return(u, nil)
		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "Secret123!"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("suspended", func(t *testing.T) {
		repo := &mockUserRepo{}
		u := newMoodleUser(t, "Secret123!")
		u.Suspended = true
		repo.On("GetByUsername", ctx, "jdoe").Return(u, nil)
		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "Secret123!"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})

	t.Run("neither admin nor manager", func(t *testing.T) {
		repo := &mockUserRepo{}
		repo.On("GetByUsername", ctx, "jdoe").Return(newMoodleUser(t, "Secret123!"), nil)
		repo.On("IsSiteAdmin", ctx, int64(7)).Return(false, nil)
		repo.On("GetManagerMembership", ctx, int64(7)).Return(nil, apperrors.ErrUserNotInCompany)
		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{Username: "jdoe", Password: "Secret123!"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := NewAuthService(&mockUserRepo{}, &stubIssuer{}, zerolog.Nop()).Login(ctx, &dto.LoginRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	repo := &mockUserRepo{}
	svc := NewAuthService(repo, &stubIssuer{}, zerolog.Nop())

	repo.On("GetByID", ctx, int64(7)).Return(newMoodleUser(t, "Secret123!"), nil)
	repo.On("IsSiteAdmin", ctx, int64(7)).Return(true, nil)

	me, err := svc.Me(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", me.Username)
	assert.True(t, me.IsAdmin())
}

func TestAuthService_MeRejectsDisabledAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("nologin", func(t *testing.T) {
		repo := &mockUserRepo{}
		u := newMoodleUser(t, "Secret123!")
		u.Auth = "nologin"
		repo.On("GetByID", ctx, int64(7)).Return(u, nil)

		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Me(ctx, 7)
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
		repo.AssertNotCalled(t, "IsSiteAdmin", mock.Anything, mock.Anything)
	})

	t.Run("suspended", func(t *testing.T) {
		repo := &mockUserRepo{}
		u := newMoodleUser(t, "Secret123!")
		u.Suspended = true
		repo.On("GetByID", ctx, int64(7)).Return(u, nil)

		_, err := NewAuthService(repo, &stubIssuer{}, zerolog.Nop()).Me(ctx, 7)
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}
