package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// LoginRequest represents Moodle login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"manager1"`
	Password string `json:"password" binding:"required" example:"Secret123!"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"28800"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse       `json:"token"`
	User  *models.SessionUser `json:"user"`
}
