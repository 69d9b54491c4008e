package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// SetDashboardAccessRequest toggles one audience
type SetDashboardAccessRequest struct {
	Enabled *bool `json:"enabled" binding:"required" example:"false"`
}

// SetManyDashboardAccessRequest toggles several audiences at once
type SetManyDashboardAccessRequest struct {
	Settings map[string]bool `json:"settings" binding:"required,min=1"`
}

// DashboardAccessResponse lists every audience toggle of a school
type DashboardAccessResponse struct {
	CompanyID int64                    `json:"companyId"`
	Settings  []models.DashboardAccess `json:"settings"`
}

// DashboardAccessCheckResponse answers whether one audience may open its dashboard
type DashboardAccessCheckResponse struct {
	CompanyID int64           `json:"companyId"`
	Audience  models.Audience `json:"audience"`
	Enabled   bool            `json:"enabled"`
}
