package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// CreateLicenseRequest represents license creation data
type CreateLicenseRequest struct {
	// CompanyID is only honoured for site admins; managers always create in their school
	CompanyID   int64   `json:"companyId" binding:"omitempty,gte=0"`
	Name        string  `json:"name" binding:"required,max=250" example:"Year 5 Maths 2025"`
	Allocation  int     `json:"allocation" binding:"gte=0" example:"30"`
	ValidLength int     `json:"validLength" binding:"gte=0" example:"365"`
	StartDate   int64   `json:"startDate" binding:"gte=0" example:"1735689600"`
	ExpiryDate  int64   `json:"expiryDate" binding:"gte=0" example:"1767225600"`
	Type        int     `json:"type" binding:"gte=0,lte=1"`
	CourseIDs   []int64 `json:"courseIds" binding:"omitempty,dive,gt=0"`
}

// UpdateLicenseRequest represents license update data
type UpdateLicenseRequest struct {
	Name        string  `json:"name" binding:"required,max=250"`
	Allocation  int     `json:"allocation" binding:"gte=0"`
	ValidLength int     `json:"validLength" binding:"gte=0"`
	StartDate   int64   `json:"startDate" binding:"gte=0"`
	ExpiryDate  int64   `json:"expiryDate" binding:"gte=0"`
	Type        int     `json:"type" binding:"gte=0,lte=1"`
	CourseIDs   []int64 `json:"courseIds" binding:"omitempty,dive,gt=0"`
}

// AllocateLicenseRequest lists users to receive a license seat
type AllocateLicenseRequest struct {
	UserIDs []int64 `json:"userIds" binding:"required,min=1,max=500,dive,gt=0"`
}

// LicenseResponse is a license with its remaining seats
type LicenseResponse struct {
	*models.License
	Available int `json:"available"`
}

// NewLicenseResponse converts a license model
func NewLicenseResponse(l *models.License) LicenseResponse {
	return LicenseResponse{License: l, Available: l.Available()}
}

// LicenseListResponse represents a page of licenses
type LicenseListResponse struct {
	Licenses   []LicenseResponse `json:"licenses"`
	Pagination PaginationInfo    `json:"pagination"`
}

// LicenseUsersResponse lists the holders of a license
type LicenseUsersResponse struct {
	License LicenseResponse      `json:"license"`
	Users   []models.LicenseUser `json:"users"`
}
