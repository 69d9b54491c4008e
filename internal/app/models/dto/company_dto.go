package dto

import "github.com/zakiByline/remui-kids-sub019/internal/app/models"

// CompanyListResponse lists the schools visible to the caller
type CompanyListResponse struct {
	Companies []models.Company `json:"companies"`
}
