package services

import (
	"context"
	"fmt"

	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
)

// CompanyService defines school listing
type CompanyService interface {
	List(ctx context.Context, scope int64) (*dto.CompanyListResponse, error)
	Get(ctx context.Context, scope, id int64) (*models.CompanySummary, error)
}

type companyServiceImpl struct {
	companyRepo repositories.ICompanyRepository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo repositories.ICompanyRepository) CompanyService {
	return &companyServiceImpl{companyRepo: companyRepo}
}

// List returns every school for admins and the manager's own school otherwise
func (s *companyServiceImpl) List(ctx context.Context, scope int64) (*dto.CompanyListResponse, error) {
	if scope > 0 {
		c, err := s.companyRepo.GetByID(ctx, scope)
		if err != nil {
			return nil, err
		}
		return &dto.CompanyListResponse{Companies: []models.Company{*c}}, nil
	}

	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing schools: %w", err)
	}
	return &dto.CompanyListResponse{Companies: companies}, nil
}

// Get returns one school with its headline counts
func (s *companyServiceImpl) Get(ctx context.Context, scope, id int64) (*models.CompanySummary, error) {
	if scope > 0 && scope != id {
		return nil, apperrors.ErrCompanyNotFound
	}
	return s.companyRepo.GetSummary(ctx, id)
}
