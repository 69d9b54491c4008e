package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
)

func TestCompanyService_List(t *testing.T) {
	repo := &mockCompanyRepo{}
	svc := NewCompanyService(repo)
	repo.On("List", mock.Anything).Return([]models.Company{{ID: 3}, {ID: 4}}, nil)
	repo.On("GetByID", mock.Anything, int64(3)).Return(&models.Company{ID: 3, Name: "Riverside"}, nil)

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all.Companies, 2)

	own, err := svc.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []models.Company{{ID: 3, Name: "Riverside"}}, own.Companies)
}

func TestCompanyService_Get(t *testing.T) {
	repo := &mockCompanyRepo{}
	svc := NewCompanyService(repo)
	repo.On("GetSummary", mock.Anything, int64(4)).Return(&models.CompanySummary{}, nil)

	_, err := svc.Get(context.Background(), 3, 4)
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)

	summary, err := svc.Get(context.Background(), 0, 4)
	require.NoError(t, err)
	assert.NotNil(t, summary)
	repo.AssertNumberOfCalls(t, "GetSummary", 1)
}
