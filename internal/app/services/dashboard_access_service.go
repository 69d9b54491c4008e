package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	appauth "github.com/zakiByline/remui-kids-sub019/internal/app/auth"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models/dto"
	"github.com/zakiByline/remui-kids-sub019/internal/app/repositories"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/websocket"
)

const dashboardAccessPrefix = "dashboard_access_"

// DashboardAccessService defines the per-school dashboard toggles
type DashboardAccessService interface {
	Get(ctx context.Context, companyID int64) (*dto.DashboardAccessResponse, error)
	Set(ctx context.Context, companyID, actorID int64, audience string, enabled bool) (*models.DashboardAccess, error)
	SetMany(ctx context.Context, companyID, actorID int64, settings map[string]bool) (*dto.DashboardAccessResponse, error)
	Check(ctx context.Context, companyID int64, audience string) (*dto.DashboardAccessCheckResponse, error)
}

type dashboardAccessServiceImpl struct {
	settingRepo  repositories.ISchoolSettingRepository
	authzService *appauth.AuthorizationService
	tx           TxRunner
	events       EventPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewDashboardAccessService creates a new DashboardAccessService
func NewDashboardAccessService(
	settingRepo repositories.ISchoolSettingRepository,
	authzService *appauth.AuthorizationService,
	tx TxRunner,
	events EventPublisher,
	logger zerolog.Logger,
) DashboardAccessService {
	return &dashboardAccessServiceImpl{
		settingRepo:  settingRepo,
		authzService: authzService,
		tx:           tx,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

func parseAudience(v string) (models.Audience, error) {
	a := models.Audience(strings.ToLower(strings.TrimSpace(v)))
	if !a.IsValid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown audience %q", v))
	}
	return a, nil
}

// settingEnabled reads a stored toggle; anything but an explicit off value is on
func settingEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}

func settingValue(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}

// Get lists every audience; audiences never stored default to enabled
func (s *dashboardAccessServiceImpl) Get(ctx context.Context, companyID int64) (*dto.DashboardAccessResponse, error) {
	if err := s.authzService.RequireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	stored, err := s.settingRepo.List(ctx, companyID, dashboardAccessPrefix)
	if err != nil {
		return nil, fmt.Errorf("error loading dashboard access: %w", err)
	}
	byName := make(map[string]models.SchoolSetting, len(stored))
	for _, st := range stored {
		byName[st.Name] = st
	}

	out := make([]models.DashboardAccess, 0, len(models.Audiences))
	for _, a := range models.Audiences {
		access := models.DashboardAccess{Audience: a, Enabled: true, IsDefault: true}
		if st, ok := byName[a.SettingName()]; ok {
			access.Enabled = settingEnabled(st.Value)
			access.IsDefault = false
			access.TimeModified = st.TimeModified
		}
		out = append(out, access)
	}
	return &dto.DashboardAccessResponse{CompanyID: companyID, Settings: out}, nil
}

// Set switches one audience
func (s *dashboardAccessServiceImpl) Set(ctx context.Context, companyID, actorID int64, audience string, enabled bool) (*models.DashboardAccess, error) {
	resp, err := s.SetMany(ctx, companyID, actorID, map[string]bool{audience: enabled})
	if err != nil {
		return nil, err
	}
	a, _ := parseAudience(audience)
	for i := range resp.Settings {
		if resp.Settings[i].Audience == a {
			return &resp.Settings[i], nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("audience not found")
}

// SetMany switches several audiences in one transaction. Unknown audiences reject the whole request.
func (s *dashboardAccessServiceImpl) SetMany(ctx context.Context, companyID, actorID int64, settings map[string]bool) (*dto.DashboardAccessResponse, error) {
	if len(settings) == 0 {
		return nil, apperrors.NewValidationError("at least one audience is required")
	}
	if err := s.authzService.RequireCompany(ctx, companyID); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	rows := make([]*models.SchoolSetting, 0, len(settings))
	for name, enabled := range settings {
		a, err := parseAudience(name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &models.SchoolSetting{
			CompanyID:    companyID,
			Name:         a.SettingName(),
			Value:        settingValue(enabled),
			TimeModified: now,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, row := range rows {
			if err := s.settingRepo.Upsert(ctx, tx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("companyID", companyID).Int64("actorID", actorID).Interface("settings", settings).Msg("Dashboard access updated")
	publish(s.events, websocket.EventDashboardAccess, companyID, actorID, resp)
	return resp, nil
}

// Check answers whether the audience may open its dashboard
func (s *dashboardAccessServiceImpl) Check(ctx context.Context, companyID int64, audience string) (*dto.DashboardAccessCheckResponse, error) {
	a, err := parseAudience(audience)
	if err != nil {
		return nil, err
	}
	if companyID <= 0 {
		return nil, apperrors.NewValidationError("companyId is required for this operation")
	}

	st, err := s.settingRepo.Get(ctx, companyID, a.SettingName())
	if err != nil {
		return nil, fmt.Errorf("error loading dashboard access: %w", err)
	}
	enabled := true
	if st != nil {
		enabled = settingEnabled(st.Value)
	}
	return &dto.DashboardAccessCheckResponse{CompanyID: companyID, Audience: a, Enabled: enabled}, nil
}
