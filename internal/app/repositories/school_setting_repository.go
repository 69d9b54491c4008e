package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
)

const schoolSettingsTable = "theme_remui_school_settings"

// ISchoolSettingRepository stores per-school key/value settings
type ISchoolSettingRepository interface {
	List(ctx context.Context, companyID int64, namePrefix string) ([]models.SchoolSetting, error)
	Get(ctx context.Context, companyID int64, name string) (*models.SchoolSetting, error)
	Upsert(ctx context.Context, q Querier, setting *models.SchoolSetting) error
}

// SchoolSettingRepository handles theme_remui_school_settings rows
type SchoolSettingRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewSchoolSettingRepository creates a new SchoolSettingRepository
func NewSchoolSettingRepository(pool *pgxpool.Pool, schema db.Schema) *SchoolSettingRepository {
	return &SchoolSettingRepository{db: pool, sb: statementBuilder(), schema: schema}
}

func (r *SchoolSettingRepository) selectSettings() squirrel.SelectBuilder {
	return r.sb.Select("id", "companyid", "name", "value", "timemodified").From(r.schema.T(schoolSettingsTable))
}

func scanSetting(row interface{ Scan(...any) error }, s *models.SchoolSetting) error {
	return row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Value, &s.TimeModified)
}

// List returns the school's settings whose name starts with namePrefix
func (r *SchoolSettingRepository) List(ctx context.Context, companyID int64, namePrefix string) ([]models.SchoolSetting, error) {
	query, args, err := r.selectSettings().
		Where(squirrel.Eq{"companyid": companyID}).
		Where(squirrel.Like{"name": namePrefix + "%"}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build settings query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.SchoolSetting{}
	for rows.Next() {
		var s models.SchoolSetting
		if err := scanSetting(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Get returns one setting, or nil when the school never stored it
func (r *SchoolSettingRepository) Get(ctx context.Context, companyID int64, name string) (*models.SchoolSetting, error) {
	query, args, err := r.selectSettings().
		Where(squirrel.Eq{"companyid": companyID, "name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build setting query: %w", err)
	}

	var s models.SchoolSetting
	if err := scanSetting(r.db.QueryRow(ctx, query, args...), &s); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load setting: %w", err)
	}
	return &s, nil
}

func (r *SchoolSettingRepository) upsertQuery(s *models.SchoolSetting) (string, []any, error) {
	return r.sb.Insert(r.schema.T(schoolSettingsTable)).
		Columns("companyid", "name", "value", "timemodified").
		Values(s.CompanyID, s.Name, s.Value, s.TimeModified).
		Suffix("ON CONFLICT (companyid, name) DO UPDATE SET value = EXCLUDED.value, timemodified = EXCLUDED.timemodified RETURNING id").
		ToSql()
}

// Upsert writes the setting, replacing any previous value for the same name
func (r *SchoolSettingRepository) Upsert(ctx context.Context, q Querier, s *models.SchoolSetting) error {
	query, args, err := r.upsertQuery(s)
	if err != nil {
		return fmt.Errorf("failed to build setting upsert: %w", err)
	}
	if err := q.QueryRow(ctx, query, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}
