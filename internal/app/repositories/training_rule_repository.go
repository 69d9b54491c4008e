package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/logger"
)

const trainingTable = "local_aiassistant_training"

// ITrainingRuleRepository manages AI assistant training rules
type ITrainingRuleRepository interface {
	List(ctx context.Context, filter models.TrainingRuleFilter) ([]models.TrainingRule, int64, error)
	ListEnabled(ctx context.Context, companyID int64) ([]models.TrainingRule, error)
	GetByID(ctx context.Context, id int64) (*models.TrainingRule, error)
	Create(ctx context.Context, rule *models.TrainingRule) error
	Update(ctx context.Context, rule *models.TrainingRule) error
	SetEnabled(ctx context.Context, id int64, enabled bool, now int64) error
	Delete(ctx context.Context, id int64) error
}

// TrainingRuleRepository handles local_aiassistant_training rows
type TrainingRuleRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewTrainingRuleRepository creates a new TrainingRuleRepository
func NewTrainingRuleRepository(pool *pgxpool.Pool, schema db.Schema) *TrainingRuleRepository {
	return &TrainingRuleRepository{db: pool, sb: statementBuilder(), schema: schema}
}

var trainingColumns = []string{
	"id", "companyid", "category", "trigger_phrase", "response", "priority",
	"enabled", "createdby", "timecreated", "timemodified",
}

func scanTrainingRule(row interface{ Scan(...any) error }, t *models.TrainingRule) error {
	var category string
	var enabled int
	if err := row.Scan(&t.ID, &t.CompanyID, &category, &t.TriggerPhrase, &t.Response, &t.Priority,
		&enabled, &t.CreatedBy, &t.TimeCreated, &t.TimeModified); err != nil {
		return err
	}
	t.Category = models.TrainingCategory(category)
	t.Enabled = enabled == 1
	return nil
}

func boolToSmallint(b bool) int {
	if b {
		return 1
	}
	return 0
}

// visibleTo matches the school's own rules plus the site-wide ones (companyid 0)
func visibleTo(companyID int64) squirrel.Sqlizer {
	if companyID <= 0 {
		return squirrel.Expr("1 = 1")
	}
	return squirrel.Eq{"companyid": []int64{0, companyID}}
}

func (r *TrainingRuleRepository) listQueries(filter models.TrainingRuleFilter) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	where := squirrel.And{visibleTo(filter.CompanyID)}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": string(filter.Category)})
	}
	if filter.Enabled != nil {
		where = append(where, squirrel.Eq{"enabled": boolToSmallint(*filter.Enabled)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"trigger_phrase": pattern},
			squirrel.ILike{"response": pattern},
		})
	}

	count := r.sb.Select("COUNT(*)").From(r.schema.T(trainingTable)).Where(where)
	list := r.sb.Select(trainingColumns...).
		From(r.schema.T(trainingTable)).
		Where(where).
		OrderBy("priority DESC", "id").
		Limit(filter.Page.Limit()).
		Offset(filter.Page.Offset())
	return count, list
}

func (r *TrainingRuleRepository) query(ctx context.Context, b squirrel.SelectBuilder) ([]models.TrainingRule, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build training rules query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing training rules query")
		return nil, fmt.Errorf("failed to list training rules: %w", err)
	}
	defer rows.Close()

	rules := []models.TrainingRule{}
	for rows.Next() {
		var t models.TrainingRule
		if err := scanTrainingRule(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan training rule: %w", err)
		}
		rules = append(rules, t)
	}
	return rules, rows.Err()
}

// List returns a page of rules visible to the school
func (r *TrainingRuleRepository) List(ctx context.Context, filter models.TrainingRuleFilter) ([]models.TrainingRule, int64, error) {
	countQ, listQ := r.listQueries(filter)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count training rules query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count training rules: %w", err)
	}
	if total == 0 {
		return []models.TrainingRule{}, 0, nil
	}

	rules, err := r.query(ctx, listQ)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// ListEnabled returns every enabled rule the school's assistant should load
func (r *TrainingRuleRepository) ListEnabled(ctx context.Context, companyID int64) ([]models.TrainingRule, error) {
	return r.query(ctx, r.sb.Select(trainingColumns...).
		From(r.schema.T(trainingTable)).
		Where(visibleTo(companyID)).
		Where(squirrel.Eq{"enabled": 1}).
		OrderBy("priority DESC", "id"))
}

// GetByID loads one rule
func (r *TrainingRuleRepository) GetByID(ctx context.Context, id int64) (*models.TrainingRule, error) {
	query, args, err := r.sb.Select(trainingColumns...).From(r.schema.T(trainingTable)).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build training rule query: %w", err)
	}
	var t models.TrainingRule
	if err := scanTrainingRule(r.db.QueryRow(ctx, query, args...), &t); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTrainingRuleNotFound
		}
		return nil, fmt.Errorf("failed to load training rule: %w", err)
	}
	return &t, nil
}

// Create inserts the rule and sets its ID
func (r *TrainingRuleRepository) Create(ctx context.Context, t *models.TrainingRule) error {
	query, args, err := r.sb.Insert(r.schema.T(trainingTable)).
		Columns("companyid", "category", "trigger_phrase", "response", "priority", "enabled", "createdby", "timecreated", "timemodified").
		Values(t.CompanyID, string(t.Category), t.TriggerPhrase, t.Response, t.Priority, boolToSmallint(t.Enabled), t.CreatedBy, t.TimeCreated, t.TimeModified).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build training rule insert: %w", err)
	}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&t.ID); err != nil {
		return fmt.Errorf("failed to create training rule: %w", err)
	}
	return nil
}

func (r *TrainingRuleRepository) exec(ctx context.Context, b squirrel.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build training rule statement: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to write training rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTrainingRuleNotFound
	}
	return nil
}

// Update rewrites the editable fields of the rule
func (r *TrainingRuleRepository) Update(ctx context.Context, t *models.TrainingRule) error {
	return r.exec(ctx, r.sb.Update(r.schema.T(trainingTable)).
		Set("category", string(t.Category)).
		Set("trigger_phrase", t.TriggerPhrase).
		Set("response", t.Response).
		Set("priority", t.Priority).
		Set("enabled", boolToSmallint(t.Enabled)).
		Set("timemodified", t.TimeModified).
		Where(squirrel.Eq{"id": t.ID}))
}

// SetEnabled switches a rule on or off
func (r *TrainingRuleRepository) SetEnabled(ctx context.Context, id int64, enabled bool, now int64) error {
	return r.exec(ctx, r.sb.Update(r.schema.T(trainingTable)).
		Set("enabled", boolToSmallint(enabled)).
		Set("timemodified", now).
		Where(squirrel.Eq{"id": id}))
}

// Delete removes the rule
func (r *TrainingRuleRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, r.sb.Delete(r.schema.T(trainingTable)).Where(squirrel.Eq{"id": id}))
}
