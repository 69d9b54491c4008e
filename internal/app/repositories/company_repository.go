package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zakiByline/remui-kids-sub019/internal/app/models"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/apperrors"
	"github.com/zakiByline/remui-kids-sub019/internal/pkg/dberrors"
)

// ICompanyRepository reads IOMAD companies and their memberships
type ICompanyRepository interface {
	List(ctx context.Context) ([]models.Company, error)
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetSummary(ctx context.Context, id int64) (*models.CompanySummary, error)
	UserInCompany(ctx context.Context, companyID, userID int64) (bool, error)
	CourseInCompany(ctx context.Context, companyID, courseID int64) (bool, error)
}

// CompanyRepository handles mdl_company queries
type CompanyRepository struct {
	db     *pgxpool.Pool
	sb     squirrel.StatementBuilderType
	schema db.Schema
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool, schema db.Schema) *CompanyRepository {
	return &CompanyRepository{db: pool, sb: statementBuilder(), schema: schema}
}

func (r *CompanyRepository) selectCompany() squirrel.SelectBuilder {
	return r.sb.Select("id", "name", "shortname", "city", "country", "suspended").
		From(r.schema.T("company"))
}

func scanCompany(row interface{ Scan(...any) error }, c *models.Company) error {
	var suspended int16
	if err := row.Scan(&c.ID, &c.Name, &c.ShortName, &c.City, &c.Country, &suspended); err != nil {
		return err
	}
	c.Suspended = suspended != 0
	return nil
}

// List returns every school ordered by name
func (r *CompanyRepository) List(ctx context.Context) ([]models.Company, error) {
	query, args, err := r.selectCompany().OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build company list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetByID loads one school
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query, args, err := r.selectCompany().Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build company query: %w", err)
	}

	var c models.Company
	if err := scanCompany(r.db.QueryRow(ctx, query, args...), &c); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	return &c, nil
}

// GetSummary loads a school with its member, course and license counts
func (r *CompanyRepository) GetSummary(ctx context.Context, id int64) (*models.CompanySummary, error) {
	company, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := r.schema.Expand(`
		SELECT
			COUNT(*) FILTER (WHERE cu.managertype = 0 AND cu.educator = 0),
			COUNT(*) FILTER (WHERE cu.educator = 1),
			COUNT(*) FILTER (WHERE cu.managertype > 0),
			(SELECT COUNT(*) FROM {{prefix}}company_course WHERE companyid = $1),
			(SELECT COUNT(*) FROM {{prefix}}companylicense WHERE companyid = $1)
		FROM {{prefix}}company_users cu
		JOIN {{prefix}}user u ON u.id = cu.userid AND u.deleted = 0
		WHERE cu.companyid = $1`)

	summary := &models.CompanySummary{Company: *company}
	err = r.db.QueryRow(ctx, query, id).Scan(
		&summary.Students, &summary.Teachers, &summary.Managers, &summary.Courses, &summary.Licenses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count company members: %w", err)
	}
	return summary, nil
}

func (r *CompanyRepository) exists(ctx context.Context, b squirrel.SelectBuilder) (bool, error) {
	query, args, err := b.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, err
	}
	var ok bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// UserInCompany reports whether the user is a non-deleted member of the school
func (r *CompanyRepository) UserInCompany(ctx context.Context, companyID, userID int64) (bool, error) {
	ok, err := r.exists(ctx, r.sb.Select("1").
		From(r.schema.As("company_users", "cu")).
		Join(r.schema.As("user", "u")+" ON u.id = cu.userid").
		Where(squirrel.Eq{"cu.companyid": companyID, "cu.userid": userID, "u.deleted": 0}))
	if err != nil {
		return false, fmt.Errorf("failed to check company membership: %w", err)
	}
	return ok, nil
}

// CourseInCompany reports whether the course is assigned to the school
func (r *CompanyRepository) CourseInCompany(ctx context.Context, companyID, courseID int64) (bool, error) {
	ok, err := r.exists(ctx, r.sb.Select("1").
		From(r.schema.T("company_course")).
		Where(squirrel.Eq{"companyid": companyID, "courseid": courseID}))
	if err != nil {
		return false, fmt.Errorf("failed to check company course: %w", err)
	}
	return ok, nil
}
